// Package conf loads the application configuration from a YAML file and
// environment variables, merged over built-in defaults.
package conf

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"go.uber.org/fx"

	"github.com/PerryRichardson/storefront/internal/cart"
	"github.com/PerryRichardson/storefront/internal/log"
	"github.com/PerryRichardson/storefront/internal/notify"
	"github.com/PerryRichardson/storefront/internal/pkg/xcache"
	"github.com/PerryRichardson/storefront/internal/server"
	"github.com/PerryRichardson/storefront/internal/server/biz"
	"github.com/PerryRichardson/storefront/internal/storage"
)

// Config is the root of the configuration tree. The embedded fx.Out makes
// every section available for injection on its own.
type Config struct {
	fx.Out `yaml:"-" json:"-"`

	Server  server.Config  `conf:"server" yaml:"server" json:"server"`
	Log     log.Config     `conf:"log" yaml:"log" json:"log"`
	Storage storage.Config `conf:"storage" yaml:"storage" json:"storage"`
	Cache   xcache.Config  `conf:"cache" yaml:"cache" json:"cache"`
	Cart    cart.Config    `conf:"cart" yaml:"cart" json:"cart"`
	Notify  notify.Config  `conf:"notify" yaml:"notify" json:"notify"`
	Auth    biz.AuthConfig `conf:"auth" yaml:"auth" json:"auth"`
}

func defaultConfig() Config {
	return Config{
		Server: server.Config{
			Port:           8090,
			Host:           "0.0.0.0",
			Name:           "storefront",
			ReadTimeout:    30 * time.Second,
			RequestTimeout: 30 * time.Second,
		},
		Log: log.Config{
			Name:   "storefront",
			Level:  "info",
			Format: "console",
		},
		Storage: storage.Config{
			Dialect: "sqlite",
			DSN:     "file:storefront.db?cache=shared&_fk=1",
		},
		Cache: xcache.Config{
			Mode: xcache.ModeMemory,
		},
		Cart: cart.Config{
			Cache: xcache.Config{
				Mode: xcache.ModeMemory,
			},
			Expiration: 24 * time.Hour,
		},
		Auth: biz.AuthConfig{
			TokenTTL: 7 * 24 * time.Hour,
		},
	}
}

// Load reads config.yml from the working directory, ./conf or
// /etc/storefront, applies STOREFRONT_* environment overrides and merges
// the result over the defaults. A missing file is not an error.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./conf")
	v.AddConfigPath("/etc/storefront")
	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("conf: read config: %w", err)
		}
	}

	var loaded Config

	err := v.Unmarshal(&loaded, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "conf"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err != nil {
		return Config{}, fmt.Errorf("conf: unmarshal config: %w", err)
	}

	cfg := defaultConfig()
	if err := mergo.Merge(&cfg, loaded, mergo.WithOverride); err != nil {
		return Config{}, fmt.Errorf("conf: merge config: %w", err)
	}

	return cfg, nil
}
