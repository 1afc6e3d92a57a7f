package log

// Config controls the process-wide logger.
type Config struct {
	// Name appears as the "logger" field on every entry.
	Name string `conf:"name" yaml:"name" json:"name"`
	// Level is one of debug, info, warn, error.
	Level string `conf:"level" yaml:"level" json:"level"`
	// Format is "json" or "console".
	Format string `conf:"format" yaml:"format" json:"format"`
	Debug  bool   `conf:"debug" yaml:"debug" json:"debug"`
	File   File   `conf:"file" yaml:"file" json:"file"`
}

// File enables rotating file output in addition to stderr.
type File struct {
	Filename   string `conf:"filename" yaml:"filename" json:"filename"`
	MaxSizeMB  int    `conf:"max_size_mb" yaml:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `conf:"max_backups" yaml:"max_backups" json:"max_backups"`
	MaxAgeDays int    `conf:"max_age_days" yaml:"max_age_days" json:"max_age_days"`
	Compress   bool   `conf:"compress" yaml:"compress" json:"compress"`
}
