package log

import (
	"time"

	"go.uber.org/zap"
)

// Field is re-exported so callers never import zap directly.
type Field = zap.Field

func String(key, value string) Field { return zap.String(key, value) }

func Strings(key string, values []string) Field { return zap.Strings(key, values) }

func Int(key string, value int) Field { return zap.Int(key, value) }

func Int64(key string, value int64) Field { return zap.Int64(key, value) }

func Bool(key string, value bool) Field { return zap.Bool(key, value) }

func Any(key string, value any) Field { return zap.Any(key, value) }

func Duration(key string, value time.Duration) Field { return zap.Duration(key, value) }

// Cause records the error under the conventional "error" key.
func Cause(err error) Field { return zap.Error(err) }
