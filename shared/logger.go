package shared

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerConfig holds the configuration for the logger
type LoggerConfig struct {
	ServiceName string    // "nsm-ioctl" or "vsock-connect"
	Level       string    // debug, info, warn, error
	Development bool      // true for development mode
	Output      io.Writer // defaults to os.Stderr
}

// Logger wraps zap.Logger with the helper's service context.
// Everything goes to stderr; stdout is reserved for payload bytes.
type Logger struct {
	*zap.Logger
	serviceName string
	debug       bool
}

// NewLogger creates a new logger instance based on the configuration
func NewLogger(config LoggerConfig) (*Logger, error) {
	level, err := zapcore.ParseLevel(config.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", config.Level, err)
	}
	return newLogger(config, level), nil
}

// NewLoggerFromEnv creates a logger using environment variables. An
// unrecognised LOG_LEVEL falls back to error level.
func NewLoggerFromEnv(serviceName string, output io.Writer) *Logger {
	level, err := zapcore.ParseLevel(GetEnvOrDefault("LOG_LEVEL", ErrorLevel))
	if err != nil {
		level = zapcore.ErrorLevel
	}
	return newLogger(LoggerConfig{
		ServiceName: serviceName,
		Development: GetEnvOrDefault("DEVELOPMENT", "false") == "true",
		Output:      output,
	}, level)
}

func newLogger(config LoggerConfig, level zapcore.Level) *Logger {
	var sink zapcore.WriteSyncer = zapcore.Lock(os.Stderr)
	if config.Output != nil {
		sink = zapcore.AddSync(config.Output)
	}

	var encoderConfig zapcore.EncoderConfig
	opts := []zap.Option{zap.ErrorOutput(sink)}
	if config.Development {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		opts = append(opts, zap.Development(), zap.AddCaller(), zap.AddStacktrace(zapcore.WarnLevel))
	} else {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), sink, level)
	return wrap(zap.New(core, opts...), config.ServiceName, level)
}

// WrapLogger attaches service context to an existing zap logger, e.g. one
// from zaptest.
func WrapLogger(l *zap.Logger, serviceName string) *Logger {
	return wrap(l, serviceName, zapcore.DebugLevel)
}

func wrap(l *zap.Logger, serviceName string, level zapcore.Level) *Logger {
	return &Logger{
		Logger: l.With(
			zap.String("service", serviceName),
			zap.String("invocation_id", uuid.NewString()),
		),
		serviceName: serviceName,
		debug:       level <= zapcore.DebugLevel,
	}
}

// DebugIf logs at debug level only when debug output is enabled
func (l *Logger) DebugIf(msg string, fields ...zap.Field) {
	if l.debug {
		l.Logger.Debug(msg, fields...)
	}
}

// Failure logs a terminal helper error with its kind.
func (l *Logger) Failure(err error) {
	l.Logger.Error(l.serviceName+" failed",
		zap.String("kind", KindOf(err).String()),
		zap.Error(err),
	)
}

// Sync flushes any buffered log entries
func (l *Logger) Sync() error {
	return l.Logger.Sync()
}

// LogLevel constants for consistency
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)
