package gaul

import (
	"log"
	"os"

	"github.com/pkg/errors"
)

// LoggerLevel specifies a logger output level.
type LoggerLevel string

const (
	// LogLevelDebug is the most verbose level.
	LogLevelDebug LoggerLevel = "debug"
	// LogLevelInfo logs informational progress messages and up.
	LogLevelInfo LoggerLevel = "info"
	// LogLevelWarning logs warnings and errors only.
	LogLevelWarning LoggerLevel = "warn"
	// LogLevelError logs errors only.
	LogLevelError LoggerLevel = "error"
)

var (
	// LogLevel is the current package-wide log level.
	LogLevel LoggerLevel = LogLevelInfo

	loggerDebug = log.New(os.Stdout, "DEBUG: ", log.Ltime|log.Lshortfile)
	loggerInfo  = log.New(os.Stdout, "INFO: ", log.Ltime|log.Lshortfile)
	loggerWarn  = log.New(os.Stdout, "WARN: ", log.Ltime|log.Lshortfile)
	loggerError = log.New(os.Stderr, "ERROR: ", log.Ltime|log.Lshortfile)

	// DebugLog emits a message when the level is at least debug.
	DebugLog = func(message string) {
		if acceptLogLevel(LogLevel, LogLevelDebug) {
			_ = loggerDebug.Output(2, message)
		}
	}
	// InfoLog emits a message when the level is at least info.
	InfoLog = func(message string) {
		if acceptLogLevel(LogLevel, LogLevelInfo) {
			_ = loggerInfo.Output(2, message)
		}
	}
	// WarnLog emits a message when the level is at least warn.
	WarnLog = func(message string) {
		if acceptLogLevel(LogLevel, LogLevelWarning) {
			_ = loggerWarn.Output(2, message)
		}
	}
	// ErrorLog always emits a message.
	ErrorLog = func(message string) {
		if acceptLogLevel(LogLevel, LogLevelError) {
			_ = loggerError.Output(2, message)
		}
	}
)

// InitLogger parses level and sets LogLevel accordingly.
func InitLogger(level string) error {
	switch LoggerLevel(level) {
	case LogLevelDebug:
		LogLevel = LogLevelDebug
	case LogLevelInfo:
		LogLevel = LogLevelInfo
	case LogLevelWarning:
		LogLevel = LogLevelWarning
	case LogLevelError:
		LogLevel = LogLevelError
	default:
		return errors.Errorf("unsupported log level: [%s]", level)
	}
	return nil
}

func acceptLogLevel(current, target LoggerLevel) bool {
	rank := map[LoggerLevel]int{
		LogLevelDebug:   0,
		LogLevelInfo:    1,
		LogLevelWarning: 2,
		LogLevelError:   3,
	}
	cr, ok := rank[current]
	if !ok {
		return target == LogLevelError
	}
	tr := rank[target]
	return tr >= cr
}
