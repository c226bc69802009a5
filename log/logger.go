package log

import (
	"os"

	"github.com/sirupsen/logrus"
)

const timestampFormat = "2006-01-02T15:04:05.000"

// JSONFormat output log in json format
var JSONFormat bool

// SetLogger set log level and log format
// levels: 0:panic, 1:fatal, 2:error, 3:warn, 4:info, 5:debug, 6:trace
func SetLogger(logLevel uint32, jsonFormat, colorFormat bool) {
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.Level(logLevel))
	JSONFormat = jsonFormat
	if jsonFormat {
		logrus.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: timestampFormat,
		})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			ForceColors:     colorFormat,
			DisableColors:   !colorFormat,
			ForceQuote:      true,
			FullTimestamp:   true,
			TimestampFormat: timestampFormat,
			DisableSorting:  true,
		})
	}
}

// WithFields converts alternating key-value pairs to logrus fields
func WithFields(ctx ...interface{}) *logrus.Entry {
	length := len(ctx)
	if length%2 != 0 {
		Debugf("log fields number %v is not even", length)
	}
	fields := make(logrus.Fields)
	for k := 0; k+2 <= length; k += 2 {
		key, ok := ctx[k].(string)
		if ok {
			fields[key] = ctx[k+1]
		} else {
			Debugf("log field key '%v' is not string", ctx[k])
		}
	}
	return logrus.WithFields(fields)
}

// Trace trace
func Trace(msg string, ctx ...interface{}) {
	WithFields(ctx...).Trace(msg)
}

// Tracef tracef
func Tracef(format string, args ...interface{}) {
	logrus.Tracef(format, args...)
}

// Debug debug
func Debug(msg string, ctx ...interface{}) {
	WithFields(ctx...).Debug(msg)
}

// Debugf debugf
func Debugf(format string, args ...interface{}) {
	logrus.Debugf(format, args...)
}

// Info info
func Info(msg string, ctx ...interface{}) {
	WithFields(ctx...).Info(msg)
}

// Infof infof
func Infof(format string, args ...interface{}) {
	logrus.Infof(format, args...)
}

// Print print
func Print(msg ...interface{}) {
	logrus.Print(msg...)
}

// Printf printf
func Printf(format string, args ...interface{}) {
	logrus.Printf(format, args...)
}

// Println println
func Println(msg ...interface{}) {
	logrus.Println(msg...)
}

// Warn warn
func Warn(msg string, ctx ...interface{}) {
	WithFields(ctx...).Warn(msg)
}

// Warnf warnf
func Warnf(format string, args ...interface{}) {
	logrus.Warnf(format, args...)
}

// Error error
func Error(msg string, ctx ...interface{}) {
	WithFields(ctx...).Error(msg)
}

// Errorf errorf
func Errorf(format string, args ...interface{}) {
	logrus.Errorf(format, args...)
}

// Fatal fatal
func Fatal(msg string, ctx ...interface{}) {
	WithFields(ctx...).Fatal(msg)
}

// Fatalf fatalf
func Fatalf(format string, args ...interface{}) {
	logrus.Fatalf(format, args...)
}
