package log

import (
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/sirupsen/logrus"
)

// SetLogFile set log file path and rotation, rotation and maxAge are in hours.
// When a log file is specified the color text formatter is disabled.
func SetLogFile(logFile string, logRotation, logMaxAge uint64) {
	if logFile == "" {
		return
	}

	writer, err := rotatelogs.New(
		logFile+".%Y%m%d%H",
		rotatelogs.WithLinkName(logFile),
		rotatelogs.WithRotationTime(time.Duration(logRotation)*time.Hour),
		rotatelogs.WithMaxAge(time.Duration(logMaxAge)*time.Hour),
	)
	if err != nil {
		logrus.Fatalf("create rotate logs of file '%v' failed. %v", logFile, err)
	}

	logrus.SetOutput(writer)
	if JSONFormat {
		logrus.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: timestampFormat,
		})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			DisableColors:   true,
			ForceQuote:      true,
			FullTimestamp:   true,
			TimestampFormat: timestampFormat,
			DisableSorting:  true,
		})
	}
	logrus.Infof("set log file '%v' with rotation %v hours and max age %v hours", logFile, logRotation, logMaxAge)
}
