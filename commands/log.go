package commands

import (
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/leasehub/hubspot-app-sheets/config"
)

// setLogFile redirects the log to a rotated file if the configuration has a log file.
func setLogFile(logger *logrus.Logger, conf *config.Config) *lumberjack.Logger {
	if conf.LogFile == "" {
		return nil
	}

	file := &lumberjack.Logger{
		Filename: conf.LogFile,
		MaxSize:  conf.LogFileMaxSize,
		MaxAge:   conf.LogFileMaxAge,
		Compress: true,
	}

	logger.SetOutput(file)

	return file
}
