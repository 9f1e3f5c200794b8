// Package logging routes the standard logger. stdout is reserved for the
// language server protocol, so logs go to stderr and optionally a rotated
// file.
package logging

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/neosfusion/fusionls/frontend"
)

type LogConfig struct {
	LogFile    string // Log file path, "" for stderr only
	MaxSize    int    // Max size in megabytes
	MaxBackups int    // Max number of backups
	MaxAge     int    // Max age in days
	Compress   bool   // Compress backups
}

func FromToml(lt frontend.LogToml) LogConfig {
	return LogConfig{
		LogFile:    lt.File,
		MaxSize:    lt.MaxSize,
		MaxBackups: lt.MaxBackups,
		MaxAge:     lt.MaxAge,
		Compress:   lt.Compress,
	}
}

// Writer returns where log output for config should go. The returned
// closer releases the log file, if any.
func Writer(config LogConfig, stderr io.Writer) (io.Writer, io.Closer, error) {
	if config.LogFile == "" {
		return stderr, io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(config.LogFile), 0755); err != nil {
		return nil, nil, err
	}

	logger := &lumberjack.Logger{
		Filename:   config.LogFile,
		MaxSize:    config.MaxSize,
		MaxBackups: config.MaxBackups,
		MaxAge:     config.MaxAge,
		Compress:   config.Compress,
	}
	return io.MultiWriter(stderr, logger), logger, nil
}

// SetupLogging points the standard logger at config.
func SetupLogging(config LogConfig) (io.Closer, error) {
	w, closer, err := Writer(config, os.Stderr)
	if err != nil {
		return nil, err
	}
	log.SetOutput(w)
	log.SetPrefix("fusionls: ")
	return closer, nil
}
