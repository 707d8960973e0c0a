// Package logger wires the shared charmbracelet logger: file-backed by
// default, mirrored to stderr in verbose mode.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

func init() {
	// Silence the package-level default logger; everything should go
	// through the instance configured here.
	log.SetLevel(log.FatalLevel)
}

var (
	// Log is the global logger instance.
	Log *log.Logger

	logFile *os.File
)

// Init initializes the logger. When verbose is false logs go to file
// only; when verbose is true they go to both file and stderr at debug
// level.
func Init(verbose bool) error {
	logDir := filepath.Dir(Path())
	if err := os.MkdirAll(logDir, 0755); err != nil {
		Log = stderrLogger(verbose)
		return nil
	}

	var err error
	logFile, err = os.OpenFile(Path(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		Log = stderrLogger(verbose)
		return nil
	}

	var output io.Writer = logFile
	if verbose {
		output = io.MultiWriter(logFile, os.Stderr)
	}

	Log = log.NewWithOptions(output, log.Options{
		ReportTimestamp: true,
	})
	if verbose {
		Log.SetLevel(log.DebugLevel)
	} else {
		Log.SetLevel(log.InfoLevel)
	}
	return nil
}

// stderrLogger is the fallback when the log file cannot be opened.
func stderrLogger(verbose bool) *log.Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})
	if verbose {
		l.SetLevel(log.DebugLevel)
	} else {
		l.SetLevel(log.WarnLevel)
	}
	return l
}

// Close closes the log file.
func Close() {
	if logFile != nil {
		_ = logFile.Close()
	}
}

// Path returns the log file location.
func Path() string {
	cacheDir := os.Getenv("XDG_CACHE_HOME")
	if cacheDir == "" {
		homeDir, _ := os.UserHomeDir()
		cacheDir = filepath.Join(homeDir, ".cache")
	}
	return filepath.Join(cacheDir, "wowpkg", "wowpkg.log")
}
