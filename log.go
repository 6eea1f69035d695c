package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// setupLog configures the process logger. Stdout carries the module
// protocol, so logs always go to stderr or a file. Returns a closer
// for the log file, if any.
func setupLog() (func() error, error) {
	log.SetOutput(os.Stderr)
	log.SetLevel(log.InfoLevel)
	if viper.GetBool("debug") || os.Getenv("SD_VIAVOICE_DEBUG") != "" {
		log.SetLevel(log.DebugLevel)
	}

	path := viper.GetString("log_file")
	if path == "" {
		return func() error { return nil }, nil
	}

	expanded, err := homedir.Expand(path)
	if err == nil {
		path = expanded
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	log.SetOutput(f)
	return f.Close, nil
}
