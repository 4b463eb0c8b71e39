// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

// Config defines the configuration of a logger
type Config struct {
	// Directory holds the rotated log files. If empty, nothing is written to
	// disk.
	Directory string `json:"directory"`
	// MaxSize is the maximum size in megabytes of a log file before it is
	// rotated.
	MaxSize int `json:"maxSize"`
	// MaxFiles is the number of rotated files to retain.
	MaxFiles int `json:"maxFiles"`
	// MaxAge is the number of days to retain old log files.
	MaxAge int `json:"maxAge"`
	// Compress determines whether rotated files are gzipped.
	Compress bool `json:"compress"`

	DisableWriterDisplaying bool   `json:"disableWriterDisplaying"`
	LogLevel                Level  `json:"logLevel"`
	DisplayLevel            Level  `json:"displayLevel"`
	LogFormat               Format `json:"logFormat"`
}

func DefaultConfig() Config {
	return Config{
		MaxSize:      8,
		MaxFiles:     7,
		MaxAge:       0,
		LogLevel:     Info,
		DisplayLevel: Info,
		LogFormat:    Plain,
	}
}
