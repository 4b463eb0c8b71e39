// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Format modes available
const (
	Plain Format = iota
	JSON
)

var (
	errUnknownFormat = errors.New("unknown format")

	formatJSON = []string{
		`"PLAIN"`,
		`"JSON"`,
	}
)

// Format determines how the display core encodes entries
type Format int

// ToFormat chooses a format
func ToFormat(h string) (Format, error) {
	switch strings.ToUpper(h) {
	case "PLAIN":
		return Plain, nil
	case "JSON":
		return JSON, nil
	default:
		return Plain, fmt.Errorf("%w: %q", errUnknownFormat, h)
	}
}

func (f Format) MarshalJSON() ([]byte, error) {
	if f < 0 || int(f) >= len(formatJSON) {
		return nil, errUnknownFormat
	}
	return []byte(formatJSON[f]), nil
}

func (f *Format) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	var err error
	*f, err = ToFormat(str)
	return err
}

// ConsoleEncoder returns the zap encoder for the display core.
func (f Format) ConsoleEncoder() zapcore.Encoder {
	switch f {
	case JSON:
		return zapcore.NewJSONEncoder(jsonEncoderConfig())
	default:
		return zapcore.NewConsoleEncoder(consoleEncoderConfig())
	}
}

// FileEncoder returns the zap encoder for rotated log files.
func (Format) FileEncoder() zapcore.Encoder {
	return zapcore.NewJSONEncoder(jsonEncoderConfig())
}
