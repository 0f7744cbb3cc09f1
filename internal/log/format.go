// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package log

import (
	"errors"
	"fmt"
	"strings"
)

// Format is the format of the logs.
type Format uint8

const (
	// FormatConsole is the console format, with the timestamp,
	// a coloured level, the caller if enabled, the message and
	// the context key values separated by a tab.
	FormatConsole Format = iota
	// FormatJSON writes one JSON object per line with the time, level,
	// caller if enabled, message and context key values as fields.
	FormatJSON
)

func (format Format) String() string {
	switch format {
	case FormatConsole:
		return "console"
	case FormatJSON:
		return "json"
	default:
		return "format(" + fmt.Sprint(uint8(format)) + ")"
	}
}

// ErrFormatNotRecognised is returned when a log format cannot be parsed.
var ErrFormatNotRecognised = errors.New("log format is not recognised")

// ParseFormat parses a string into a log format.
func ParseFormat(s string) (format Format, err error) {
	switch strings.ToLower(s) {
	case "console":
		return FormatConsole, nil
	case "json":
		return FormatJSON, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrFormatNotRecognised, s)
	}
}
