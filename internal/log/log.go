// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package log

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

var timeNow = time.Now

func (l *Logger) log(logLevel Level, s string, args ...interface{}) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if *l.settings.level > logLevel {
		return
	}

	if len(args) > 0 {
		s = fmt.Sprintf(s, args...)
	}

	now := timeNow()
	callerString := getCallerString(l.settings.caller)

	var line string
	if *l.settings.format == FormatJSON {
		line = jsonLine(now, logLevel, callerString, s, l.settings.context)
	} else {
		line = consoleLine(now, logLevel, callerString, s, l.settings.context)
	}

	_, _ = io.WriteString(l.settings.writer, line+"\n")
}

func consoleLine(now time.Time, logLevel Level, callerString, s string,
	context []contextKeyValues) (line string) {
	line = now.Format(time.RFC3339) + " " + logLevel.ColouredString()

	if callerString != "" {
		line += " " + callerString
	}

	line += " " + s

	if len(context) > 0 {
		keyValues := make([]string, len(context))
		for i, kvs := range context {
			keyValues[i] = kvs.key + "=" + strings.Join(kvs.values, ",")
		}
		line += "\t" + strings.Join(keyValues, " ")
	}
	return line
}

// jsonLine writes the fields in a fixed order: time, level, caller,
// message and then the context keys in the order they were added.
func jsonLine(now time.Time, logLevel Level, callerString, s string,
	context []contextKeyValues) string {
	var b strings.Builder
	b.WriteString(`{"time":`)
	writeJSONString(&b, now.Format(time.RFC3339))
	b.WriteString(`,"level":`)
	writeJSONString(&b, logLevel.String())
	if callerString != "" {
		b.WriteString(`,"caller":`)
		writeJSONString(&b, callerString)
	}
	b.WriteString(`,"msg":`)
	writeJSONString(&b, s)
	for _, kvs := range context {
		b.WriteString(",")
		writeJSONString(&b, kvs.key)
		b.WriteString(":")
		writeJSONString(&b, strings.Join(kvs.values, ","))
	}
	b.WriteString("}")
	return b.String()
}

func writeJSONString(b *strings.Builder, s string) {
	encoded, _ := json.Marshal(s) // a string always marshals
	b.Write(encoded)
}

// Trace logs with the trce level.
func (l *Logger) Trace(s string) { l.log(Trace, s) }

// Debug logs with the dbug level.
func (l *Logger) Debug(s string) { l.log(Debug, s) }

// Info logs with the info level.
func (l *Logger) Info(s string) { l.log(Info, s) }

// Warn logs with the warn level.
func (l *Logger) Warn(s string) { l.log(Warn, s) }

// Error logs with the eror level.
func (l *Logger) Error(s string) { l.log(Error, s) }

// Critical logs with the crit level.
func (l *Logger) Critical(s string) { l.log(Critical, s) }

// Tracef formats and logs at the trce level.
func (l *Logger) Tracef(format string, args ...interface{}) {
	l.log(Trace, format, args...)
}

// Debugf formats and logs at the dbug level.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.log(Debug, format, args...)
}

// Infof formats and logs at the info level.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(Info, format, args...)
}

// Warnf formats and logs at the warn level.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log(Warn, format, args...)
}

// Errorf formats and logs at the eror level.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(Error, format, args...)
}

// Criticalf formats and logs at the crit level.
func (l *Logger) Criticalf(format string, args ...interface{}) {
	l.log(Critical, format, args...)
}
