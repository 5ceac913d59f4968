package main

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Leveled logging on top of the standard library, in the style of the
// ambient logger carried by every server in this codebase: no time/date
// prefix handling of its own, writers that can be individually silenced,
// everything funneled through log.Logger.Output; the error level also
// records the calling site's file:line.

var (
	debugWriter io.Writer = os.Stderr
	infoWriter  io.Writer = os.Stderr
	warnWriter  io.Writer = os.Stderr
	errWriter   io.Writer = os.Stderr
)

var (
	debugLog = log.New(debugWriter, "[DEBUG] ", log.LstdFlags)
	infoLog  = log.New(infoWriter, "[INFO]  ", log.LstdFlags)
	warnLog  = log.New(warnWriter, "[WARN]  ", log.LstdFlags)
	errLog   = log.New(errWriter, "[ERROR] ", log.LstdFlags|log.Lshortfile)
)

// configureLogging wires the four levels to either a file (if logFile is
// non-empty) or stderr, and silences writers below the requested level.
// errorsOnly restricts output to warn/error regardless of debug.
func configureLogging(logFile string, debug bool, errorsOnly bool) error {
	var out io.Writer = os.Stderr
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
	}

	debugWriter, infoWriter, warnWriter, errWriter = out, out, out, out
	if errorsOnly {
		debugWriter, infoWriter = io.Discard, io.Discard
	} else if !debug {
		debugWriter = io.Discard
	}

	debugLog = log.New(debugWriter, "[DEBUG] ", log.LstdFlags)
	infoLog = log.New(infoWriter, "[INFO]  ", log.LstdFlags)
	warnLog = log.New(warnWriter, "[WARN]  ", log.LstdFlags)
	errLog = log.New(errWriter, "[ERROR] ", log.LstdFlags|log.Lshortfile)
	return nil
}

func logDebugf(format string, v ...interface{}) {
	if debugWriter != io.Discard {
		debugLog.Output(2, fmt.Sprintf(format, v...))
	}
}

func logInfof(format string, v ...interface{}) {
	if infoWriter != io.Discard {
		infoLog.Output(2, fmt.Sprintf(format, v...))
	}
}

func logWarnf(format string, v ...interface{}) {
	if warnWriter != io.Discard {
		warnLog.Output(2, fmt.Sprintf(format, v...))
	}
}

func logErrorf(format string, v ...interface{}) {
	if errWriter != io.Discard {
		errLog.Output(2, fmt.Sprintf(format, v...))
	}
}
