// logger.go - Leveled operational log plus an append-only audit trail.
//
// The daemon writes two streams. The operational log goes to the console and
// optionally to a file, filtered by level. The audit trail is a separate
// append-only file recording every accepted mint, accepted spend and detected
// double spend as one key=value line each, so an operator can reconstruct the
// accumulator and tag history with grep alone.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

func (l Level) String() string {
	if l < LevelDebug || l > LevelFatal {
		return "INFO"
	}
	return levelNames[l]
}

// ParseLevel maps a configuration string to a level. Unknown strings fall
// back to info rather than failing startup.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	case "fatal":
		return LevelFatal
	default:
		return LevelInfo
	}
}

// Logger is the daemon's log sink. Safe for concurrent use; the underlying
// log.Logger serializes writes.
type Logger struct {
	level   Level
	console *log.Logger

	logFile *os.File
	file    *log.Logger

	auditFile *os.File
	audit     *log.Logger
}

// NewLogger opens the optional log and audit files. An empty path disables
// the corresponding stream.
func NewLogger(level, logPath, auditPath string) (*Logger, error) {
	l := &Logger{
		level:   ParseLevel(level),
		console: log.New(os.Stdout, "", 0),
	}
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		l.logFile = f
		l.file = log.New(f, "", 0)
	}
	if auditPath != "" {
		f, err := os.OpenFile(auditPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening audit file: %w", err)
		}
		l.auditFile = f
		l.audit = log.New(f, "", 0)
	}
	return l, nil
}

// Close releases the file handles. The console stream stays usable.
func (l *Logger) Close() {
	if l.logFile != nil {
		l.logFile.Close()
	}
	if l.auditFile != nil {
		l.auditFile.Close()
	}
}

func (l *Logger) emit(lv Level, format string, args ...interface{}) {
	if lv < l.level {
		return
	}
	line := fmt.Sprintf("%s %-5s %s",
		time.Now().UTC().Format(time.RFC3339), lv, fmt.Sprintf(format, args...))
	l.console.Print(line)
	if l.file != nil {
		l.file.Print(line)
	}
}

func (l *Logger) Debug(format string, args ...interface{}) { l.emit(LevelDebug, format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.emit(LevelInfo, format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.emit(LevelWarn, format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.emit(LevelError, format, args...) }

// Fatal logs and exits. Only for startup failures; a running daemon degrades
// instead of dying.
func (l *Logger) Fatal(format string, args ...interface{}) {
	l.emit(LevelFatal, format, args...)
	os.Exit(1)
}

func (l *Logger) auditEvent(event string, fields ...string) {
	if l.audit == nil {
		return
	}
	l.audit.Printf("%s event=%s %s",
		time.Now().UTC().Format(time.RFC3339), event, strings.Join(fields, " "))
}

// AuditMintAccepted records a coin entering the accumulator.
func (l *Logger) AuditMintAccepted(index int, commitment string) {
	l.auditEvent("mint_accepted", fmt.Sprintf("index=%d", index), "commitment="+commitment)
}

// AuditSpendAccepted records a spent tag entering the ledger.
func (l *Logger) AuditSpendAccepted(tag string) {
	l.auditEvent("spend_accepted", "tag="+tag)
}

// AuditDoubleSpend records a rejected tag collision.
func (l *Logger) AuditDoubleSpend(tag string) {
	l.auditEvent("double_spend", "tag="+tag)
}
