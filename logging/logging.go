// Package logging provides the structured, level-gated logging used
// throughout the interpreter for step tracing and failure diagnostics.
// It mirrors the call convention of the teacher library it was adapted
// from: CPrint(level, message, LogFormat{...}).
package logging

import (
	"os"
	"sync"
	"time"

	rotatelogs "github.com/lestrrat/go-file-rotatelogs"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
)

// Level is a logging verbosity level, ordered least to most severe.
type Level uint32

const (
	TRACE Level = iota
	DEBUG
	INFO
	WARN
	ERROR
	FATAL
)

var levelToLogrus = map[Level]logrus.Level{
	TRACE: logrus.TraceLevel,
	DEBUG: logrus.DebugLevel,
	INFO:  logrus.InfoLevel,
	WARN:  logrus.WarnLevel,
	ERROR: logrus.ErrorLevel,
	FATAL: logrus.FatalLevel,
}

// LogFormat is an unordered map of key/value diagnostic fields attached to
// a single log record, e.g. a stack dump or a disassembled script pair.
type LogFormat map[string]interface{}

var (
	logger   = logrus.New()
	initOnce sync.Once
)

// init sets a sane default: INFO-and-up to stderr only. The library's own
// records are DEBUG or TRACE, so importers see nothing from it until they
// lower the level with SetLevel.
func init() {
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// SetLevel adjusts the minimum level that is emitted.
func SetLevel(lvl Level) {
	logger.SetLevel(levelToLogrus[lvl])
}

// UseLogRotation attaches a time-rotated file sink at logDir,
// rotating daily and retaining 7 days of history, in addition to the
// existing stderr sink. Safe to call more than once; only the first
// call installs the hook.
func UseLogRotation(logDir string) error {
	var hookErr error
	initOnce.Do(func() {
		writer, err := rotatelogs.New(
			logDir+"/btcscript.%Y%m%d.log",
			rotatelogs.WithLinkName(logDir+"/btcscript.log"),
			rotatelogs.WithMaxAge(7*24*time.Hour),
			rotatelogs.WithRotationTime(24*time.Hour),
		)
		if err != nil {
			hookErr = err
			return
		}
		logger.AddHook(lfshook.NewHook(lfshook.WriterMap{
			logrus.TraceLevel: writer,
			logrus.DebugLevel: writer,
			logrus.InfoLevel:  writer,
			logrus.WarnLevel:  writer,
			logrus.ErrorLevel: writer,
			logrus.FatalLevel: writer,
		}, &logrus.TextFormatter{FullTimestamp: true}))
	})
	return hookErr
}

// CPrint emits a single structured log record at the given level. The
// call is cheap to leave in hot paths (the opcode dispatch loop) because
// logrus short-circuits work for levels below the configured threshold;
// callers that build an expensive LogFormat (e.g. a full stack dump)
// should still guard with IsLevelEnabled when the formatting itself is
// costly.
func CPrint(lvl Level, msg string, fields LogFormat) {
	entry := logger.WithFields(logrus.Fields(fields))
	switch lvl {
	case TRACE:
		entry.Trace(msg)
	case DEBUG:
		entry.Debug(msg)
	case INFO:
		entry.Info(msg)
	case WARN:
		entry.Warn(msg)
	case ERROR:
		entry.Error(msg)
	case FATAL:
		entry.Fatal(msg)
	}
}

// IsLevelEnabled reports whether a record at lvl would actually be
// emitted, letting a caller skip building an expensive LogFormat.
func IsLevelEnabled(lvl Level) bool {
	return logger.IsLevelEnabled(levelToLogrus[lvl])
}
