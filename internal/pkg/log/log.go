package log

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewCliLogger creates the logger for one CLI invocation. Messages go to
// stdout (threshold depends on the verbose/debug flags), warnings and
// errors additionally to stderr, and everything to the log file when one
// is configured.
func NewCliLogger(stdout io.Writer, stderr io.Writer, logFile *File, verbose bool, debug bool) *zap.SugaredLogger {
	var cores []zapcore.Core

	// Log to file
	if logFile != nil {
		cores = append(cores, fileCore(logFile))
	}

	// Log to stdout
	cores = append(cores, stdoutCore(stdout, verbose, debug))

	// Log to stderr
	cores = append(cores, stderrCore(stderr))

	return zap.New(zapcore.NewTee(cores...)).Sugar()
}

func consoleEncoder() zapcore.Encoder {
	// Console output contains only the message itself.
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey:  "message",
		LineEnding:  zapcore.DefaultLineEnding,
		EncodeLevel: zapcore.LowercaseLevelEncoder,
	})
}

// stdoutCore shows warnings by default, info with --verbose and debug with
// --debug. Levels from warning up belong to the stderr core.
func stdoutCore(stdout io.Writer, verbose bool, debug bool) zapcore.Core {
	minLevel := zapcore.WarnLevel
	switch {
	case debug:
		minLevel = zapcore.DebugLevel
	case verbose:
		minLevel = zapcore.InfoLevel
	}
	enabler := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= minLevel && l < zapcore.WarnLevel
	})
	return zapcore.NewCore(consoleEncoder(), zapcore.AddSync(stdout), enabler)
}

// stderrCore writes warnings and errors.
func stderrCore(stderr io.Writer) zapcore.Core {
	enabler := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= zapcore.WarnLevel
	})
	return zapcore.NewCore(consoleEncoder(), zapcore.AddSync(stderr), enabler)
}

// fileCore logs everything as JSON lines.
func fileCore(logFile *File) zapcore.Core {
	encoder := zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		TimeKey:     "time",
		LevelKey:    "level",
		MessageKey:  "message",
		EncodeLevel: zapcore.LowercaseLevelEncoder,
		EncodeTime:  zapcore.ISO8601TimeEncoder,
	})
	return zapcore.NewCore(encoder, logFile.File(), zapcore.DebugLevel)
}
