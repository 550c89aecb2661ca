package diag

import (
	"errors"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// AppName names the root logger.
const AppName = "twmanifest"

// LoggerConfig selects console logging behaviour.
type LoggerConfig struct {
	Verbose bool // enable debug level
	Quiet   bool // errors only
	Color   bool // force colored levels
	// Out receives info and debug messages, Err receives warnings and errors.
	// Both default to the process streams.
	Out io.Writer
	Err io.Writer
}

// NewLogger returns a console logger: development encoding without caller,
// colored levels on a terminal, info and below on Out, warnings and above on Err.
func NewLogger(cfg LoggerConfig) *zap.Logger {
	out, errOut := cfg.Out, cfg.Err
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}

	lowEnc := newEncoder(encoderConfig(cfg.Color, out))
	highEnc := newEncoder(encoderConfig(cfg.Color, errOut))

	minLevel := zapcore.InfoLevel
	switch {
	case cfg.Quiet:
		minLevel = zapcore.ErrorLevel
	case cfg.Verbose:
		minLevel = zapcore.DebugLevel
	}

	low := zapcore.NewCore(lowEnc, zapcore.Lock(zapcore.AddSync(out)),
		zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return minLevel <= lvl && lvl < zapcore.WarnLevel
		}))
	high := zapcore.NewCore(highEnc, zapcore.Lock(zapcore.AddSync(errOut)),
		zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return lvl >= zapcore.WarnLevel && lvl >= minLevel
		}))

	return zap.New(zapcore.NewTee(low, high)).Named(AppName)
}

// OrNop returns log, or a no-op logger when log is nil.
func OrNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}

func encoderConfig(force bool, w io.Writer) zapcore.EncoderConfig {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	f, _ := w.(*os.File)
	if ShouldUseColors(force, f) {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.TimeKey = zapcore.OmitKey
	} else {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	return ec
}

// consoleEnc prints only the error message for error fields, never the
// verbose multi-error expansion.
type consoleEnc struct {
	zapcore.Encoder
}

func newEncoder(cfg zapcore.EncoderConfig) zapcore.Encoder {
	return consoleEnc{zapcore.NewConsoleEncoder(cfg)}
}

func (c consoleEnc) Clone() zapcore.Encoder {
	return consoleEnc{c.Encoder.Clone()}
}

func (c consoleEnc) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	newFields := make([]zapcore.Field, 0, len(fields))
	for _, f := range fields {
		if f.Type == zapcore.ErrorType {
			if e, ok := f.Interface.(error); ok {
				f.Interface = errors.New(e.Error())
			}
		}
		newFields = append(newFields, f)
	}
	return c.Encoder.EncodeEntry(ent, newFields)
}
