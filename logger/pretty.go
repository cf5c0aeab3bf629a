package logger

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// prettyEncoder outputs a colourised console line followed by the entry's
// fields as indented JSON.
type prettyEncoder struct {
	zapcore.Encoder
	jsonEncoder zapcore.Encoder
	pool        buffer.Pool
}

func newPrettyLogger(cfg *zap.Config) *zap.Logger {
	enc := newPrettyEncoder(cfg.EncoderConfig)
	core := zapcore.NewCore(enc, zapcore.AddSync(os.Stdout), cfg.Level)
	return zap.New(core, zap.ErrorOutput(zapcore.AddSync(os.Stderr)))
}

func newPrettyEncoder(encoderConfig zapcore.EncoderConfig) zapcore.Encoder {
	return &prettyEncoder{
		Encoder:     zapcore.NewConsoleEncoder(encoderConfig),
		jsonEncoder: zapcore.NewJSONEncoder(encoderConfig),
		pool:        buffer.NewPool(),
	}
}

// Clone keeps derived loggers on the pretty encoder.
func (e *prettyEncoder) Clone() zapcore.Encoder {
	return &prettyEncoder{
		Encoder:     e.Encoder.Clone(),
		jsonEncoder: e.jsonEncoder.Clone(),
		pool:        e.pool,
	}
}

func (e *prettyEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	consoleBuf, err := e.Encoder.EncodeEntry(entry, nil)
	if err != nil {
		return nil, err
	}
	line := colorizeLevel(strings.TrimRight(consoleBuf.String(), "\n"), entry.Level)
	consoleBuf.Free()

	jsonBuf, err := e.jsonEncoder.EncodeEntry(entry, fields)
	if err != nil {
		return nil, err
	}
	defer jsonBuf.Free()

	var payload map[string]any
	if json.Unmarshal(jsonBuf.Bytes(), &payload) == nil {
		for _, k := range []string{messageKey, levelKey, timeKey, nameKey} {
			delete(payload, k)
		}
		if len(payload) > 0 {
			if pretty, marshalErr := json.MarshalIndent(payload, "", "  "); marshalErr == nil {
				line += "\n" + string(pretty)
			}
		}
	}

	buf := e.pool.Get()
	buf.AppendString(line)
	buf.AppendString("\n")
	return buf, nil
}

func colorizeLevel(line string, level zapcore.Level) string {
	var c *color.Color

	switch level {
	case zapcore.DebugLevel:
		c = color.New(color.FgCyan)
	case zapcore.InfoLevel:
		c = color.New(color.FgGreen)
	case zapcore.WarnLevel:
		c = color.New(color.FgYellow)
	case zapcore.ErrorLevel, zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		c = color.New(color.FgRed, color.Bold)
	default:
		return line
	}

	lvl := level.CapitalString()
	return strings.Replace(line, lvl, c.Sprint(lvl), 1)
}
