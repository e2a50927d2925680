package logger

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// Calm, single-line console format: "13:04:35  schedule  worker fired  sym=⟁ satellite=AO-91"
const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// Everforest-inspired palette — muted greens, one accent per field kind.
var palette = struct {
	fg, timeCol, component, id, number, warn, warnBg, errCol, errBg string
}{
	fg:        "\x1b[38;5;223m",
	timeCol:   "\x1b[38;5;107m",
	component: "\x1b[38;5;208m",
	id:        "\x1b[38;5;109m",
	number:    "\x1b[38;5;108m",
	warn:      "\x1b[38;5;179m",
	warnBg:    "\x1b[48;5;58m",
	errCol:    "\x1b[38;5;167m",
	errBg:     "\x1b[48;5;52m",
}

var bracketPattern = regexp.MustCompile(`\[([^\]]+)\]`)

type minimalEncoder struct {
	zapcore.Encoder
	buf *buffer.Buffer
}

func newMinimalEncoder() *minimalEncoder {
	base := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	return &minimalEncoder{Encoder: base, buf: buffer.NewPool().Get()}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{Encoder: enc.Encoder.Clone(), buf: buffer.NewPool().Get()}
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	out := buffer.NewPool().Get()

	out.AppendString(palette.timeCol)
	out.AppendString(ent.Time.Format("15:04:05"))
	out.AppendString(colorReset)

	if ent.Level != zapcore.InfoLevel {
		out.AppendString("  ")
		out.AppendString(levelTag(ent.Level))
	}

	if ent.LoggerName != "" {
		out.AppendString("  ")
		out.AppendString(palette.component)
		out.AppendString(ent.LoggerName)
		out.AppendString(colorReset)
	}

	out.AppendString("  ")
	out.AppendString(colorizeBrackets(ent.Message))

	if s := fieldSummary(fields); s != "" {
		out.AppendString("  ")
		out.AppendString(s)
	}

	out.AppendString("\n")
	return out, nil
}

func levelTag(level zapcore.Level) string {
	switch level {
	case zapcore.WarnLevel:
		return colorBold + palette.warnBg + palette.warn + "WARN" + colorReset
	case zapcore.ErrorLevel, zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return colorBold + palette.errBg + palette.errCol + level.CapitalString() + colorReset
	default:
		return ""
	}
}

// colorizeBrackets highlights [worker:xxx]/[stage] style markers in messages.
func colorizeBrackets(msg string) string {
	matches := bracketPattern.FindAllStringSubmatchIndex(msg, -1)
	if len(matches) == 0 {
		return palette.fg + msg + colorReset
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(palette.fg)
		b.WriteString(msg[last:m[0]])
		b.WriteString(colorReset)
		b.WriteString(palette.id)
		b.WriteString(msg[m[0]:m[1]])
		b.WriteString(colorReset)
		last = m[1]
	}
	b.WriteString(palette.fg)
	b.WriteString(msg[last:])
	b.WriteString(colorReset)
	return b.String()
}

// fieldSummary renders string and integer fields compactly as key=value;
// every other field is printed as key=%v of its Interface value.
func fieldSummary(fields []zapcore.Field) string {
	var parts []string
	for _, f := range fields {
		switch f.Type {
		case zapcore.StringType:
			parts = append(parts, fmt.Sprintf("%s=%s%s%s", f.Key, palette.id, f.String, colorReset))
		case zapcore.Int64Type, zapcore.Int32Type, zapcore.DurationType:
			parts = append(parts, fmt.Sprintf("%s=%s%d%s", f.Key, palette.number, f.Integer, colorReset))
		default:
			parts = append(parts, fmt.Sprintf("%s=%v", f.Key, f.Interface))
		}
	}
	return strings.Join(parts, " ")
}
