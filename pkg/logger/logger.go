package logger

import (
	"bytes"
	"io"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls where log lines go.
type Config struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string
	// Console receives colored console output. Nil disables it.
	Console io.Writer
	// Capture keeps a copy of every line in memory so it can be shown on the web page.
	Capture bool
}

type ZapLogger struct {
	log     *zap.Logger
	capture *lockedBuffer
}

// lockedBuffer is shared by all goroutines of one detector run.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) Sync() error { return nil }

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *lockedBuffer) Reset() {
	b.mu.Lock()
	b.buf.Reset()
	b.mu.Unlock()
}

func New(cfg Config) *ZapLogger {
	level := ParseLevel(cfg.Level)

	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    encodeLevel,
		EncodeTime:     encodeTime,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	})

	var cores []zapcore.Core
	if cfg.Console != nil {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(cfg.Console)), level))
	}

	z := &ZapLogger{}
	if cfg.Capture {
		z.capture = &lockedBuffer{}
		cores = append(cores, zapcore.NewCore(encoder, z.capture, level))
	}

	z.log = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))
	return z
}

// Stderr is the logger used by the command line tools.
func Stderr(level string) *ZapLogger {
	return New(Config{Level: level, Console: os.Stderr})
}

// Nop discards everything.
func Nop() *ZapLogger {
	return &ZapLogger{log: zap.NewNop()}
}

// ParseLevel maps a level name to a zap level; unknown names become info.
func ParseLevel(s string) zapcore.Level {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(s))); err != nil || s == "" {
		return zapcore.InfoLevel
	}
	return level
}

func encodeTime(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("[2006-01-02 | 15:04:05]"))
}

const ansiReset = "\033[0m"

// ANSI-цвет уровня в консоли
var levelANSI = map[zapcore.Level]string{
	zapcore.DebugLevel: "\033[36m",
	zapcore.InfoLevel:  "\033[32m",
	zapcore.WarnLevel:  "\033[33m",
	zapcore.ErrorLevel: "\033[31m",
}

func encodeLevel(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	code, ok := levelANSI[level]
	if !ok {
		code = ansiReset
	}
	enc.AppendString(code + level.String() + ansiReset)
}

// ANSI code -> CSS color for the logs panel
var htmlColors = map[string]string{
	"31": "red",
	"32": "green",
	"33": "yellow",
	"34": "blue",
	"36": "cyan",
}

var (
	ansiPattern = regexp.MustCompile(`\033\[(\d+)m`)
	htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
)

// renderHTML turns colored console output into a <pre> block with spans.
// Unknown codes are dropped, a reset closes the open span.
func renderHTML(text string) string {
	var (
		sb   strings.Builder
		pos  int
		span bool
	)
	closeSpan := func() {
		if span {
			sb.WriteString("</span>")
			span = false
		}
	}

	sb.WriteString("<pre>")
	for _, m := range ansiPattern.FindAllStringSubmatchIndex(text, -1) {
		sb.WriteString(htmlEscaper.Replace(text[pos:m[0]]))
		pos = m[1]

		code := text[m[2]:m[3]]
		if color, ok := htmlColors[code]; ok {
			closeSpan()
			sb.WriteString(`<span style="color: ` + color + `;">`)
			span = true
		} else if code == "0" {
			closeSpan()
		}
	}
	sb.WriteString(htmlEscaper.Replace(text[pos:]))
	closeSpan()
	sb.WriteString("</pre>")
	return sb.String()
}

// HTML returns the captured lines rendered for the logs panel.
// It is empty when the logger was built without Capture.
func (z *ZapLogger) HTML() string {
	if z.capture == nil {
		return ""
	}
	return renderHTML(z.capture.String())
}

// Captured returns the raw captured text, ANSI codes included.
func (z *ZapLogger) Captured() string {
	if z.capture == nil {
		return ""
	}
	return z.capture.String()
}

func (z *ZapLogger) ClearLogs() {
	if z.capture != nil {
		z.capture.Reset()
	}
}

// With returns a child logger that shares the capture buffer.
func (z *ZapLogger) With(fields ...zap.Field) *ZapLogger {
	return &ZapLogger{log: z.log.With(fields...), capture: z.capture}
}

func (z *ZapLogger) Sync() {
	_ = z.log.Sync()
}

func (z *ZapLogger) Info(wrappedMsg string, fields ...zap.Field) {
	z.log.Info(wrappedMsg, fields...)
}

func (z *ZapLogger) Debug(wrappedMsg string, fields ...zap.Field) {
	z.log.Debug(wrappedMsg, fields...)
}

func (z *ZapLogger) Warn(wrappedMsg string, fields ...zap.Field) {
	z.log.Warn(wrappedMsg, fields...)
}

func (z *ZapLogger) Error(wrappedMsg string, fields ...zap.Field) {
	z.log.Error(wrappedMsg, fields...)
}

func (z *ZapLogger) Fatal(wrappedMsg string, fields ...zap.Field) {
	z.log.Fatal(wrappedMsg, fields...)
}
