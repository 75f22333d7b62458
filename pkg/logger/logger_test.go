package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestCaptureAndHTML(t *testing.T) {
	log := New(Config{Level: "debug", Capture: true})

	log.Info("[test] first", zap.Int("n", 1))
	log.Debug("[test] <second>")

	raw := log.Captured()
	assert.Contains(t, raw, "[test] first")
	assert.Contains(t, raw, "n")

	html := log.HTML()
	assert.Contains(t, html, "<pre>")
	assert.Contains(t, html, `<span style="color: green;">`)
	assert.Contains(t, html, "&lt;second&gt;")
	assert.NotContains(t, html, "\033[")

	log.ClearLogs()
	assert.Empty(t, log.Captured())
}

func TestLevelFiltersConsole(t *testing.T) {
	var out bytes.Buffer
	log := New(Config{Level: "warn", Console: &out})

	log.Info("[test] hidden")
	log.Warn("[test] shown")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "shown")
	assert.Empty(t, log.HTML())
}

func TestWithSharesCapture(t *testing.T) {
	log := New(Config{Capture: true})
	child := log.With(zap.String("run", "abc"))

	child.Info("[test] child line")
	assert.Contains(t, log.Captured(), "child line")
	assert.Contains(t, log.Captured(), "abc")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("loud"))
}

func TestNop(t *testing.T) {
	log := Nop()
	log.Info("[test] nothing")
	assert.Empty(t, log.HTML())
}
