package zaplog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ochairo/netport/internal/domain/interfaces"
)

func TestLogger_FieldsBecomeContext(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := New(zap.New(core))

	l.With(interfaces.F("request", "r-1")).Warn("upload removal failed", interfaces.F("path", "/tmp/x"))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "upload removal failed", entries[0].Message)

	ctx := entries[0].ContextMap()
	assert.Equal(t, "r-1", ctx["request"])
	assert.Equal(t, "/tmp/x", ctx["path"])
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{name: "console default level", opts: Options{}},
		{name: "console debug", opts: Options{Level: "debug"}},
		{name: "json", opts: Options{JSON: true, Level: "warn"}},
		{name: "bad level falls back", opts: Options{Level: "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Build(tt.opts)
			require.NoError(t, err)
			require.NotNil(t, l)
			l.Debug("probe")
		})
	}
}
