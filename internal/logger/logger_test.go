package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	sugar, err := NewLogger("warn")
	require.NoError(t, err)
	require.NotNil(t, sugar)

	core := sugar.Desugar().Core()
	require.False(t, core.Enabled(zapcore.InfoLevel))
	require.True(t, core.Enabled(zapcore.WarnLevel))
}

func TestNewLoggerDebug(t *testing.T) {
	sugar, err := NewLogger("debug")
	require.NoError(t, err)
	require.True(t, sugar.Desugar().Core().Enabled(zapcore.DebugLevel))
}

func TestNewLoggerBadLevel(t *testing.T) {
	sugar, err := NewLogger("loud")
	require.Error(t, err)
	require.Nil(t, sugar)
}
