package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	dev, err := New("local", "debug")
	require.NoError(t, err)
	assert.True(t, dev.Core().Enabled(zapcore.DebugLevel))

	prod, err := New("production", "warn")
	require.NoError(t, err)
	assert.False(t, prod.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, prod.Core().Enabled(zapcore.WarnLevel))

	def, err := New("production", "")
	require.NoError(t, err)
	assert.True(t, def.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, def.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New("local", "loud")
	assert.Error(t, err)
}
