package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	l, err := New("")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = New("debug")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	_, err = New("loud")
	assert.Error(t, err)
}

func TestNamedNilBase(t *testing.T) {
	assert.NotNil(t, Named(nil, "x"))
}

func TestNamedNestsComponents(t *testing.T) {
	base, err := New("info")
	require.NoError(t, err)
	assert.Equal(t, "svc.console", Named(base, "svc.console").Name())
	assert.Equal(t, "svc.console.child", Named(Named(base, "svc.console"), "child").Name())
}
