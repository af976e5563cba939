package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		env      string
		enabled  zapcore.Level
		disabled *zapcore.Level
	}{
		{env: "local", enabled: zapcore.DebugLevel},
		{env: "development", enabled: zapcore.InfoLevel, disabled: levelPtr(zapcore.DebugLevel)},
		{env: "production", enabled: zapcore.InfoLevel, disabled: levelPtr(zapcore.DebugLevel)},
		{env: "", enabled: zapcore.InfoLevel, disabled: levelPtr(zapcore.DebugLevel)},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			l, err := New(tt.env)
			assert.NoError(t, err)
			assert.True(t, l.Core().Enabled(tt.enabled))
			if tt.disabled != nil {
				assert.False(t, l.Core().Enabled(*tt.disabled))
			}
		})
	}
}

func levelPtr(l zapcore.Level) *zapcore.Level {
	return &l
}
