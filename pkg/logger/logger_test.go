package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		expectErr bool
	}{
		{name: "Info level", level: "info"},
		{name: "Debug level", level: "debug"},
		{name: "Warn level", level: "warn"},
		{name: "Error level", level: "error"},
		{name: "Unknown level", level: "verbose", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := InitLogger(tt.level)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
