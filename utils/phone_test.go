package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "international with formatting", raw: "+91 98765-43210", want: "+919876543210"},
		{name: "local number keeps leading zero", raw: "0501234567", want: "+0501234567"},
		{name: "spaces and parens stripped", raw: "(050) 123 4567", want: "+0501234567"},
		{name: "minimum eight digits", raw: "12345678", want: "+12345678"},
		{name: "maximum fifteen digits", raw: "123456789012345", want: "+123456789012345"},
		{name: "excess digits truncated", raw: "1234567890123456789", want: "+123456789012345"},
		{name: "too short", raw: "123", wantErr: true},
		{name: "seven digits rejected", raw: "1234567", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
		{name: "letters only", raw: "call me", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
