package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserID(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "telegram id", raw: "1338455364", want: "1338455364"},
		{name: "trimmed", raw: "  alice_01 ", want: "alice_01"},
		{name: "dash", raw: "web-client", want: "web-client"},
		{name: "empty", raw: "   ", wantErr: true},
		{name: "parent traversal", raw: "..", wantErr: true},
		{name: "nested traversal", raw: "../../etc", wantErr: true},
		{name: "slash", raw: "a/b", wantErr: true},
		{name: "backslash", raw: `a\b`, wantErr: true},
		{name: "dot", raw: "a.b", wantErr: true},
		{name: "too long", raw: strings.Repeat("a", MaxUserIDLength+1), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UserID(tt.raw)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidUserID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "logo.png", FileName("logo.png"))
	assert.Equal(t, "passwd", FileName("../../etc/passwd"))
	assert.Equal(t, "my_photo_1_.jpg", FileName("my photo (1).jpg"))
	assert.Equal(t, "x.png", FileName(`C:\Users\me\x.png`))
	assert.Equal(t, "", FileName(".."))
}
