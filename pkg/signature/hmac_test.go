package signature

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerify(t *testing.T) {
	body := []byte(`{"type":"invoice.paid"}`)
	sig := Sign("whsec", body)

	tests := []struct {
		name   string
		secret string
		got    string
		want   bool
	}{
		{"firma correcta", "whsec", sig, true},
		{"con prefijo", "whsec", "sha256=" + sig, true},
		{"secret distinto", "otro", sig, false},
		{"firma vacía", "whsec", "", false},
		{"secret vacío", "", Sign("", body), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Verify(tt.secret, body, tt.got))
		})
	}
}
