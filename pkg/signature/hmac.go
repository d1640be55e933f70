// Package signature firma y verifica cuerpos de webhooks con HMAC-SHA256.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Sign devuelve el HMAC-SHA256 de body en hex.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify compara en tiempo constante. Acepta el prefijo "sha256=" que usan varios proveedores.
// Un secret vacío nunca verifica.
func Verify(secret string, body []byte, got string) bool {
	if secret == "" || got == "" {
		return false
	}
	got = strings.TrimPrefix(strings.TrimSpace(got), "sha256=")
	want := Sign(secret, body)
	return hmac.Equal([]byte(strings.ToLower(got)), []byte(want))
}
