package dto

import (
	"net/mail"
	"strings"

	"github.com/google/uuid"
)

// MinPasswordLength largo mínimo de contraseña.
const MinPasswordLength = 8

// NormalizeEmail recorta y pasa a minúsculas.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidEmail acepta solo la dirección desnuda (sin nombre visible).
func ValidEmail(s string) bool {
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// ValidID indica si s es un UUID; las claves primarias de la base lo son.
func ValidID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
