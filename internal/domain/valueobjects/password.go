package valueobjects

import (
	"errors"
	"unicode/utf8"
)

const (
	PasswordMinLength = 6
	// bcrypt ignora bytes além de 72
	PasswordMaxLength = 72
)

var (
	ErrPasswordTooShort = errors.New("password too short")
	ErrPasswordTooLong  = errors.New("password too long")
)

// Password é uma senha em texto puro que respeita os limites de tamanho
type Password struct {
	value string
}

// NewPassword valida o tamanho da senha
func NewPassword(raw string) (Password, error) {
	if utf8.RuneCountInString(raw) < PasswordMinLength {
		return Password{}, ErrPasswordTooShort
	}
	if len(raw) > PasswordMaxLength {
		return Password{}, ErrPasswordTooLong
	}
	return Password{value: raw}, nil
}

// Bytes retorna a senha para hashing
func (p Password) Bytes() []byte {
	return []byte(p.value)
}
