package domain

import (
	"strings"
	"unicode/utf8"
)

const (
	MaxUsernameLength = 8
	PasswordLength    = 6
)

// CheckCredentials applies the login format gate: a non-empty username of at
// most MaxUsernameLength characters and a password of exactly PasswordLength
// digits. It returns the normalised username.
func CheckCredentials(username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || utf8.RuneCountInString(username) > MaxUsernameLength {
		return "", ErrInvalidCredentials
	}
	if len(password) != PasswordLength {
		return "", ErrInvalidCredentials
	}
	for i := 0; i < len(password); i++ {
		if password[i] < '0' || password[i] > '9' {
			return "", ErrInvalidCredentials
		}
	}
	return username, nil
}
