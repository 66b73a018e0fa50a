package auth

import (
	"fmt"
	"strings"
)

// Passwords longer than this are rejected up front so hashing cost stays
// bounded.
const maxPasswordLength = 128

// A few trivially guessable passwords that clear the length bar anyway.
var commonPasswords = map[string]struct{}{
	"password1234": {},
	"123456789012": {},
	"qwertyuiopas": {},
}

// ValidatePassword checks password strength. Length is the primary signal;
// there are no character class requirements.
func ValidatePassword(password string, minLength int) error {
	if minLength == 0 {
		minLength = 12
	}

	if len(password) < minLength {
		return fmt.Errorf("password must be at least %d characters long", minLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("password must be at most %d characters long", maxPasswordLength)
	}

	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		return fmt.Errorf("password is too common")
	}

	if isRepeatingChar(password) {
		return fmt.Errorf("password cannot be a single repeating character")
	}

	return nil
}

func isRepeatingChar(s string) bool {
	if len(s) == 0 {
		return false
	}
	runes := []rune(s)
	for _, r := range runes[1:] {
		if r != runes[0] {
			return false
		}
	}
	return true
}
