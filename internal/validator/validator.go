package validator

import "net/mail"

const minPasswordLen = 8

func IsValidEmail(email string) bool {
	if email == "" {
		return false
	}

	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}

	return addr.Address == email
}

func IsValidPassword(password string) bool {
	return len(password) >= minPasswordLen
}
