package valueobjects

import (
	"fmt"
	"unicode"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 72
)

type Password struct {
	value string
}

func NewPassword(plainPassword string) (*Password, error) {
	if err := validatePassword(plainPassword); err != nil {
		return nil, err
	}

	return &Password{value: plainPassword}, nil
}

func (p *Password) String() string {
	return p.value
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	}

	if len(password) > maxPasswordLength {
		return fmt.Errorf("password must not exceed %d characters (bcrypt limitation)", maxPasswordLength)
	}

	var (
		hasLetter bool
		hasNumber bool
	)

	for _, char := range password {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	if !hasLetter {
		return fmt.Errorf("password must contain at least one letter")
	}

	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}

	return nil
}
