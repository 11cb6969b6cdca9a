package valueobjects

import (
	"fmt"
	"regexp"
	"strings"
)

var loginRegex = regexp.MustCompile(`^[a-z0-9._@+\-]{3,64}$`)

// Login is the unique sign-in identifier. It is stored lower-cased.
type Login struct {
	value string
}

func NewLogin(value string) (*Login, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return nil, fmt.Errorf("login cannot be empty")
	}
	if !loginRegex.MatchString(normalized) {
		return nil, fmt.Errorf("login contains invalid characters or has invalid length: %s", value)
	}
	return &Login{value: normalized}, nil
}

func (l *Login) String() string {
	return l.value
}
