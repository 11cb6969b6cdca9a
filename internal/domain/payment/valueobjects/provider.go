package valueobjects

import "strings"

type Provider string

const (
	ProviderKassa24 Provider = "kassa24"
)

// ParseProvider normalizes a provider code taken from a URL or request body.
func ParseProvider(s string) Provider {
	return Provider(strings.ToLower(strings.TrimSpace(s)))
}

func (p Provider) String() string {
	return string(p)
}

func (p Provider) IsEmpty() bool {
	return p == ""
}
