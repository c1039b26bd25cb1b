package finance

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a record addressed by ID does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalid is returned when a record cannot be created as requested.
	ErrInvalid = errors.New("invalid")
)

// validateWalletName trims and checks a wallet name.
func validateWalletName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: wallet name is required", ErrInvalid)
	}
	return name, nil
}

// normalizeFriends drops blank, duplicate and "Me" names while keeping the order.
func normalizeFriends(friends []string) []string {
	seen := make(map[string]bool, len(friends))
	out := make([]string, 0, len(friends))
	for _, f := range friends {
		f = strings.TrimSpace(f)
		if f == "" || f == Me || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}
