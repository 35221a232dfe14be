package session

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidName is wrapped by ValidateName failures.
var ErrInvalidName = errors.New("invalid session name")

// Session names become directory and socket names under the base dir.
var namePattern = regexp.MustCompile(`^[a-z0-9_-]{1,64}$`)

// ValidateName rejects names that are not 1 to 64 characters of a-z, 0-9,
// '_' or '-'.
func ValidateName(name string) error {
	if namePattern.MatchString(name) {
		return nil
	}
	return fmt.Errorf("%w %q: use 1-64 characters from a-z, 0-9, _ and -", ErrInvalidName, name)
}
