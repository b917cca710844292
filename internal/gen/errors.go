package gen

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnresolvedPlaceholder matches every *UnresolvedPlaceholderError.
	ErrUnresolvedPlaceholder = errors.New("unresolved template placeholder")
	// ErrNotInitialized is returned by Execute before a successful Initialize.
	ErrNotInitialized = errors.New("generator is not initialized")
)

// UnresolvedPlaceholderError reports tokens left in a rendered unit.
type UnresolvedPlaceholderError struct {
	Unit   string
	Tokens []string
}

func (e *UnresolvedPlaceholderError) Error() string {
	return fmt.Sprintf("unit %s: unresolved placeholders %s", e.Unit, strings.Join(e.Tokens, ", "))
}

func (e *UnresolvedPlaceholderError) Unwrap() error { return ErrUnresolvedPlaceholder }
