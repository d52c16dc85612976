package parser

import "fmt"

// ParseError is returned when declaration text cannot be decomposed.
type ParseError struct {
	Message string
	Source  string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s: %q", e.Message, e.Source)
	}
	return e.Message
}

// UnsupportedLanguageError is returned when attempting to parse an unsupported language.
type UnsupportedLanguageError struct {
	Language string
}

// Error implements the error interface.
func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("unsupported language: %s", e.Language)
}
