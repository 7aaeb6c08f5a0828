package spec

import "fmt"

type SyntaxError struct {
	message string
}

func newSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		message: message,
	}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s", e.message)
}

var (
	// lexical errors
	synErrInvalidToken = newSyntaxError("invalid token")

	// syntax errors
	synErrNoProduction     = newSyntaxError("a grammar must have at least one production")
	synErrNoProductionName = newSyntaxError("a production name is missing")
	synErrNoSeparator      = newSyntaxError("a production needs ':' or '->' between its LHS and alternatives")
	synErrInvalidLHS       = newSyntaxError("the LHS must consist of uppercase letters optionally followed by primes")
)
