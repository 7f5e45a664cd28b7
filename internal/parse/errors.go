// ABOUTME: Argument parsing error taxonomy for command invocations
// ABOUTME: Typed quoting errors unwrap to ErrArgumentParsing; messages are user-facing

package parse

import (
	"errors"
	"fmt"
)

// ErrArgumentParsing is the base error for malformed command-argument text.
// Every quoting error unwraps to it, so errors.Is(err, ErrArgumentParsing)
// decides whether the message should be sent back to the user.
var ErrArgumentParsing = errors.New("failed to parse command arguments")

// UnexpectedQuoteError reports a quote mark inside a non-quoted word.
type UnexpectedQuoteError struct {
	Quote rune
}

func (e *UnexpectedQuoteError) Error() string {
	return fmt.Sprintf("Unexpected quote mark, '%c', in non-quoted string", e.Quote)
}

func (e *UnexpectedQuoteError) Unwrap() error { return ErrArgumentParsing }

// InvalidEndOfQuotedStringError reports a non-whitespace character directly
// after a closing quote.
type InvalidEndOfQuotedStringError struct {
	Char rune
}

func (e *InvalidEndOfQuotedStringError) Error() string {
	return fmt.Sprintf("Expected space after closing quotation but received '%c'", e.Char)
}

func (e *InvalidEndOfQuotedStringError) Unwrap() error { return ErrArgumentParsing }

// ExpectedClosingQuoteError reports a quoted string that reaches end of input
// without its closing quote.
type ExpectedClosingQuoteError struct {
	CloseQuote rune
}

func (e *ExpectedClosingQuoteError) Error() string {
	return fmt.Sprintf("Expected closing %c.", e.CloseQuote)
}

func (e *ExpectedClosingQuoteError) Unwrap() error { return ErrArgumentParsing }
