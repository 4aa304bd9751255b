package tokenmap

import "github.com/pkg/errors"

var (
	// ErrExpiredQuote matches every ExpiredQuoteError
	ErrExpiredQuote = errors.New("expired quote")
	// ErrQuoteNotFound is returned when the service has no quote for the requested pair
	ErrQuoteNotFound = errors.New("quote not found")
)

type ExpiredQuoteError struct {
	Message string
}

func (e *ExpiredQuoteError) Error() string {
	return e.Message
}

func (e *ExpiredQuoteError) Is(target error) bool {
	return target == ErrExpiredQuote
}
