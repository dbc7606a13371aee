package billing

import "errors"

var (
	// ErrDocumentNotFound indicates the billing document doesn't exist.
	ErrDocumentNotFound = errors.New("billing document not found")
	// ErrMixedVATRates indicates lines with differing VAT rates.
	ErrMixedVATRates = errors.New("lines carry mixed VAT rates")
	// ErrInvalidInput indicates an invalid billing document.
	ErrInvalidInput = errors.New("invalid billing document")
)
