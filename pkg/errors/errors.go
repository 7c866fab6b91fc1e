package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypePriceParse represents an unparseable price string; the listing is skipped
	ErrorTypePriceParse ErrorType = "price_parse"
	// ErrorTypeOfferParse represents an unparseable offer line; the candidate is dropped
	ErrorTypeOfferParse ErrorType = "offer_parse"
	// ErrorTypeReferenceData represents a missing or malformed card benefit table
	ErrorTypeReferenceData ErrorType = "reference_data"
	// ErrorTypeNetwork represents network-related errors
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeParsing represents HTML parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypePublisher represents publisher-related errors
	ErrorTypePublisher ErrorType = "publisher"
	// ErrorTypeValidation represents request validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// PricingError represents an error raised anywhere in the analysis pipeline
type PricingError struct {
	Type    ErrorType
	Source  string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *PricingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Source, e.Message)
}

// Unwrap returns the underlying error
func (e *PricingError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is retryable
func (e *PricingError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNetwork:
		return true
	case ErrorTypeRateLimit:
		return false
	default:
		return false
	}
}

// IsFatal returns true if the error prevents the process from producing
// card-aware results at all
func (e *PricingError) IsFatal() bool {
	return e.Type == ErrorTypeReferenceData || e.Type == ErrorTypeConfiguration
}

// New creates a new PricingError
func New(errType ErrorType, source, message string, err error) *PricingError {
	return &PricingError{
		Type:    errType,
		Source:  source,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewPriceParse creates a new price parse error
func NewPriceParse(source, message string) *PricingError {
	return New(ErrorTypePriceParse, source, message, nil)
}

// NewOfferParse creates a new offer parse warning
func NewOfferParse(source, message string) *PricingError {
	return New(ErrorTypeOfferParse, source, message, nil)
}

// NewReferenceData creates a new reference data load error
func NewReferenceData(source, message string, err error) *PricingError {
	return New(ErrorTypeReferenceData, source, message, err)
}

// NewNetwork creates a new network error
func NewNetwork(source, message string, err error) *PricingError {
	return New(ErrorTypeNetwork, source, message, err)
}

// NewParsing creates a new parsing error
func NewParsing(source, message string, err error) *PricingError {
	return New(ErrorTypeParsing, source, message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(source string, duration time.Duration) *PricingError {
	message := fmt.Sprintf("rate limited for %v", duration)
	return New(ErrorTypeRateLimit, source, message, nil)
}

// NewPublisher creates a new publisher error
func NewPublisher(source, message string, err error) *PricingError {
	return New(ErrorTypePublisher, source, message, err)
}

// NewValidation creates a new validation error
func NewValidation(source, message string) *PricingError {
	return New(ErrorTypeValidation, source, message, nil)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *PricingError {
	return New(ErrorTypeConfiguration, "", message, err)
}
