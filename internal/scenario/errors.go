package scenario

import (
	"fmt"

	"github.com/iwvelando/loan-estimate/internal/programs"
	"github.com/shopspring/decimal"
)

// Kind identifies the category of a scenario error.
type Kind string

const (
	// KindBelowMinimumDownPayment marks a pair whose down payment is under the
	// program minimum. It is reported per pair and never aborts a batch.
	KindBelowMinimumDownPayment Kind = "BELOW_MINIMUM_DOWN_PAYMENT"

	// KindInvalidInput rejects a whole request before any computation.
	KindInvalidInput Kind = "INVALID_INPUT"

	// KindConfiguration marks an unrecognized program, purpose or property type.
	KindConfiguration Kind = "CONFIGURATION_ERROR"
)

// Error is a scenario error with context.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	// RequiredMinimum is the program minimum down payment percent for
	// KindBelowMinimumDownPayment.
	RequiredMinimum *decimal.Decimal `json:"requiredMinimum,omitempty"`
	Cause           error            `json:"-"`
}

// Sentinels for errors.Is; matching is by Kind.
var (
	ErrBelowMinimumDownPayment = &Error{Kind: KindBelowMinimumDownPayment, Message: "down payment below program minimum"}
	ErrInvalidInput            = &Error{Kind: KindInvalidInput, Message: "invalid input"}
	ErrConfiguration           = &Error{Kind: KindConfiguration, Message: "configuration error"}
)

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, msg, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, msg)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a scenario error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func invalidInput(field, format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidInput, Field: field, Message: fmt.Sprintf(format, args...)}
}

func configurationError(field string, cause error) *Error {
	return &Error{Kind: KindConfiguration, Field: field, Message: "unsupported value", Cause: cause}
}

func belowMinimum(program programs.Program, downPaymentPercent, minimum decimal.Decimal) *Error {
	required := minimum
	return &Error{
		Kind:            KindBelowMinimumDownPayment,
		Field:           "downPaymentPercent",
		Message:         fmt.Sprintf("%s requires at least %s%% down, got %s%%", program, minimum, downPaymentPercent),
		RequiredMinimum: &required,
	}
}
