package support

import (
	"fmt"
	"strings"
)

// Error codes reported in the "error" field of a failed response.
const (
	CodeUnsupportedProduct = "unsupported product"
	CodeInvalidInputs      = "invalid inputs"
	CodeUnresolvedTx       = "unable to calculate tx info"
)

// ProductError reports a product path segment that is not served.
type ProductError struct {
	Product string
}

func (e *ProductError) Error() string {
	return fmt.Sprintf("%s: %s", CodeUnsupportedProduct, e.Product)
}

// Values returns the payload for the "value" field of the error response.
func (e *ProductError) Values() []string {
	return []string{e.Product}
}

// ValidationErrors holds one message per failed query check, in check order.
type ValidationErrors []string

func (v ValidationErrors) Error() string {
	return fmt.Sprintf("%s: %s", CodeInvalidInputs, strings.Join(v, "; "))
}

// Values returns a copy of the messages.
func (v ValidationErrors) Values() []string {
	return append([]string(nil), v...)
}

// ResolutionError reports a failed transaction lookup.
type ResolutionError struct {
	Network string
	TxHash  string
	Err     error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%s: %v", CodeUnresolvedTx, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Values returns the underlying failure message.
func (e *ResolutionError) Values() []string {
	return []string{e.Err.Error()}
}
