// Package domainerrors carries typed error codes from domain services to the
// transport layer. Services return *Error values; handlers translate the code
// into a status and a stable machine-readable string.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a stable, machine-readable failure reason.
type Code string

// Generic codes.
const (
	CodeBadRequest         Code = "bad_request"
	CodeValidation         Code = "validation_error"
	CodeInvalidInput       Code = "invalid_input"
	CodeInvalidRequest     Code = "invalid_request"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeTimeout            Code = "timeout"
	CodeInvariantViolation Code = "invariant_violation"
	CodeInternal           Code = "internal_error"
)

// Ledger conditions. Each names one precondition violation or policy
// rejection so callers can branch on it programmatically.
const (
	CodeRecipientNotVerified      Code = "recipient_not_verified"
	CodeMintNotCompliant          Code = "mint_not_compliant"
	CodeTransferNotCompliant      Code = "transfer_not_compliant"
	CodeModuleAlreadyAdded        Code = "module_already_added"
	CodeModuleNotFound            Code = "module_not_found"
	CodeInvalidModule             Code = "invalid_module"
	CodeIdentityAlreadyRegistered Code = "identity_already_registered"
	CodeIdentityNotRegistered     Code = "identity_not_registered"
	CodeWalletAlreadyMarkedAsLost Code = "wallet_already_marked_as_lost"
	CodeArrayLengthMismatch       Code = "array_length_mismatch"
	CodeZeroAddress               Code = "zero_address"
	CodeInsufficientBalance       Code = "insufficient_balance"
	CodeCannotRecoverOwnAsset     Code = "cannot_recover_own_asset"
	CodeNoTokensToRecover         Code = "no_tokens_to_recover"
	CodeReentrantCall             Code = "reentrant_call"
	CodeLimitExceeded             Code = "limit_exceeded"
)

// Error is a coded domain error with an optional wrapped cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, Err: err}
}

// CodeOf returns the outermost code in the chain, or CodeInternal when err
// carries none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// HasCode reports whether any error in the chain carries code.
func HasCode(err error, code Code) bool {
	for err != nil {
		var de *Error
		if !errors.As(err, &de) {
			return false
		}
		if de.Code == code {
			return true
		}
		err = de.Err
	}
	return false
}

// Is reports whether the outermost coded error in the chain has code.
func Is(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// ToHTTPStatus maps a code to the status returned by the HTTP transport.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeValidation, CodeInvalidInput, CodeInvalidRequest,
		CodeArrayLengthMismatch, CodeZeroAddress, CodeInvalidModule:
		return http.StatusBadRequest
	case CodeNotFound, CodeModuleNotFound, CodeIdentityNotRegistered:
		return http.StatusNotFound
	case CodeConflict, CodeModuleAlreadyAdded, CodeIdentityAlreadyRegistered,
		CodeWalletAlreadyMarkedAsLost, CodeReentrantCall:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden, CodeRecipientNotVerified, CodeCannotRecoverOwnAsset:
		return http.StatusForbidden
	case CodeMintNotCompliant, CodeTransferNotCompliant, CodeInsufficientBalance,
		CodeNoTokensToRecover, CodeLimitExceeded, CodeInvariantViolation:
		return http.StatusUnprocessableEntity
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
