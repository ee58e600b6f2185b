package service

import (
	"errors"
	"fmt"

	"github.com/sandeepkv93/catalog-service/internal/repository"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal error")
)

const internalMessage = "Unexpected error, check server logs"

// Error carries a caller-safe Message and a Kind sentinel. Err keeps the
// underlying cause for logs and errors.Is checks.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.Error()
}

func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Err }

func validationError(format string, args ...any) *Error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func notFoundError(term string) *Error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf("Product with id %s not found.", term)}
}

func forbiddenError(msg string) *Error {
	return &Error{Kind: ErrForbidden, Message: msg}
}

func internalError(err error) *Error {
	return &Error{Kind: ErrInternal, Message: internalMessage, Err: err}
}

// classifyStoreError maps repository failures onto service kinds. Unexpected
// failures were already logged by the repository and are not logged here.
func classifyStoreError(err error, term string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrStoreUnexpected) {
		if errors.Is(err, ErrInternal) {
			return err
		}
		return internalError(err)
	}
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr
	}
	if errors.Is(err, repository.ErrProductNotFound) || errors.Is(err, repository.ErrUserNotFound) {
		return &Error{Kind: ErrNotFound, Message: notFoundError(term).Message, Err: err}
	}
	var conflict *repository.ConflictError
	if errors.As(err, &conflict) {
		msg := conflict.Error()
		if conflict.Field != "" {
			msg = fmt.Sprintf("Key (%s)=(%s) already exists.", conflict.Field, conflict.Value)
		}
		return &Error{Kind: ErrValidation, Message: msg, Err: err}
	}
	return internalError(err)
}

// outcomeOf names err for operation metrics.
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrValidation):
		return "bad_request"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	default:
		return "error"
	}
}

// Message returns the caller-safe text for err. Errors that are not
// *Error never leak their detail.
func Message(err error) string {
	var svcErr *Error
	if errors.As(err, &svcErr) && !errors.Is(svcErr, ErrInternal) {
		return svcErr.Error()
	}
	return internalMessage
}
