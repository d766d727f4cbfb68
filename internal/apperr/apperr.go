// Package apperr holds the error taxonomy shared by services and handlers.
// Services return these; the echo error handler turns them into responses.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Kind classifies an Error.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuth
	KindForbidden
	KindNotFound
	KindStorage
)

// Error is the single error type services hand to the transport layer.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status maps the kind onto an HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Validation reports a missing or malformed input. The message reaches the caller verbatim.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Auth reports a missing or invalid bearer token.
func Auth(msg string) *Error {
	return &Error{Kind: KindAuth, Message: msg}
}

// Forbidden reports an authenticated caller acting outside its role.
func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// NotFound reports an unknown resource id.
func NotFound(what string) *Error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

// Storage wraps a persistence failure. msg is the public label, err stays internal
// apart from its text.
func Storage(msg string, err error) *Error {
	return &Error{Kind: KindStorage, Message: msg, Err: err}
}

// NewValidator returns a validator that reports fields by their form or json name.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
	return v
}

// FromValidator converts validator.ValidationErrors into a single Validation error
// naming every failing field.
func FromValidator(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			fields = append(fields, fe.Field()+" is required")
		case "email":
			fields = append(fields, fe.Field()+" must be a valid email")
		case "oneof":
			fields = append(fields, fe.Field()+" must be one of: "+fe.Param())
		case "numeric", "number":
			fields = append(fields, fe.Field()+" must be a number")
		case "latitude", "longitude":
			fields = append(fields, fe.Field()+" must be a valid "+fe.Tag())
		case "max":
			fields = append(fields, fe.Field()+" must be at most "+fe.Param())
		default:
			fields = append(fields, fe.Field()+" is invalid")
		}
	}
	return Validation("%s", strings.Join(fields, "; "))
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool { return Is(err, KindValidation) }

// IsStorage reports whether err is a StorageError.
func IsStorage(err error) bool { return Is(err, KindStorage) }

// IsNotFound reports whether err is a NotFound error.
func IsNotFound(err error) bool { return Is(err, KindNotFound) }
