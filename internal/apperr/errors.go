package apperr

import "errors"

// Kind groups failures by how callers are expected to react to them.
type Kind string

const (
	KindValidation Kind = "validation"
	KindGateway    Kind = "gateway"
	KindStore      Kind = "store"
	KindState      Kind = "state"
)

// Error is the application error shared by stores, the gateway and the interview machine.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Kind) + " error: " + e.Message + " (" + e.Err.Error() + ")"
	}
	return string(e.Kind) + " error: " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on kind and code so wrapped copies of a sentinel still compare equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Wrap(kind Kind, code, message string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

func Validation(code, message string) *Error {
	return New(KindValidation, code, message)
}

func Gateway(code, message string, err error) *Error {
	return Wrap(KindGateway, code, message, err)
}

func Store(code, message string, err error) *Error {
	return Wrap(KindStore, code, message, err)
}

func State(code, message string, err error) *Error {
	return Wrap(KindState, code, message, err)
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// CodeOf returns the code of the first *Error in err's chain.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
