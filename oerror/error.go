package oerror

import (
	"errors"
	"fmt"
)

// Kind classifies an error raised by the reconciliation core.
type Kind uint8

const (
	KindInternal Kind = iota
	KindInvalidMethod
	KindInvalidMode
	KindTypeMismatch
	KindNotFound
	KindNonFiniteTransform
	KindInvalidBinding
)

var kindNames = [...]string{
	KindInternal:           "internal",
	KindInvalidMethod:      "invalid movement control method",
	KindInvalidMode:        "invalid collider mode",
	KindTypeMismatch:       "binding type mismatch",
	KindNotFound:           "binding not found",
	KindNonFiniteTransform: "non-finite transform",
	KindInvalidBinding:     "invalid binding",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Sentinels usable with errors.Is. Any *Error of the same kind matches.
var (
	ErrInvalidMethod      = &Error{Kind: KindInvalidMethod}
	ErrInvalidMode        = &Error{Kind: KindInvalidMode}
	ErrTypeMismatch       = &Error{Kind: KindTypeMismatch}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrNonFiniteTransform = &Error{Kind: KindNonFiniteTransform}
	ErrInvalidBinding     = &Error{Kind: KindInvalidBinding}
)

type Error struct {
	Kind Kind
	Msg  string
}

// New returns an internal error with a formatted message.
func New(format string, args ...any) *Error {
	return &Error{Kind: KindInternal, Msg: fmt.Sprintf(format, args...)}
}

// Newf returns an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Msg
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of err, or KindInternal if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
