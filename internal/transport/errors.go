// internal/transport/errors.go
package transport

import (
	"errors"
	"fmt"
)

// Kind classifies where a single transaction failed.
type Kind uint8

const (
	KindConnect Kind = iota + 1
	KindSend
	KindRecv
	KindInvalidData
)

var (
	ErrConnect     = errors.New("connect error")
	ErrSend        = errors.New("send error")
	ErrRecv        = errors.New("recv error")
	ErrInvalidData = errors.New("invalid data")
)

func (k Kind) sentinel() error {
	switch k {
	case KindConnect:
		return ErrConnect
	case KindSend:
		return ErrSend
	case KindRecv:
		return ErrRecv
	case KindInvalidData:
		return ErrInvalidData
	default:
		return nil
	}
}

func (k Kind) String() string {
	if s := k.sentinel(); s != nil {
		return s.Error()
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Error is returned by the read and command clients.
// errors.Is matches both the per-kind sentinel and the underlying cause.
type Error struct {
	Kind     Kind
	Endpoint string
	Err      error
}

// New wraps err with kind and endpoint. A nil err yields nil.
func New(kind Kind, endpoint string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Endpoint: endpoint, Err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (endpoint=%s): %v", e.Kind, e.Endpoint, e.Err)
}

func (e *Error) Unwrap() []error {
	if s := e.Kind.sentinel(); s != nil {
		return []error{s, e.Err}
	}
	return []error{e.Err}
}

// Code exposes the kind as a numeric code.
func (e *Error) Code() uint16 { return uint16(e.Kind) }

// KindOf reports the transaction failure kind carried by err, or 0.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return 0
}
