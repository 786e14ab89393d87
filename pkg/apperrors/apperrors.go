package apperrors

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindBadInput Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindInternal
)

// E 业务错误：kind 决定 HTTP 状态，Msg 可直接回给客户端
type E struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *E) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Status())
}

func (e *E) Unwrap() error { return e.Err }

func (e *E) Status() int {
	switch e.Kind {
	case KindBadInput:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func BadInput(msg string) error     { return &E{Kind: KindBadInput, Msg: msg} }
func Unauthorized(msg string) error { return &E{Kind: KindUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &E{Kind: KindForbidden, Msg: msg} }
func NotFound(msg string) error     { return &E{Kind: KindNotFound, Msg: msg} }
func Conflict(msg string) error     { return &E{Kind: KindConflict, Msg: msg} }

func Internal(msg string, err error) error {
	return &E{Kind: KindInternal, Msg: msg, Err: err}
}

// Status 任意 error 映射到状态码；非 *E 一律按 500
func Status(err error) int {
	var e *E
	if errors.As(err, &e) {
		return e.Status()
	}
	return http.StatusInternalServerError
}

// Message 客户端可见文案；非 *E 不泄露内部原因
func Message(err error) string {
	var e *E
	if errors.As(err, &e) {
		return e.Error()
	}
	return "internal error"
}

func IsKind(err error, k Kind) bool {
	var e *E
	return errors.As(err, &e) && e.Kind == k
}
