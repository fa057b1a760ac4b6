package hierarchy

import (
	"errors"
	"strings"

	"github.com/MrSnakeDoc/webmark/internal/domain"
)

// MsgNotAuthorized is the only message a caller gets for a missing or
// foreign category. Both cases look the same from outside.
const MsgNotAuthorized = "category not found or not authorized"

// MsgBookmarkNotAuthorized is the bookmark counterpart of MsgNotAuthorized.
const MsgBookmarkNotAuthorized = "bookmark not found or not authorized"

// Result is the outcome of a business operation.
//
// A rejected request (bad input, foreign entity) is a Result with
// Success=false and a Kind. Only infrastructure failures are returned as
// a Go error next to it.
type Result[T any] struct {
	Success bool
	Message string
	Kind    domain.Kind
	Data    T
}

func succeed[T any](message string, data T) Result[T] {
	return Result[T]{Success: true, Message: message, Data: data}
}

// reject converts a business error into a failed Result. Infrastructure
// errors are passed through untouched.
func reject[T any](err error, notFoundMsg string) (Result[T], error) {
	kind := domain.KindOf(err)
	switch kind {
	case domain.KindValidation:
		return Result[T]{Kind: kind, Message: validationMessage(err)}, nil
	case domain.KindAuthorization:
		return Result[T]{Kind: kind, Message: notFoundMsg}, nil
	default:
		return Result[T]{Kind: domain.KindInfrastructure}, err
	}
}

func validationMessage(err error) string {
	msg := err.Error()
	prefix := domain.ErrValidation.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	if errors.Is(err, domain.ErrValidation) {
		return domain.ErrValidation.Error()
	}
	return msg
}
