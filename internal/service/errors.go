package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"

	"github.com/Cheertaboi/restaurant-service/internal/logger"
	"github.com/Cheertaboi/restaurant-service/internal/models"
)

type Kind int

const (
	// KindValidation is a caller-correctable input problem.
	KindValidation Kind = iota + 1
	// KindIneligible covers well-formed requests the current state refuses:
	// unknown or exhausted coupons, full slots.
	KindIneligible
	KindPersistence
	// KindTimeout is a store round-trip that ran out of time. Retryable.
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindIneligible:
		return "ineligible"
	case KindPersistence:
		return "persistence"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

const (
	CodeInvalidOrExpiredCoupon = "InvalidOrExpiredCoupon"
	CodeMinimumNotMet          = "MinimumNotMet"
	CodeSlotFull               = "SlotFull"
	CodeLargeParty             = "LargeParty"
	CodeTotalMismatch          = "TotalMismatch"
	CodeDuplicate              = "Duplicate"
	CodeNotFound               = "NotFound"
)

// Error is the only error type services return to handlers. Message is safe
// to show to the customer; Err is for logs.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind and Code so callers can write
// errors.Is(err, &service.Error{Code: service.CodeSlotFull}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != 0 && t.Kind != e.Kind {
		return false
	}
	if t.Code != "" && t.Code != e.Code {
		return false
	}
	return true
}

func validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func ineligible(code, msg string) *Error {
	return &Error{Kind: KindIneligible, Code: code, Message: msg}
}

// storeFailure classifies an error coming back from a repository. message is
// the customer-facing text used for generic persistence failures.
func storeFailure(message string, err error) error {
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	if errors.Is(err, models.ErrDuplicate) {
		return &Error{Kind: KindValidation, Code: CodeDuplicate, Message: "A record with these details already exists", Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Message: "The request timed out, please try again", Err: err}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "query_canceled":
			return &Error{Kind: KindTimeout, Message: "The request timed out, please try again", Err: err}
		case "unique_violation":
			return &Error{Kind: KindValidation, Code: CodeDuplicate, Message: "A record with these details already exists", Err: err}
		case "check_violation", "not_null_violation", "foreign_key_violation":
			return &Error{Kind: KindValidation, Message: "The request violates a data constraint", Err: err}
		}
	}
	return &Error{Kind: KindPersistence, Message: message, Err: err}
}

// fail classifies err and logs it when it is a server-side failure.
// Validation and eligibility outcomes are not logged.
func fail(ctx context.Context, log *slog.Logger, action, message string, err error) error {
	classified := storeFailure(message, err)

	var se *Error
	if errors.As(classified, &se) && (se.Kind == KindPersistence || se.Kind == KindTimeout) {
		logger.FromContext(ctx, log).Error(message,
			slog.String("action", action),
			slog.String("kind", se.Kind.String()),
			slog.Any("error", err),
		)
	}
	return classified
}
