package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/recipebook/internal/common"
)

// Error is the normalized failure of a gateway operation.
type Error struct {
	// Op names the operation, e.g. "recipes.get".
	Op   string
	Kind common.Kind
	// Status is the HTTP status, 0 when no response was received.
	Status int
	// Message is the service's human-readable detail, if it sent one.
	Message string

	err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(e.Kind.Sentinel().Error())
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is matches the common sentinel for the error's Kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind.Sentinel()
}

// Unwrap returns the underlying transport or decode error, if any.
func (e *Error) Unwrap() error {
	return e.err
}

// statusMapper overrides the default status classification for a single
// operation. It returns false to fall back to kindForStatus.
type statusMapper func(status int) (common.Kind, bool)

func kindForStatus(status int) common.Kind {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return common.KindUnauthorized
	case status == http.StatusNotFound:
		return common.KindNotFound
	case status >= 400 && status < 500:
		return common.KindValidationRejected
	case status >= 500 && status < 600:
		return common.KindServerFault
	default:
		return common.KindUnknown
	}
}

// loginStatus reports a rejected login as bad credentials.
func loginStatus(status int) (common.Kind, bool) {
	if status == http.StatusUnauthorized {
		return common.KindInvalidCredentials, true
	}
	return "", false
}

// registerStatus reports every client error on registration as a rejection.
func registerStatus(status int) (common.Kind, bool) {
	if status >= 400 && status < 500 {
		return common.KindRegistrationRejected, true
	}
	return "", false
}

// detailMessage extracts the FastAPI-style "detail" from an error body. The
// detail is either a string or a list of validation issues.
func detailMessage(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return s
	}

	var issues []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &issues); err != nil {
		return ""
	}

	msgs := make([]string, 0, len(issues))
	for _, i := range issues {
		if i.Msg == "" {
			continue
		}
		if len(i.Loc) > 0 {
			msgs = append(msgs, fmt.Sprintf("%v: %s", i.Loc[len(i.Loc)-1], i.Msg))
		} else {
			msgs = append(msgs, i.Msg)
		}
	}
	return strings.Join(msgs, "; ")
}
