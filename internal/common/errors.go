// Package common defines shared constants and sentinel errors used across
// the session and gateway layers of the recipebook client. Callers should use
// errors.Is (or KindOf) to match these values.
package common

import "errors"

// Kind is the finite vocabulary of failure categories the client core
// reports. UI code renders against Kind, never against transport details.
type Kind string

const (
	KindInvalidCredentials   Kind = "invalid_credentials"
	KindRegistrationRejected Kind = "registration_rejected"
	KindUnauthorized         Kind = "unauthorized"
	KindNotFound             Kind = "not_found"
	KindValidationRejected   Kind = "validation_rejected"
	KindNetworkUnreachable   Kind = "network_unreachable"
	KindServerFault          Kind = "server_fault"
	KindStorageUnavailable   Kind = "storage_unavailable"
	KindUnknown              Kind = "unknown"
)

var (
	// Auth errors.
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrRegistrationRejected = errors.New("registration rejected")
	ErrUnauthorized         = errors.New("unauthorized")

	// Resource errors.
	ErrNotFound           = errors.New("not found")
	ErrValidationRejected = errors.New("validation rejected")

	// Transport errors.
	ErrNetworkUnreachable = errors.New("network unreachable")
	ErrServerFault        = errors.New("server fault")

	// Local persistence errors.
	ErrStorageUnavailable = errors.New("storage unavailable")

	ErrUnknown = errors.New("unknown error")
)

var kindSentinels = map[Kind]error{
	KindInvalidCredentials:   ErrInvalidCredentials,
	KindRegistrationRejected: ErrRegistrationRejected,
	KindUnauthorized:         ErrUnauthorized,
	KindNotFound:             ErrNotFound,
	KindValidationRejected:   ErrValidationRejected,
	KindNetworkUnreachable:   ErrNetworkUnreachable,
	KindServerFault:          ErrServerFault,
	KindStorageUnavailable:   ErrStorageUnavailable,
	KindUnknown:              ErrUnknown,
}

// Sentinel returns the sentinel error for k. Unrecognised kinds map to
// ErrUnknown.
func (k Kind) Sentinel() error {
	if err, ok := kindSentinels[k]; ok {
		return err
	}
	return ErrUnknown
}

// KindOf reports the Kind of err by walking its chain. A nil error has an
// empty Kind; errors outside the vocabulary are KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	// Order matters only for errors that wrap several sentinels; the more
	// specific auth kinds win over the generic ones.
	for _, k := range []Kind{
		KindInvalidCredentials,
		KindRegistrationRejected,
		KindStorageUnavailable,
		KindUnauthorized,
		KindNotFound,
		KindValidationRejected,
		KindNetworkUnreachable,
		KindServerFault,
	} {
		if errors.Is(err, kindSentinels[k]) {
			return k
		}
	}
	return KindUnknown
}
