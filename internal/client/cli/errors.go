package cli

import (
	"errors"

	"github.com/dmitrijs2005/recipebook/internal/client/gateway"
	"github.com/dmitrijs2005/recipebook/internal/common"
)

// formError reports input the user has to correct before anything is sent.
type formError struct {
	msg string
}

func (e *formError) Error() string {
	return e.msg
}

// describeError turns a command failure into a user-facing line. Gateway
// failures are described by kind, with the service's detail when present.
func describeError(err error) string {
	var fe *formError
	if errors.As(err, &fe) {
		return "Invalid input: " + fe.msg
	}

	detail := ""
	var gwErr *gateway.Error
	if errors.As(err, &gwErr) && gwErr.Message != "" {
		detail = ": " + gwErr.Message
	}

	switch common.KindOf(err) {
	case common.KindInvalidCredentials:
		return "Login failed: invalid username or password"
	case common.KindRegistrationRejected:
		return "Registration rejected" + detail
	case common.KindUnauthorized:
		return "Not authorized" + detail + " (are you logged in as the owner?)"
	case common.KindNotFound:
		return "Not found" + detail
	case common.KindValidationRejected:
		return "Rejected by the service" + detail
	case common.KindNetworkUnreachable:
		return "Service unreachable, check your connection and try again"
	case common.KindServerFault:
		return "The service failed, try again later"
	case common.KindStorageUnavailable:
		return "Could not save the session locally; you may need to log in again"
	default:
		return "Error: " + err.Error()
	}
}
