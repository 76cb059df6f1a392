package v1

import (
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/zeroverload/SmartLib/internal/http/request"
	"github.com/zeroverload/SmartLib/internal/http/response"
	"github.com/zeroverload/SmartLib/internal/library"
	"github.com/zeroverload/SmartLib/internal/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// conflicts are refusals caused by the current state of the library.
var conflicts = []error{
	library.ErrBookUnavailable,
	library.ErrLimitExceeded,
	library.ErrAlreadyReturned,
	library.ErrDuplicateReservation,
	library.ErrAlreadyCancelled,
	library.ErrUsernameExists,
	library.ErrOpenLoans,
}

// writeError maps err to a status code.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, library.ErrRecordNotFound):
		response.NotFound(w, r, err)
	case errors.Is(err, library.ErrInvalidInput):
		response.BadRequest(w, r, err)
	case errors.Is(err, library.ErrInvalidCredentials):
		response.Unauthorized(w, r, err)
	case errors.Is(err, library.ErrUserIneligible), errors.Is(err, library.ErrMaintenanceMode):
		response.Forbidden(w, r, err)
	default:
		for _, kind := range conflicts {
			if errors.Is(err, kind) {
				response.Conflict(w, r, err)
				return
			}
		}
		response.ServerError(w, r, err)
	}
}

func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		log.Debug("Failed to decode request body", zap.Error(err))
		return errors.Wrap(err, "invalid request body")
	}
	return nil
}

// canAccess reports whether the caller may act on a resource owned by ownerID.
func canAccess(r *http.Request, ownerID int32) bool {
	return request.IsAdmin(r) || request.GetUserID(r) == ownerID
}

// actingUserID is the caller, or requested when an admin acts for another user.
func actingUserID(r *http.Request, requested int32) int32 {
	if requested != 0 && request.IsAdmin(r) {
		return requested
	}
	return request.GetUserID(r)
}
