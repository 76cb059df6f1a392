package v1

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/zeroverload/SmartLib/internal/http/request"
	"github.com/zeroverload/SmartLib/internal/http/response"
	"github.com/zeroverload/SmartLib/internal/model"
)

type meResponse struct {
	User    *model.User        `json:"user"`
	Summary *model.LoanSummary `json:"summary"`
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var create model.UserCreateRequest
	if err := decodeBody(r, &create); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	user, err := h.svc.CreateUser(r.Context(), &create)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Created(w, r, response.UserResponse(user))
}

// listUsers supports the role and status query parameters.
func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	find := &model.FindUser{}
	if role := request.QueryStringParam(r, "role"); role != nil {
		v := model.Role(*role)
		find.Role = &v
	}
	if status := request.QueryStringParam(r, "status"); status != nil {
		v := model.UserStatus(*status)
		find.Status = &v
	}

	users, err := h.svc.ListUsers(r.Context(), find)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, r, response.UserListResponse(users))
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := request.RouteInt32Param(r, "id")
	if err != nil {
		response.BadRequest(w, r, err)
		return
	}
	var update model.UserUpdateRequest
	if err := decodeBody(r, &update); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	if id == request.GetUserID(r) && update.Status != nil && *update.Status != model.UserStatusActive {
		response.BadRequest(w, r, errors.New("admins cannot freeze their own account"))
		return
	}

	user, err := h.svc.UpdateUser(r.Context(), id, &update)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, r, response.UserResponse(user))
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := request.RouteInt32Param(r, "id")
	if err != nil {
		response.BadRequest(w, r, err)
		return
	}
	if id == request.GetUserID(r) {
		response.BadRequest(w, r, errors.New("admins cannot delete their own account"))
		return
	}
	if err := h.svc.DeleteUser(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	response.NoContent(w, r)
}

func (h *Handler) getMe(w http.ResponseWriter, r *http.Request) {
	userID := request.GetUserID(r)
	user, err := h.svc.GetUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	summary, err := h.svc.UserSummary(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, r, &meResponse{User: response.UserResponse(user), Summary: summary})
}

func (h *Handler) updateMe(w http.ResponseWriter, r *http.Request) {
	var profile model.UserProfileRequest
	if err := decodeBody(r, &profile); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	user, err := h.svc.UpdateProfile(r.Context(), request.GetUserID(r), &profile)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, r, response.UserResponse(user))
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	var change model.PasswordChangeRequest
	if err := decodeBody(r, &change); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	if err := h.svc.ChangePassword(r.Context(), request.GetUserID(r), &change); err != nil {
		writeError(w, r, err)
		return
	}
	response.NoContent(w, r)
}
