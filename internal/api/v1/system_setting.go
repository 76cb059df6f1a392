package v1

import (
	"net/http"

	"github.com/zeroverload/SmartLib/internal/http/response"
	"github.com/zeroverload/SmartLib/internal/model"
)

func (h *Handler) getAnnouncement(w http.ResponseWriter, r *http.Request) {
	announcement, err := h.svc.Announcement(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, r, announcement)
}

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	policy, err := h.svc.GetSettings(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, r, policy)
}

func (h *Handler) updateSettings(w http.ResponseWriter, r *http.Request) {
	var policy model.SystemSettingPolicy
	if err := decodeBody(r, &policy); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	updated, err := h.svc.UpdateSettings(r.Context(), &policy)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, r, updated)
}

func (h *Handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.svc.Dashboard(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, r, dashboard)
}
