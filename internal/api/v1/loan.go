package v1

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/zeroverload/SmartLib/internal/http/request"
	"github.com/zeroverload/SmartLib/internal/http/response"
	"github.com/zeroverload/SmartLib/internal/model"
)

var errNotOwner = errors.New("the record belongs to another user")

func (h *Handler) borrow(w http.ResponseWriter, r *http.Request) {
	var borrow model.BorrowRequest
	if err := decodeBody(r, &borrow); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	record, err := h.svc.Borrow(r.Context(), actingUserID(r, borrow.UserID), borrow.BookID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Created(w, r, record)
}

// listRecords returns the caller's records. Admins see every record and may
// filter with user_id, book_id and open.
func (h *Handler) listRecords(w http.ResponseWriter, r *http.Request) {
	find := &model.FindBorrowRecord{}
	if request.IsAdmin(r) {
		userID, err := request.QueryInt32Param(r, "user_id")
		if err != nil {
			response.BadRequest(w, r, err)
			return
		}
		find.UserID = userID
	} else {
		userID := request.GetUserID(r)
		find.UserID = &userID
	}

	bookID, err := request.QueryInt32Param(r, "book_id")
	if err != nil {
		response.BadRequest(w, r, err)
		return
	}
	find.BookID = bookID
	if open := request.QueryStringParam(r, "open"); open != nil {
		v := *open == "true" || *open == "1"
		find.Open = &v
	}

	records, err := h.svc.ListRecords(r.Context(), find)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, r, records)
}

func (h *Handler) returnBook(w http.ResponseWriter, r *http.Request) {
	id, err := request.RouteInt32Param(r, "id")
	if err != nil {
		response.BadRequest(w, r, err)
		return
	}
	existing, err := h.svc.GetRecord(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !canAccess(r, existing.UserID) {
		response.Forbidden(w, r, errNotOwner)
		return
	}

	record, err := h.svc.ReturnBook(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, r, record)
}

func (h *Handler) listReservations(w http.ResponseWriter, r *http.Request) {
	find := &model.FindReservation{}
	if request.IsAdmin(r) {
		userID, err := request.QueryInt32Param(r, "user_id")
		if err != nil {
			response.BadRequest(w, r, err)
			return
		}
		find.UserID = userID
	} else {
		userID := request.GetUserID(r)
		find.UserID = &userID
	}
	bookID, err := request.QueryInt32Param(r, "book_id")
	if err != nil {
		response.BadRequest(w, r, err)
		return
	}
	find.BookID = bookID
	if status := request.QueryStringParam(r, "status"); status != nil {
		s := model.ReservationStatus(*status)
		find.Status = &s
	}

	reservations, err := h.svc.ListReservations(r.Context(), find)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, r, reservations)
}

func (h *Handler) reserve(w http.ResponseWriter, r *http.Request) {
	var reserve model.ReservationRequest
	if err := decodeBody(r, &reserve); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	reservation, err := h.svc.Reserve(r.Context(), actingUserID(r, reserve.UserID), reserve.BookID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Created(w, r, reservation)
}

func (h *Handler) cancelReservation(w http.ResponseWriter, r *http.Request) {
	id, err := request.RouteInt32Param(r, "id")
	if err != nil {
		response.BadRequest(w, r, err)
		return
	}
	existing, err := h.svc.GetReservation(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !canAccess(r, existing.UserID) {
		response.Forbidden(w, r, errNotOwner)
		return
	}

	reservation, err := h.svc.CancelReservation(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, r, reservation)
}
