package v1

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/zeroverload/SmartLib/internal/http/request"
	"github.com/zeroverload/SmartLib/internal/http/response"
	"github.com/zeroverload/SmartLib/internal/model"
)

// listBooks supports the q, category and status query parameters.
func (h *Handler) listBooks(w http.ResponseWriter, r *http.Request) {
	find := &model.FindBook{
		Keyword:  request.QueryStringParam(r, "q"),
		Category: request.QueryStringParam(r, "category"),
	}
	if status := request.QueryStringParam(r, "status"); status != nil {
		s := model.BookStatus(*status)
		if !s.Valid() {
			response.BadRequest(w, r, errors.Errorf("invalid status %q", *status))
			return
		}
		find.Status = &s
	}

	books, err := h.svc.ListBooks(r.Context(), find)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, r, books)
}

func (h *Handler) getBook(w http.ResponseWriter, r *http.Request) {
	id, err := request.RouteInt32Param(r, "id")
	if err != nil {
		response.BadRequest(w, r, err)
		return
	}
	book, err := h.svc.GetBook(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, r, book)
}

func (h *Handler) addBook(w http.ResponseWriter, r *http.Request) {
	var create model.BookCreateRequest
	if err := decodeBody(r, &create); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	book, err := h.svc.AddBook(r.Context(), &create)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Created(w, r, book)
}

func (h *Handler) updateBook(w http.ResponseWriter, r *http.Request) {
	id, err := request.RouteInt32Param(r, "id")
	if err != nil {
		response.BadRequest(w, r, err)
		return
	}
	var update model.BookCreateRequest
	if err := decodeBody(r, &update); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	book, err := h.svc.UpdateBook(r.Context(), id, &update)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, r, book)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.Categories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	response.OK(w, r, categories)
}

func (h *Handler) listReviews(w http.ResponseWriter, r *http.Request) {
	id, err := request.RouteInt32Param(r, "id")
	if err != nil {
		response.BadRequest(w, r, err)
		return
	}
	if _, err := h.svc.GetBook(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	reviews, err := h.svc.ListReviews(r.Context(), &model.FindReview{BookID: &id})
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, r, reviews)
}

func (h *Handler) addReview(w http.ResponseWriter, r *http.Request) {
	id, err := request.RouteInt32Param(r, "id")
	if err != nil {
		response.BadRequest(w, r, err)
		return
	}
	var create model.ReviewCreateRequest
	if err := decodeBody(r, &create); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	review, err := h.svc.AddReview(r.Context(), request.GetUserID(r), id, &create)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Created(w, r, review)
}
