package v1

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/zeroverload/SmartLib/internal/api/auth"
	"github.com/zeroverload/SmartLib/internal/library"
	"github.com/zeroverload/SmartLib/internal/middleware"
)

type Handler struct {
	svc *library.Service
	// For JWT
	secret        string
	tokenDuration time.Duration
}

// NewHandler is a constructor for the v1.Handler. A zero tokenDuration uses auth.AccessTokenDuration.
func NewHandler(svc *library.Service, secret string, tokenDuration time.Duration) *Handler {
	if tokenDuration <= 0 {
		tokenDuration = auth.AccessTokenDuration
	}
	return &Handler{
		svc:           svc,
		secret:        secret,
		tokenDuration: tokenDuration,
	}
}

func Server(router *mux.Router, handler *Handler) {
	sr := router.PathPrefix("/api/v1").Subrouter()
	middleware := middleware.NewMiddleware()
	sr.Use(middleware.HandleCORS)
	sr.Use(middleware.LoggingRequest)

	// Add authentication middleware
	sr.Use(NewAuthInterceptor(handler.svc, handler.secret).AuthenticationInterceptor)
	sr.Methods(http.MethodOptions)

	sr.HandleFunc("/signin", handler.signIn).Methods(http.MethodPost)
	sr.HandleFunc("/signout", handler.signOut).Methods(http.MethodPost)
	sr.HandleFunc("/announcement", handler.getAnnouncement).Methods(http.MethodGet)

	sr.HandleFunc("/books", handler.listBooks).Methods(http.MethodGet)
	sr.HandleFunc("/books", handler.addBook).Methods(http.MethodPost)
	sr.HandleFunc("/books/{id:[0-9]+}", handler.getBook).Methods(http.MethodGet)
	sr.HandleFunc("/books/{id:[0-9]+}", handler.updateBook).Methods(http.MethodPut)
	sr.HandleFunc("/books/{id:[0-9]+}/reviews", handler.listReviews).Methods(http.MethodGet)
	sr.HandleFunc("/books/{id:[0-9]+}/reviews", handler.addReview).Methods(http.MethodPost)
	sr.HandleFunc("/categories", handler.listCategories).Methods(http.MethodGet)

	sr.HandleFunc("/borrow", handler.borrow).Methods(http.MethodPost)
	sr.HandleFunc("/records", handler.listRecords).Methods(http.MethodGet)
	sr.HandleFunc("/records/{id:[0-9]+}/return", handler.returnBook).Methods(http.MethodPost)

	sr.HandleFunc("/reservations", handler.listReservations).Methods(http.MethodGet)
	sr.HandleFunc("/reservations", handler.reserve).Methods(http.MethodPost)
	sr.HandleFunc("/reservations/{id:[0-9]+}", handler.cancelReservation).Methods(http.MethodDelete)

	sr.HandleFunc("/me", handler.getMe).Methods(http.MethodGet)
	sr.HandleFunc("/me", handler.updateMe).Methods(http.MethodPut)
	sr.HandleFunc("/me/password", handler.changePassword).Methods(http.MethodPost)

	sr.HandleFunc("/settings", handler.getSettings).Methods(http.MethodGet)
	sr.HandleFunc("/settings", handler.updateSettings).Methods(http.MethodPut)
	sr.HandleFunc("/users", handler.listUsers).Methods(http.MethodGet)
	sr.HandleFunc("/users", handler.createUser).Methods(http.MethodPost)
	sr.HandleFunc("/users/{id:[0-9]+}", handler.updateUser).Methods(http.MethodPut)
	sr.HandleFunc("/users/{id:[0-9]+}", handler.deleteUser).Methods(http.MethodDelete)
	sr.HandleFunc("/dashboard", handler.getDashboard).Methods(http.MethodGet)
}
