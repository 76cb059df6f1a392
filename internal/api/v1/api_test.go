package v1

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/zeroverload/SmartLib/internal/library"
	"github.com/zeroverload/SmartLib/internal/model"
	"github.com/zeroverload/SmartLib/internal/storage"
	"github.com/zeroverload/SmartLib/internal/store"
)

func init() {
	store.PasswordCost = bcrypt.MinCost
}

const testSecret = "test-secret"

type testAPI struct {
	router *mux.Router
	svc    *library.Service
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	ctx := context.Background()
	s, err := store.NewStore(ctx, storage.NewMemoryStorage())
	require.NoError(t, err)
	_, err = s.Seed(ctx, &model.SystemSettingPolicy{DailyFineRate: decimal.RequireFromString("0.5"), MaxBorrowLimit: 10})
	require.NoError(t, err)

	now := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	svc := library.NewService(s, library.WithClock(func() time.Time { return now }))
	router := mux.NewRouter()
	Server(router, NewHandler(svc, testSecret, time.Hour))
	return &testAPI{router: router, svc: svc}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	r := httptest.NewRequest(method, path, reader)
	r.Header.Set("Content-Type", "application/json")
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, r)
	return w
}

func (a *testAPI) signIn(t *testing.T, username, password string) string {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/v1/signin", "", model.UserSigninRequest{Username: username, Password: password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp signInResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestSignIn(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(t, http.MethodPost, "/api/v1/signin", "", model.UserSigninRequest{Username: "student1", Password: "student1", Role: model.RoleReader})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "smartlib.access-token=")
	assert.NotContains(t, w.Body.String(), "password_hash")

	var resp signInResponse
	decode(t, w, &resp)
	assert.Equal(t, int32(1001), resp.User.ID)
	require.NotNil(t, resp.ExpiresAt)

	tests := []struct {
		name    string
		request model.UserSigninRequest
		status  int
	}{
		{"wrong password", model.UserSigninRequest{Username: "student1", Password: "nope"}, http.StatusUnauthorized},
		{"wrong role", model.UserSigninRequest{Username: "student1", Password: "student1", Role: model.RoleAdmin}, http.StatusUnauthorized},
		{"frozen", model.UserSigninRequest{Username: "guest", Password: "123456"}, http.StatusForbidden},
		{"missing password", model.UserSigninRequest{Username: "student1"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := a.do(t, http.MethodPost, "/api/v1/signin", "", tt.request)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), "error_message")
		})
	}
}

func TestCookieAuthentication(t *testing.T) {
	a := newTestAPI(t)
	token := a.signIn(t, "student1", "student1")

	r := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	r.AddCookie(&http.Cookie{Name: "smartlib.access-token", Value: token})
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMaintenanceModeGate(t *testing.T) {
	a := newTestAPI(t)
	admin := a.signIn(t, "admin", "123456")
	reader := a.signIn(t, "student1", "student1")

	w := a.do(t, http.MethodPut, "/api/v1/settings", admin, map[string]interface{}{
		"daily_fine_rate":  "0.5",
		"max_borrow_limit": 10,
		"announcement":     "Inventory week",
		"maintenance_mode": true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = a.do(t, http.MethodPost, "/api/v1/signin", "", model.UserSigninRequest{Username: "student2", Password: "student2"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	a.signIn(t, "admin", "123456")

	// Tokens issued before the switch keep working.
	w = a.do(t, http.MethodGet, "/api/v1/books", reader, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(t, http.MethodGet, "/api/v1/announcement", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var announcement model.Announcement
	decode(t, w, &announcement)
	assert.Equal(t, "Inventory week", announcement.Text)
	assert.True(t, announcement.MaintenanceMode)
}

func TestAccessControl(t *testing.T) {
	a := newTestAPI(t)
	reader := a.signIn(t, "student1", "student1")
	admin := a.signIn(t, "admin", "123456")

	assert.Equal(t, http.StatusUnauthorized, a.do(t, http.MethodGet, "/api/v1/books", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, a.do(t, http.MethodGet, "/api/v1/books", "garbage", nil).Code)
	assert.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/api/v1/books", reader, nil).Code)

	for _, path := range []string{"/api/v1/settings", "/api/v1/users", "/api/v1/dashboard"} {
		assert.Equal(t, http.StatusForbidden, a.do(t, http.MethodGet, path, reader, nil).Code, path)
		assert.Equal(t, http.StatusOK, a.do(t, http.MethodGet, path, admin, nil).Code, path)
	}

	book := model.BookCreateRequest{Title: "Dune", Author: "Frank Herbert"}
	assert.Equal(t, http.StatusForbidden, a.do(t, http.MethodPost, "/api/v1/books", reader, book).Code)
	assert.Equal(t, http.StatusForbidden, a.do(t, http.MethodPut, "/api/v1/books/2001", reader, book).Code)
	assert.Equal(t, http.StatusCreated, a.do(t, http.MethodPost, "/api/v1/books", admin, book).Code)
}

func TestFrozenUserTokenIsRejected(t *testing.T) {
	a := newTestAPI(t)
	reader := a.signIn(t, "student2", "student2")
	admin := a.signIn(t, "admin", "123456")

	w := a.do(t, http.MethodPut, "/api/v1/users/1002", admin, map[string]string{"status": "frozen"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, a.do(t, http.MethodGet, "/api/v1/me", reader, nil).Code)
}

func TestBorrowAndReturn(t *testing.T) {
	a := newTestAPI(t)
	reader := a.signIn(t, "2023001", "123456")

	w := a.do(t, http.MethodPost, "/api/v1/borrow", reader, model.BorrowRequest{BookID: 2001, UserID: 1001})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var record model.BorrowRecord
	decode(t, w, &record)
	// Readers always borrow for themselves.
	assert.Equal(t, int32(1003), record.UserID)
	assert.Equal(t, record.BorrowDate.Add(model.LoanPeriod), record.DueDate)

	w = a.do(t, http.MethodPost, "/api/v1/borrow", reader, model.BorrowRequest{BookID: 2001})
	assert.Equal(t, http.StatusConflict, w.Code)
	w = a.do(t, http.MethodPost, "/api/v1/borrow", reader, model.BorrowRequest{BookID: 9999})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(t, http.MethodGet, "/api/v1/records", reader, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var records []*model.BorrowRecordView
	decode(t, w, &records)
	require.Len(t, records, 1)
	assert.Equal(t, "Database System Concepts", records[0].BookTitle)

	assert.Equal(t, http.StatusForbidden, a.do(t, http.MethodPost, "/api/v1/records/5001/return", reader, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodPost, "/api/v1/records/4242/return", reader, nil).Code)

	path := fmt.Sprintf("/api/v1/records/%d/return", record.ID)
	assert.Equal(t, http.StatusOK, a.do(t, http.MethodPost, path, reader, nil).Code)
	assert.Equal(t, http.StatusConflict, a.do(t, http.MethodPost, path, reader, nil).Code)
}

func TestAdminBorrowsForReader(t *testing.T) {
	a := newTestAPI(t)
	admin := a.signIn(t, "admin", "123456")

	w := a.do(t, http.MethodPost, "/api/v1/borrow", admin, model.BorrowRequest{BookID: 2001, UserID: 1005})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(t, http.MethodPost, "/api/v1/borrow", admin, model.BorrowRequest{BookID: 2001, UserID: 1004})
	require.Equal(t, http.StatusCreated, w.Code)

	w = a.do(t, http.MethodGet, "/api/v1/records?user_id=1004", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var records []*model.BorrowRecordView
	decode(t, w, &records)
	require.Len(t, records, 1)
	assert.Equal(t, "Prof. Chen", records[0].UserName)

	w = a.do(t, http.MethodGet, "/api/v1/records?open=true", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &records)
	assert.Len(t, records, 4)
}

func TestReservations(t *testing.T) {
	a := newTestAPI(t)
	zhang := a.signIn(t, "student1", "student1")
	li := a.signIn(t, "student2", "student2")

	assert.Equal(t, http.StatusConflict, a.do(t, http.MethodPost, "/api/v1/reservations", zhang, model.ReservationRequest{BookID: 2005}).Code)
	assert.Equal(t, http.StatusCreated, a.do(t, http.MethodPost, "/api/v1/reservations", li, model.ReservationRequest{BookID: 2002}).Code)

	w := a.do(t, http.MethodGet, "/api/v1/reservations", li, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []*model.Reservation
	decode(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, int32(2002), list[0].BookID)

	assert.Equal(t, http.StatusForbidden, a.do(t, http.MethodDelete, "/api/v1/reservations/6001", li, nil).Code)
	assert.Equal(t, http.StatusOK, a.do(t, http.MethodDelete, "/api/v1/reservations/6001", zhang, nil).Code)
	assert.Equal(t, http.StatusConflict, a.do(t, http.MethodDelete, "/api/v1/reservations/6001", zhang, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodDelete, "/api/v1/reservations/4242", zhang, nil).Code)
}

func TestReviews(t *testing.T) {
	a := newTestAPI(t)
	reader := a.signIn(t, "student2", "student2")

	assert.Equal(t, http.StatusBadRequest, a.do(t, http.MethodPost, "/api/v1/books/2003/reviews", reader, model.ReviewCreateRequest{Rating: 9}).Code)
	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodPost, "/api/v1/books/9999/reviews", reader, model.ReviewCreateRequest{Rating: 3}).Code)
	assert.Equal(t, http.StatusCreated, a.do(t, http.MethodPost, "/api/v1/books/2003/reviews", reader, model.ReviewCreateRequest{Rating: 3, Content: "Long."}).Code)

	w := a.do(t, http.MethodGet, "/api/v1/books/2003/reviews", reader, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var reviews []*model.Review
	decode(t, w, &reviews)
	require.Len(t, reviews, 2)
	assert.Equal(t, "Li Si", reviews[0].UserName)

	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodGet, "/api/v1/books/9999/reviews", reader, nil).Code)
}

func TestBooks(t *testing.T) {
	a := newTestAPI(t)
	reader := a.signIn(t, "student1", "student1")
	admin := a.signIn(t, "admin", "123456")

	w := a.do(t, http.MethodGet, "/api/v1/books?q=three&status=borrowed", reader, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var books []*model.Book
	decode(t, w, &books)
	require.Len(t, books, 1)
	assert.Equal(t, int32(2005), books[0].ID)

	assert.Equal(t, http.StatusBadRequest, a.do(t, http.MethodGet, "/api/v1/books?status=stolen", reader, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodGet, "/api/v1/books/9999", reader, nil).Code)

	update := model.BookCreateRequest{Title: "Introduction to Algorithms", Author: "Thomas H. Cormen", Status: model.BookStatusLost}
	assert.Equal(t, http.StatusConflict, a.do(t, http.MethodPut, "/api/v1/books/2002", admin, update).Code)
	update.Status = model.BookStatusBorrowed
	assert.Equal(t, http.StatusBadRequest, a.do(t, http.MethodPut, "/api/v1/books/2001", admin, update).Code)

	w = a.do(t, http.MethodGet, "/api/v1/categories", reader, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["Computer Science","Literature","Science Fiction"]`, w.Body.String())
}

func TestUsersAdministration(t *testing.T) {
	a := newTestAPI(t)
	admin := a.signIn(t, "admin", "123456")

	create := model.UserCreateRequest{Username: "student1", Password: "secret1", Name: "Copy"}
	assert.Equal(t, http.StatusConflict, a.do(t, http.MethodPost, "/api/v1/users", admin, create).Code)

	create.Username = "sunqi"
	w := a.do(t, http.MethodPost, "/api/v1/users", admin, create)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "password_hash")
	a.signIn(t, "sunqi", "secret1")

	w = a.do(t, http.MethodGet, "/api/v1/users?status=frozen", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password_hash")
	var users []*model.User
	decode(t, w, &users)
	require.Len(t, users, 1)

	assert.Equal(t, http.StatusConflict, a.do(t, http.MethodDelete, "/api/v1/users/1001", admin, nil).Code)
	assert.Equal(t, http.StatusBadRequest, a.do(t, http.MethodDelete, "/api/v1/users/1", admin, nil).Code)
	assert.Equal(t, http.StatusNoContent, a.do(t, http.MethodDelete, "/api/v1/users/1004", admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodDelete, "/api/v1/users/1004", admin, nil).Code)
}

func TestMe(t *testing.T) {
	a := newTestAPI(t)
	reader := a.signIn(t, "zhaoliu", "123456")

	w := a.do(t, http.MethodGet, "/api/v1/me", reader, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password_hash")
	var me meResponse
	decode(t, w, &me)
	assert.Equal(t, "zhaoliu", me.User.Username)
	assert.Equal(t, 1, me.Summary.OverdueLoans)
	// 5004 was due 2024-11-30, 72 days before 2025-02-10.
	assert.True(t, decimal.NewFromInt(36).Equal(me.Summary.TotalFine), me.Summary.TotalFine.String())

	w = a.do(t, http.MethodPut, "/api/v1/me", reader, map[string]string{"contact": "zhaoliu@library.edu"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "zhaoliu@library.edu"))

	assert.Equal(t, http.StatusUnauthorized, a.do(t, http.MethodPost, "/api/v1/me/password", reader, model.PasswordChangeRequest{OldPassword: "x", NewPassword: "newpass"}).Code)
	assert.Equal(t, http.StatusNoContent, a.do(t, http.MethodPost, "/api/v1/me/password", reader, model.PasswordChangeRequest{OldPassword: "123456", NewPassword: "newpass"}).Code)
	a.signIn(t, "zhaoliu", "newpass")
}

func TestDashboard(t *testing.T) {
	a := newTestAPI(t)
	admin := a.signIn(t, "admin", "123456")

	w := a.do(t, http.MethodGet, "/api/v1/dashboard", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var dashboard model.Dashboard
	decode(t, w, &dashboard)
	assert.Equal(t, 5, dashboard.TotalBooks)
	assert.Equal(t, 3, dashboard.ActiveLoans)
	assert.Len(t, dashboard.OverdueRecords, 2)
	assert.True(t, decimal.RequireFromString("56.5").Equal(dashboard.OutstandingFine), dashboard.OutstandingFine.String())
}

func TestSettingsValidation(t *testing.T) {
	a := newTestAPI(t)
	admin := a.signIn(t, "admin", "123456")

	w := a.do(t, http.MethodPut, "/api/v1/settings", admin, map[string]interface{}{"daily_fine_rate": -1, "max_borrow_limit": 5})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = a.do(t, http.MethodPut, "/api/v1/settings", admin, map[string]interface{}{"daily_fine_rate": 1, "max_borrow_limit": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	r := httptest.NewRequest(http.MethodPut, "/api/v1/settings", strings.NewReader("{"))
	r.Header.Set("Authorization", "Bearer "+admin)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPreflightSkipsAuthentication(t *testing.T) {
	a := newTestAPI(t)
	w := a.do(t, http.MethodOptions, "/api/v1/books", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestAdminPathMatching(t *testing.T) {
	assert.True(t, isOnlyForAdminAllowedPath(http.MethodGet, "/api/v1/users"))
	assert.True(t, isOnlyForAdminAllowedPath(http.MethodDelete, "/api/v1/users/12"))
	assert.True(t, isOnlyForAdminAllowedPath(http.MethodPut, "/api/v1/books/12"))
	assert.False(t, isOnlyForAdminAllowedPath(http.MethodGet, "/api/v1/books/12"))
	assert.False(t, isOnlyForAdminAllowedPath(http.MethodPost, "/api/v1/books/12/reviews"))
	assert.True(t, isUnauthorizeAllowed("/api/v1/announcement"))
	assert.False(t, isUnauthorizeAllowed("/api/v1/me"))
}
