package httpgin

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/flytau/flytau/internal/service"
	"github.com/flytau/flytau/internal/service/auth"
)

// testRouter wires only the auth service; the request-validation paths
// under test never reach the backing stores.
func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	svcs := &service.Services{Auth: testAuthService()}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewRouter(svcs, logger)
}

func doJSON(r *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestHealthz(t *testing.T) {
	w := doJSON(testRouter(), http.MethodGet, "/healthz", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRegisterValidation(t *testing.T) {
	r := testRouter()

	tests := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"bad email", `{"email":"nope","password":"longenough","first_name":"A","last_name":"B"}`},
		{"short password", `{"email":"a@b.com","password":"short","first_name":"A","last_name":"B"}`},
		{"bad birth date", `{"email":"a@b.com","password":"longenough","first_name":"A","last_name":"B","birth_date":"31-12-1990"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/auth/register", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestSearchFlightsRejectsBadDate(t *testing.T) {
	w := doJSON(testRouter(), http.MethodGet, "/flights?date=12-31-2026", "", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid date")
}

func TestCheckoutValidation(t *testing.T) {
	r := testRouter()

	tests := []struct {
		name string
		body string
	}{
		{"no seats", `{"flight_number":"TAU101","seat_codes":[]}`},
		{"missing flight", `{"seat_codes":["1A"]}`},
		{
			"anonymous without guest details",
			`{"flight_number":"TAU101","seat_codes":["1A"],"guest_email":"g@x.com"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/orders", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestAdminRoutesRequireManager(t *testing.T) {
	r := testRouter()

	t.Run("no token", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/admin/dashboard", "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("customer token", func(t *testing.T) {
		token := signTestToken(t, "dana@example.com", auth.RoleCustomer)
		w := doJSON(r, http.MethodGet, "/admin/dashboard", "", token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestMyOrdersRequiresCustomer(t *testing.T) {
	r := testRouter()

	t.Run("no token", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/my/orders", "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("manager token", func(t *testing.T) {
		token := signTestToken(t, "MGR001", auth.RoleManager)
		w := doJSON(r, http.MethodGet, "/my/orders", "", token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestGetOrderRequiresEmailForGuests(t *testing.T) {
	w := doJSON(testRouter(), http.MethodGet, "/orders/ABCD2345", "", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "email required")
}
