package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	apphttp "seva-booking/internal/http"
	"seva-booking/internal/repository/sqlstore"
	"seva-booking/internal/service"
)

const indexHTML = "<!DOCTYPE html><title>seva</title>"

type testServer struct {
	router *gin.Engine
	store  *sqlstore.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store, err := sqlstore.Open(context.Background(), sqlstore.Options{
		Driver: sqlstore.DriverSQLite,
		Path:   ":memory:",
	}, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	staticDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(staticDir, "index.html"), []byte(indexHTML), 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}
	if err := os.WriteFile(filepath.Join(staticDir, "app.js"), []byte("console.log('seva')"), 0o644); err != nil {
		t.Fatalf("write asset: %v", err)
	}

	router := gin.New()
	handler := apphttp.NewHandler(
		service.NewUserService(sqlstore.NewUserRepository(store)),
		service.NewBookingService(sqlstore.NewBookingRepository(store)),
		store,
		staticDir,
		logger,
	)
	handler.RegisterRoutes(router)

	return &testServer{router: router, store: store}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected status %d, got %d (%s)", status, rec.Code, rec.Body.String())
	}
	if got := decode(t, rec)["error"]; got != message {
		t.Fatalf("expected error %q, got %v", message, got)
	}
}

func register(t *testing.T, s *testServer, fullname, email, password string) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/register", map[string]string{
		"fullname": fullname, "email": email, "password": password,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d (%s)", email, rec.Code, rec.Body.String())
	}
}

func TestRegister(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/register", map[string]string{
		"fullname": "Asha", "email": "asha@example.com", "password": "pw",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got := decode(t, rec)["message"]; got != "Registration successful" {
		t.Fatalf("unexpected message %v", got)
	}

	rec = s.do(t, http.MethodPost, "/api/register", map[string]string{
		"fullname": "Someone", "email": "asha@example.com", "password": "other",
	})
	expectError(t, rec, http.StatusBadRequest, "Email is already registered")
}

func TestRegister_MissingFieldsInsertsNothing(t *testing.T) {
	s := newTestServer(t)

	for _, body := range []any{
		map[string]string{"email": "asha@example.com", "password": "pw"},
		map[string]string{"fullname": "Asha", "password": "pw"},
		map[string]string{"fullname": "Asha", "email": "asha@example.com"},
		map[string]string{"fullname": "Asha", "email": "asha@example.com", "password": ""},
		"{not json",
		nil,
	} {
		rec := s.do(t, http.MethodPost, "/api/register", body)
		expectError(t, rec, http.StatusBadRequest, "All fields are required")
	}

	rec := s.do(t, http.MethodPost, "/api/login", map[string]string{"email": "asha@example.com", "password": "pw"})
	expectError(t, rec, http.StatusUnauthorized, "Invalid email or password")
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	register(t, s, "Asha", "asha@example.com", "pw")

	rec := s.do(t, http.MethodPost, "/api/login", map[string]string{"email": "asha@example.com", "password": "pw"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	if body["message"] != "Login successful" {
		t.Fatalf("unexpected message %v", body["message"])
	}
	user, ok := body["user"].(map[string]any)
	if !ok {
		t.Fatalf("missing user in %v", body)
	}
	if user["email"] != "asha@example.com" || user["fullname"] != "Asha" {
		t.Fatalf("unexpected user %v", user)
	}
	if _, leaked := user["password"]; leaked {
		t.Fatal("password must not be returned")
	}
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	s := newTestServer(t)
	register(t, s, "Asha", "asha@example.com", "pw")

	wrongPassword := s.do(t, http.MethodPost, "/api/login", map[string]string{"email": "asha@example.com", "password": "nope"})
	unknownEmail := s.do(t, http.MethodPost, "/api/login", map[string]string{"email": "ravi@example.com", "password": "pw"})

	expectError(t, wrongPassword, http.StatusUnauthorized, "Invalid email or password")
	expectError(t, unknownEmail, http.StatusUnauthorized, "Invalid email or password")
	if wrongPassword.Body.String() != unknownEmail.Body.String() {
		t.Fatalf("bodies differ: %q vs %q", wrongPassword.Body.String(), unknownEmail.Body.String())
	}
}

func TestBook_WithoutAccount(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/book", map[string]string{
		"email": "ghost@example.com", "seva": "Archana", "date": "2024-01-01",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if got := decode(t, rec)["message"]; got != "Booking confirmed successfully" {
		t.Fatalf("unexpected message %v", got)
	}
}

func TestBook_MissingFields(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/book", map[string]string{"email": "asha@example.com", "seva": "Archana"})
	expectError(t, rec, http.StatusBadRequest, "Missing booking details")
}

func TestListBookings(t *testing.T) {
	s := newTestServer(t)

	for _, date := range []string{"2024-01-01", "2024-03-01"} {
		rec := s.do(t, http.MethodPost, "/api/book", map[string]string{
			"email": "asha@example.com", "seva": "Archana", "date": date,
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("book %s: %d", date, rec.Code)
		}
	}

	rec := s.do(t, http.MethodGet, "/api/bookings/asha@example.com", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list []apphttp.BookingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 bookings, got %d", len(list))
	}
	if list[0].Date != "2024-03-01" || list[1].Date != "2024-01-01" {
		t.Fatalf("unexpected order: %+v", list)
	}
	if list[0].Email != "asha@example.com" || list[0].Seva != "Archana" {
		t.Fatalf("unexpected booking %+v", list[0])
	}
}

func TestListBookings_Empty(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/bookings/nobody@example.com", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Fatalf("expected empty array, got %s", got)
	}
}

func TestStoreFailureMapsTo500(t *testing.T) {
	s := newTestServer(t)
	_ = s.store.Close()

	rec := s.do(t, http.MethodPost, "/api/register", map[string]string{
		"fullname": "Asha", "email": "asha@example.com", "password": "pw",
	})
	expectError(t, rec, http.StatusInternalServerError, "Database error")

	rec = s.do(t, http.MethodPost, "/api/login", map[string]string{"email": "asha@example.com", "password": "pw"})
	expectError(t, rec, http.StatusInternalServerError, "Database error")

	rec = s.do(t, http.MethodGet, "/api/bookings/asha@example.com", nil)
	expectError(t, rec, http.StatusInternalServerError, "Database error")

	rec = s.do(t, http.MethodGet, "/api/health", nil)
	expectError(t, rec, http.StatusInternalServerError, "Database error")
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestFrontendFallback(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/", "/bookings", "/some/deep/route", "/api/unknown"} {
		rec := s.do(t, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
		if rec.Body.String() != indexHTML {
			t.Fatalf("%s: expected index document, got %q", path, rec.Body.String())
		}
	}

	rec := s.do(t, http.MethodGet, "/app.js", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "console.log") {
		t.Fatalf("expected static asset, got %d %q", rec.Code, rec.Body.String())
	}

	rec = s.do(t, http.MethodDelete, "/anything", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unmatched non-GET, got %d", rec.Code)
	}
}

func TestMiddleware_CORSAndRequestID(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/bookings/a@example.com", nil)
	req.Header.Set("Origin", "http://example.org")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard CORS origin, got %q", got)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected generated request id")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("expected propagated request id, got %q", got)
	}
}

func TestListBookings_NonDateValueDoesNotBreakListing(t *testing.T) {
	s := newTestServer(t)

	for _, date := range []string{"2024-01-01", "next friday"} {
		rec := s.do(t, http.MethodPost, "/api/book", map[string]string{
			"email": "asha@example.com", "seva": "Archana", "date": date,
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("book %s: %d", date, rec.Code)
		}
	}

	rec := s.do(t, http.MethodGet, "/api/bookings/asha@example.com", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var list []apphttp.BookingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 bookings, got %+v", list)
	}
	dates := map[string]bool{}
	for _, b := range list {
		dates[b.Date] = true
	}
	if !dates["2024-01-01"] || !dates["next friday"] {
		t.Fatalf("unexpected dates %+v", list)
	}
}

func TestFrontend_IndexPathsAreNotRedirected(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/index.html", "/deep/index.html"} {
		rec := s.do(t, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d (Location %q)", path, rec.Code, rec.Header().Get("Location"))
		}
		if rec.Body.String() != indexHTML {
			t.Fatalf("%s: expected index document, got %q", path, rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Fatalf("%s: unexpected content type %q", path, ct)
		}
	}
}

func TestRegister_ScalarFieldsAreCoerced(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/register",
		`{"fullname":"Asha","email":"asha@example.com","password":12345}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec = s.do(t, http.MethodPost, "/api/login", `{"email":"asha@example.com","password":"12345"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected login with the rendered password, got %d (%s)", rec.Code, rec.Body.String())
	}

	for _, body := range []string{
		`{"fullname":"Asha","email":"ravi@example.com","password":0}`,
		`{"fullname":"Asha","email":"ravi@example.com","password":false}`,
		`{"fullname":"Asha","email":"ravi@example.com","password":null}`,
		`{"fullname":"Asha","email":"ravi@example.com","password":{"x":1}}`,
		`["Asha","ravi@example.com","pw"]`,
	} {
		rec := s.do(t, http.MethodPost, "/api/register", body)
		expectError(t, rec, http.StatusBadRequest, "All fields are required")
	}
}
