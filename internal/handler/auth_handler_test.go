package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/caretrack/internal/model"
)

// --- モック ---

type mockAuthService struct {
	signupFn         func(ctx context.Context, email, password string) (*model.User, *model.AuthSession, error)
	loginFn          func(ctx context.Context, email, password string) (*model.User, *model.AuthSession, error)
	logoutFn         func(ctx context.Context, sessionID string) error
	getCurrentUserFn func(ctx context.Context, sessionID string) (*model.User, error)
}

func (m *mockAuthService) Signup(ctx context.Context, email, password string) (*model.User, *model.AuthSession, error) {
	return m.signupFn(ctx, email, password)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*model.User, *model.AuthSession, error) {
	return m.loginFn(ctx, email, password)
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, sessionID)
	}
	return nil
}

func (m *mockAuthService) GetCurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	return m.getCurrentUserFn(ctx, sessionID)
}

func testAuthUser() *model.User {
	return &model.User{
		ID:                   "user-1",
		Email:                "player@example.com",
		PortalHash:           "abc123de",
		EggStatus:            model.EggStatusNone,
		EggSessionsRemaining: 10,
	}
}

func testAuthSession() *model.AuthSession {
	return &model.AuthSession{
		ID:        "sess-1",
		UserID:    "user-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func findCookie(t *testing.T, resp *http.Response, name string) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func decodeErrorResponse(t *testing.T, resp *http.Response) apiErrorResponse {
	t.Helper()
	var body apiErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return body
}

// --- Signup ---

func TestSignup_Success_SetsSessionCookie(t *testing.T) {
	service := &mockAuthService{
		signupFn: func(ctx context.Context, email, password string) (*model.User, *model.AuthSession, error) {
			return testAuthUser(), testAuthSession(), nil
		},
	}
	h := NewAuthHandler(service, AuthHandlerConfig{SessionMaxAge: 86400})

	payload := `{"email":"player@example.com","password":"secret123","password_confirm":"secret123"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBufferString(payload))
	w := httptest.NewRecorder()

	h.Signup(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	cookie := findCookie(t, resp, "session_id")
	if cookie == nil {
		t.Fatal("session cookie should be set")
	}
	if cookie.Value != "sess-1" {
		t.Errorf("cookie value = %q, want sess-1", cookie.Value)
	}
	if !cookie.HttpOnly {
		t.Error("session cookie should be HttpOnly")
	}

	var body userResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Email != "player@example.com" {
		t.Errorf("email = %q, want player@example.com", body.Email)
	}
	if body.EggStatus != "none" {
		t.Errorf("egg_status = %q, want none", body.EggStatus)
	}
}

func TestSignup_PasswordMismatch_Returns400(t *testing.T) {
	service := &mockAuthService{
		signupFn: func(ctx context.Context, email, password string) (*model.User, *model.AuthSession, error) {
			t.Fatal("service should not be called")
			return nil, nil, nil
		},
	}
	h := NewAuthHandler(service, AuthHandlerConfig{})

	payload := `{"email":"player@example.com","password":"secret123","password_confirm":"different"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBufferString(payload))
	w := httptest.NewRecorder()

	h.Signup(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
	if body := decodeErrorResponse(t, resp); body.Code != model.ErrCodePasswordMismatch {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodePasswordMismatch)
	}
}

func TestSignup_DuplicateEmail_Returns409(t *testing.T) {
	service := &mockAuthService{
		signupFn: func(ctx context.Context, email, password string) (*model.User, *model.AuthSession, error) {
			return nil, nil, model.NewDuplicateEmailError()
		},
	}
	h := NewAuthHandler(service, AuthHandlerConfig{})

	payload := `{"email":"player@example.com","password":"secret123","password_confirm":"secret123"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBufferString(payload))
	w := httptest.NewRecorder()

	h.Signup(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusConflict)
	}
	if body := decodeErrorResponse(t, resp); body.Code != model.ErrCodeDuplicateEmail {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeDuplicateEmail)
	}
}

func TestSignup_WeakPassword_Returns400(t *testing.T) {
	service := &mockAuthService{
		signupFn: func(ctx context.Context, email, password string) (*model.User, *model.AuthSession, error) {
			return nil, nil, model.NewWeakPasswordError()
		},
	}
	h := NewAuthHandler(service, AuthHandlerConfig{})

	payload := `{"email":"player@example.com","password":"12345","password_confirm":"12345"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBufferString(payload))
	w := httptest.NewRecorder()

	h.Signup(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestSignup_InvalidJSON_Returns400(t *testing.T) {
	service := &mockAuthService{}
	h := NewAuthHandler(service, AuthHandlerConfig{})

	req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBufferString("{invalid"))
	w := httptest.NewRecorder()

	h.Signup(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
}

// --- Login ---

func TestLogin_Success_SetsSessionCookie(t *testing.T) {
	service := &mockAuthService{
		loginFn: func(ctx context.Context, email, password string) (*model.User, *model.AuthSession, error) {
			return testAuthUser(), testAuthSession(), nil
		},
	}
	h := NewAuthHandler(service, AuthHandlerConfig{SessionMaxAge: 86400})

	payload := `{"email":"player@example.com","password":"secret123"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(payload))
	w := httptest.NewRecorder()

	h.Login(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if cookie := findCookie(t, resp, "session_id"); cookie == nil || cookie.Value != "sess-1" {
		t.Error("session cookie should be set")
	}
}

func TestLogin_InvalidCredentials_Returns401(t *testing.T) {
	service := &mockAuthService{
		loginFn: func(ctx context.Context, email, password string) (*model.User, *model.AuthSession, error) {
			return nil, nil, model.NewInvalidCredentialsError()
		},
	}
	h := NewAuthHandler(service, AuthHandlerConfig{})

	payload := `{"email":"player@example.com","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(payload))
	w := httptest.NewRecorder()

	h.Login(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
	if body := decodeErrorResponse(t, resp); body.Code != model.ErrCodeInvalidCredentials {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeInvalidCredentials)
	}
}

func TestLogin_MissingFields_SameResponseAsBadCredentials(t *testing.T) {
	service := &mockAuthService{
		loginFn: func(ctx context.Context, email, password string) (*model.User, *model.AuthSession, error) {
			t.Fatal("service should not be called")
			return nil, nil, nil
		},
	}
	h := NewAuthHandler(service, AuthHandlerConfig{})

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"email":"player@example.com"}`))
	w := httptest.NewRecorder()

	h.Login(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
	if body := decodeErrorResponse(t, resp); body.Code != model.ErrCodeInvalidCredentials {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeInvalidCredentials)
	}
}

// --- Logout ---

func TestLogout_ClearsSessionCookie(t *testing.T) {
	var loggedOutSession string
	service := &mockAuthService{
		logoutFn: func(ctx context.Context, sessionID string) error {
			loggedOutSession = sessionID
			return nil
		},
	}
	h := NewAuthHandler(service, AuthHandlerConfig{})

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-1"})
	w := httptest.NewRecorder()

	h.Logout(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
	if loggedOutSession != "sess-1" {
		t.Errorf("logged out session = %q, want sess-1", loggedOutSession)
	}

	cookie := findCookie(t, resp, "session_id")
	if cookie == nil {
		t.Fatal("clearing cookie should be set")
	}
	if cookie.MaxAge != -1 {
		t.Errorf("cookie MaxAge = %d, want -1", cookie.MaxAge)
	}
}

func TestLogout_NoCookie_StillSucceeds(t *testing.T) {
	service := &mockAuthService{}
	h := NewAuthHandler(service, AuthHandlerConfig{})

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	w := httptest.NewRecorder()

	h.Logout(w, req)

	if w.Result().StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusNoContent)
	}
}

// --- Me ---

func TestMe_ReturnsCurrentUser(t *testing.T) {
	service := &mockAuthService{
		getCurrentUserFn: func(ctx context.Context, sessionID string) (*model.User, error) {
			if sessionID == "sess-1" {
				return testAuthUser(), nil
			}
			return nil, model.NewUserNotFoundError()
		},
	}
	h := NewAuthHandler(service, AuthHandlerConfig{})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-1"})
	w := httptest.NewRecorder()

	h.Me(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var body userResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.ID != "user-1" {
		t.Errorf("id = %q, want user-1", body.ID)
	}
}

func TestMe_NoSession_Returns401(t *testing.T) {
	service := &mockAuthService{}
	h := NewAuthHandler(service, AuthHandlerConfig{})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()

	h.Me(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}
