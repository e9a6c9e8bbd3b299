package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/aura-hq/staffmanager/internal/model"
	"github.com/rs/zerolog"
)

func tempStore(t *testing.T) *SessionStore {
	t.Helper()
	store, err := NewSessionStore(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("NewSessionStore: %v", err)
	}
	return store
}

func writeEnvelope(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"data": data})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"data":  nil,
		"error": map[string]string{"code": code, "message": message},
	})
}

func TestLoginPersistsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		writeEnvelope(w, http.StatusOK, model.AuthResponse{
			Token: "issued-token",
			User:  &model.User{ID: 1, Email: "a@b.c", Role: model.RoleAdmin},
			Capabilities: []model.Capability{
				model.CapLeaveReview, model.CapProfileRead,
			},
		})
	}))
	defer srv.Close()

	store := tempStore(t)
	api := New(srv.URL, store, zerolog.Nop())

	auth, err := api.Login(context.Background(), "a@b.c", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if auth.Token != "issued-token" {
		t.Errorf("token = %q", auth.Token)
	}

	// The session survives a fresh load and drives capability checks.
	state, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if state.Token != "issued-token" {
		t.Errorf("stored token = %q", state.Token)
	}
	if !store.Can(model.CapLeaveReview) {
		t.Error("stored capabilities not honored")
	}
	if store.Can(model.CapSalariesManage) {
		t.Error("capability not granted should not pass")
	}
}

func TestRequestsCarryBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeEnvelope(w, http.StatusOK, []model.Employee{})
	}))
	defer srv.Close()

	store := tempStore(t)
	if err := store.Save(&SessionState{Token: "stored-token"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	api := New(srv.URL, store, zerolog.Nop())
	if _, err := api.ListEmployees(context.Background()); err != nil {
		t.Fatalf("ListEmployees: %v", err)
	}
	if gotAuth != "Bearer stored-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

func TestUnauthorizedTearsDownSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusUnauthorized, "SESSION_INVALIDATED", "session is no longer active")
	}))
	defer srv.Close()

	store := tempStore(t)
	if err := store.Save(&SessionState{Token: "stale-token"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	api := New(srv.URL, store, zerolog.Nop())
	hookFired := false
	api.OnSessionExpired(func() { hookFired = true })

	_, err := api.ListEmployees(context.Background())
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("got %v, want ErrSessionExpired", err)
	}
	if !hookFired {
		t.Error("expiry hook did not fire")
	}
	if _, err := store.Load(); !errors.Is(err, ErrNotLoggedIn) {
		t.Error("session not cleared after 401")
	}
}

func TestAPIErrorDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusConflict, "ALREADY_DECIDED", "request has already been decided")
	}))
	defer srv.Close()

	api := New(srv.URL, tempStore(t), zerolog.Nop())

	_, err := api.DecideLeaveRequest(context.Background(), 7, model.LeaveApproved, "")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("got %T (%v), want *APIError", err, err)
	}
	if apiErr.Code != "ALREADY_DECIDED" || apiErr.Status != http.StatusConflict {
		t.Errorf("decoded %+v", apiErr)
	}
}

func TestCorruptSessionFileTreatedAsLoggedOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	store, err := NewSessionStore(path)
	if err != nil {
		t.Fatalf("NewSessionStore: %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("got %v, want ErrNotLoggedIn", err)
	}
}
