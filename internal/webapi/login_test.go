package webapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apierr "degiro-trader/internal/errors"
	"degiro-trader/internal/totp"
)

const testSecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newLoginServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithClock(fixedClock(time.Unix(59, 0).UTC())),
	)
	return srv, c
}

func TestLoginSuccess(t *testing.T) {
	var gotPayload map[string]interface{}
	_, c := newLoginServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/login/secure/login" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Fatalf("decoding payload: %v", err)
		}
		http.SetCookie(w, &http.Cookie{Name: SessionCookieName, Value: "abc123"})
		json.NewEncoder(w).Encode(map[string]interface{}{"status": 0, "sessionId": "abc123"})
	})

	sess, err := c.Login(context.Background(), Credentials{Username: "user", Password: "pw"}, nil)
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if !sess.HasSessionID() {
		t.Error("session id not set after login")
	}
	if sess.SessionID() != "abc123" {
		t.Errorf("session id = %q, want abc123", sess.SessionID())
	}

	if gotPayload["username"] != "user" {
		t.Errorf("payload username = %v", gotPayload["username"])
	}
	if gotPayload["isRedirectToMobile"] != false {
		t.Errorf("payload isRedirectToMobile = %v", gotPayload["isRedirectToMobile"])
	}
	qp, _ := gotPayload["queryParams"].(map[string]interface{})
	if qp["reason"] != "session_expired" {
		t.Errorf("payload queryParams = %v", gotPayload["queryParams"])
	}
}

func TestLoginTOTPChallenge(t *testing.T) {
	expectedCode, err := totp.Generate(testSecret, time.Unix(59, 0).UTC())
	if err != nil {
		t.Fatalf("deriving expected code: %v", err)
	}

	var calls []string
	_, c := newLoginServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.Path)
		switch r.URL.Path {
		case "/login/secure/login":
			http.SetCookie(w, &http.Cookie{Name: "challenge", Value: "token"})
			json.NewEncoder(w).Encode(map[string]interface{}{"status": 6, "statusText": "totpNeeded"})
		case "/login/secure/login/totp":
			// The challenge request replays the first response's cookies.
			if cookie, err := r.Cookie("challenge"); err != nil || cookie.Value != "token" {
				t.Error("challenge request missing first-response cookie")
			}
			var payload map[string]interface{}
			json.NewDecoder(r.Body).Decode(&payload)
			if payload["oneTimePassword"] != expectedCode {
				t.Errorf("oneTimePassword = %v, want %s", payload["oneTimePassword"], expectedCode)
			}
			http.SetCookie(w, &http.Cookie{Name: SessionCookieName, Value: "after-totp"})
			json.NewEncoder(w).Encode(map[string]interface{}{"status": 0, "sessionId": "after-totp"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	sess, err := c.Login(context.Background(), Credentials{
		Username:   "user",
		Password:   "pw",
		TOTPSecret: testSecret,
	}, nil)
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if sess.SessionID() != "after-totp" {
		t.Errorf("session id = %q", sess.SessionID())
	}
	if len(calls) != 2 {
		t.Errorf("expected 2 calls, got %v", calls)
	}
}

func TestLoginChallengeWithoutCredential(t *testing.T) {
	var calls int
	_, c := newLoginServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(map[string]interface{}{"status": 6, "statusText": "totpNeeded"})
	})

	_, err := c.Login(context.Background(), Credentials{Username: "user", Password: "pw"}, nil)
	if !errors.Is(err, apierr.ErrMissingChallengeCredential) {
		t.Fatalf("expected ErrMissingChallengeCredential, got %v", err)
	}
	// The challenge endpoint is never called without a credential to answer it.
	if calls != 1 {
		t.Errorf("expected exactly 1 call, got %d", calls)
	}
}

func TestLoginMissingSessionCookie(t *testing.T) {
	_, c := newLoginServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"status": 0, "sessionId": "abc"})
	})

	_, err := c.Login(context.Background(), Credentials{Username: "user", Password: "pw"}, nil)
	if !errors.Is(err, apierr.ErrNoSessionID) {
		t.Fatalf("expected ErrNoSessionID, got %v", err)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	_, c := newLoginServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{"status": 3, "statusText": "badCredentials"})
	})

	_, err := c.Login(context.Background(), Credentials{Username: "user", Password: "wrong"}, nil)
	if !errors.Is(err, apierr.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginServerError(t *testing.T) {
	_, c := newLoginServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{"status": 0, "statusText": "internal"})
	})

	_, err := c.Login(context.Background(), Credentials{Username: "user", Password: "pw"}, nil)
	var statusErr *apierr.APIStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected APIStatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("status code = %d", statusErr.StatusCode)
	}
}

func TestGetConfigAndClientInfo(t *testing.T) {
	var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login/secure/login":
			http.SetCookie(w, &http.Cookie{Name: SessionCookieName, Value: "sid"})
			json.NewEncoder(w).Encode(map[string]interface{}{"status": 0})
		case "/login/secure/config":
			json.NewEncoder(w).Encode(map[string]interface{}{"data": map[string]interface{}{
				"sessionId":  "sid",
				"clientId":   42,
				"tradingUrl": "https://trading.example.com/",
			}})
		case "/pa/secure/client":
			if r.URL.Query().Get("sessionId") != "sid" {
				t.Error("client-info call missing sessionId parameter")
			}
			json.NewEncoder(w).Encode(map[string]interface{}{"data": map[string]interface{}{
				"id":         42,
				"intAccount": 123456,
				"username":   "user",
			}})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	sess, err := c.Login(context.Background(), Credentials{Username: "user", Password: "pw"}, nil)
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := c.GetConfig(context.Background(), sess); err != nil {
		t.Fatalf("GetConfig failed: %v", err)
	}
	if sess.Config.ClientID != 42 {
		t.Errorf("config clientId = %d", sess.Config.ClientID)
	}

	if err := c.GetClientInfo(context.Background(), sess); err != nil {
		t.Fatalf("GetClientInfo failed: %v", err)
	}
	if sess.Client.IntAccount != 123456 {
		t.Errorf("intAccount = %d", sess.Client.IntAccount)
	}
	if !sess.Ready() {
		t.Error("session should be ready after both enrichment steps")
	}
}

func TestGetClientInfoRequiresLogin(t *testing.T) {
	c := NewClient()
	err := c.GetClientInfo(context.Background(), NewSession())
	if !errors.Is(err, apierr.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}
