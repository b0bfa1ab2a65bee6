package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
)

func sessionCookie(rr *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == "session" {
			return c
		}
	}
	return nil
}

func TestSessionCookieFormat(t *testing.T) {
	rr := httptest.NewRecorder()
	CreateSession(rr, 7)
	c := sessionCookie(rr)
	if c == nil {
		t.Fatalf("missing session cookie")
	}
	if !regexp.MustCompile(`^[0-9]+\.[A-Za-z0-9_-]+$`).MatchString(c.Value) {
		t.Fatalf("bad cookie format: %s", c.Value)
	}
	if !c.HttpOnly {
		t.Errorf("cookie should be HttpOnly")
	}
}

func TestSessionRoundTrip(t *testing.T) {
	rr := httptest.NewRecorder()
	CreateSession(rr, 42)
	c := sessionCookie(rr)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	uid, ok := ParseSession(req)
	if !ok || uid != 42 {
		t.Fatalf("ParseSession = (%d, %v), want (42, true)", uid, ok)
	}
}

func TestParseSessionRejectsTampering(t *testing.T) {
	rr := httptest.NewRecorder()
	CreateSession(rr, 42)
	c := sessionCookie(rr)

	// Swap the user id but keep the original signature.
	parts := strings.SplitN(c.Value, ".", 2)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "9999." + parts[1]})
	if _, ok := ParseSession(req); ok {
		t.Fatalf("tampered session accepted")
	}
}

func TestParseSessionRejectsGarbage(t *testing.T) {
	for _, value := range []string{"", "noseparator", "1.2.3", "abc.def"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if value != "" {
			req.AddCookie(&http.Cookie{Name: "session", Value: value})
		}
		if _, ok := ParseSession(req); ok {
			t.Errorf("value %q accepted", value)
		}
	}
}

func TestRequireAuthWithoutSession(t *testing.T) {
	h := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler should not be reached")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestRequireAuthVerifierRejectsDeletedUser(t *testing.T) {
	SetUserVerifier(func(_ context.Context, uid uint) bool { return false })
	defer SetUserVerifier(nil)

	rr := httptest.NewRecorder()
	CreateSession(rr, 42)
	c := sessionCookie(rr)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)

	h := Middleware(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler should not be reached")
	})))
	out := httptest.NewRecorder()
	h.ServeHTTP(out, req)
	if out.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", out.Code)
	}
}
