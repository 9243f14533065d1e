package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestLockerCheckPassesThroughWhenUnlocked(t *testing.T) {
	l := New()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/device-info", nil)

	l.Check(http.HandlerFunc(okHandler)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", rec.Code)
	}
}

func TestLockerCheckReturns423WhenLocked(t *testing.T) {
	l := New()
	l.Lock()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/device-info", nil)

	l.Check(http.HandlerFunc(okHandler)).ServeHTTP(rec, req)

	if rec.Code != http.StatusLocked {
		t.Fatalf("got %d, want 423", rec.Code)
	}
}

func TestLockerCheckAlwaysAllowsLockAndUnlockPaths(t *testing.T) {
	l := New()
	l.Lock()

	for _, path := range []string{"/lock", "/unlock"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, nil)
		l.Check(http.HandlerFunc(okHandler)).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("path %s: got %d, want 200", path, rec.Code)
		}
	}
}

func TestLockerCheckHonorsCustomDoNotProtect(t *testing.T) {
	l := New()
	l.DoNotProtect = append(l.DoNotProtect, "/healthz")
	l.Lock()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	l.Check(http.HandlerFunc(okHandler)).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", rec.Code)
	}
}

func TestLockUnlockLocked(t *testing.T) {
	l := New()
	if l.Locked() {
		t.Fatal("new Locker should start unlocked")
	}
	l.Lock()
	if !l.Locked() {
		t.Fatal("expected Locked() to report true after Lock()")
	}
	l.Unlock()
	if l.Locked() {
		t.Fatal("expected Locked() to report false after Unlock()")
	}
}

func TestHTTPLockAndHTTPUnlockHandlers(t *testing.T) {
	l := New()

	rec := httptest.NewRecorder()
	l.HTTPLock(rec, httptest.NewRequest(http.MethodPost, "/lock", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("HTTPLock: got %d, want 200", rec.Code)
	}
	if !l.Locked() {
		t.Fatal("HTTPLock did not lock")
	}

	rec = httptest.NewRecorder()
	l.HTTPUnlock(rec, httptest.NewRequest(http.MethodPost, "/unlock", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("HTTPUnlock: got %d, want 200", rec.Code)
	}
	if l.Locked() {
		t.Fatal("HTTPUnlock did not unlock")
	}
}
