package httpapi

import (
	"net/http"
	"sync"
)

// Locker enforces spec.md §5's single-producer-per-session rule at the HTTP
// layer: while a transfer holds the lock, every route but the ones named in
// DoNotProtect answers 423 Locked. Adapted from the teacher's
// server/middleware/locker for chi instead of goji — the middleware
// signature (func(http.Handler) http.Handler) is router-agnostic.
type Locker struct {
	mu           sync.Mutex
	isLocked     bool
	DoNotProtect []string
}

// New returns an unlocked Locker. /lock and /unlock are always excluded from
// the 423 check in addition to whatever the caller appends to DoNotProtect.
func New() *Locker {
	return &Locker{DoNotProtect: []string{"/lock", "/unlock"}}
}

// Lock marks the session busy.
func (l *Locker) Lock() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.isLocked = true
}

// Unlock marks the session free.
func (l *Locker) Unlock() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.isLocked = false
}

// Locked reports whether the session is currently busy.
func (l *Locker) Locked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.isLocked
}

// Check is the 423 middleware: wrap a chi router's top-level Use with it.
func (l *Locker) Check(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.Locked() {
			for _, p := range l.DoNotProtect {
				if r.URL.Path == p {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, "session is locked by another operation", http.StatusLocked)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// HTTPLock is a POST handler that locks l.
func (l *Locker) HTTPLock(w http.ResponseWriter, r *http.Request) {
	l.Lock()
	w.WriteHeader(http.StatusOK)
}

// HTTPUnlock is a POST handler that unlocks l.
func (l *Locker) HTTPUnlock(w http.ResponseWriter, r *http.Request) {
	l.Unlock()
	w.WriteHeader(http.StatusOK)
}
