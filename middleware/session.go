package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ctxKeySessionID struct{}

const (
	SessionHeader = "X-Session-ID"
	SessionCookie = "session_id"

	// SessionTTL is the cookie lifetime and how long idle session state is kept.
	SessionTTL = 48 * time.Hour
)

// Session resolves the caller's session id from the X-Session-ID header or the
// session_id cookie. A new id is minted and set as a cookie when neither exists.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get(SessionHeader)
		if sessionID == "" {
			if c, err := r.Cookie(SessionCookie); err == nil {
				sessionID = c.Value
			}
		}
		if sessionID == "" {
			sessionID = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   int(SessionTTL.Seconds()),
				HttpOnly: true,
			})
		}
		w.Header().Set(SessionHeader, sessionID)
		ctx := context.WithValue(r.Context(), ctxKeySessionID{}, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func SessionID(r *http.Request) string {
	v, _ := r.Context().Value(ctxKeySessionID{}).(string)
	return v
}

// SessionSweeper drops per-session state not used since cutoff.
type SessionSweeper interface {
	Sweep(cutoff time.Time) int
}

// ExpireSessions sweeps state idle for longer than ttl every interval until
// ctx is done.
func ExpireSessions(ctx context.Context, interval, ttl time.Duration, log logrus.FieldLogger, sweepers ...SessionSweeper) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			removed := 0
			for _, s := range sweepers {
				removed += s.Sweep(now.Add(-ttl))
			}
			if removed > 0 {
				log.WithField("removed", removed).Debug("expired idle sessions")
			}
		}
	}
}
