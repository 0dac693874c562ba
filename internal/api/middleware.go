package api

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/safar/nava-store/internal/identity"
)

type sessionKey struct{}

func sessionFrom(ctx context.Context) identity.Session {
	if sess, ok := ctx.Value(sessionKey{}).(identity.Session); ok {
		return sess
	}
	return identity.Session{Actor: identity.Anonymous()}
}

// withSession attaches the caller's session to the request context. Callers
// without a valid cookie get a fresh anonymous session.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sess identity.Session
		if c, err := r.Cookie(s.cookie); err == nil {
			sess, err = s.sessions.Decode(c.Value)
			if err != nil {
				s.logger.Debug("discarding session cookie", zap.Error(err))
			}
		}

		if sess.ID == "" {
			sess = identity.NewSession()
			if err := s.setSession(w, sess); err != nil {
				s.respondErr(w, r, err)
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, sess)))
	})
}

func (s *Server) setSession(w http.ResponseWriter, sess identity.Session) error {
	token, err := s.sessions.Encode(sess)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// guard runs h only when the session actor passes g.
func (s *Server) guard(g identity.Guard, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := g(sessionFrom(r.Context()).Actor); err != nil {
			s.respondErr(w, r, err)
			return
		}
		h(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}
