package http

import (
	"context"
	"errors"
	"net/http"

	"debtplan/internal/log"
	"debtplan/internal/services"
)

type ownerKey struct{}

func withOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, ownerKey{}, owner)
}

// ownerFrom returns the authenticated owner. Only handlers wrapped by
// authed may call it.
func ownerFrom(r *http.Request) string {
	owner, _ := r.Context().Value(ownerKey{}).(string)
	return owner
}

// authed rejects requests without a valid bearer token and stores the
// token's owner in the request context.
func (s *Server) authed(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			w.Header().Set("WWW-Authenticate", `Bearer realm="debtplan"`)
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
			return
		}
		owner, err := s.auth.ParseToken(token)
		if err != nil {
			w.Header().Set("WWW-Authenticate", `Bearer realm="debtplan", error="invalid_token"`)
			writeError(w, r, err)
			return
		}

		ctx := withOwner(r.Context(), owner)
		logger := log.FromContext(ctx).With(log.FieldOwner, owner)
		next.ServeHTTP(w, r.WithContext(log.WithLogger(ctx, logger)))
	})
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := s.auth.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	log.FromContext(r.Context()).WithComponent(log.ComponentAuth).InfoContext(r.Context(), "User registered",
		log.FieldOwner, u.ID)
	w.Header().Set("Location", "/api/me")
	writeJSON(w, http.StatusCreated, newUserResponse(u))
}

func (s *Server) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	token, expires, err := s.auth.IssueToken(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.FromContext(r.Context()).WithComponent(log.ComponentAuth).WarnContext(r.Context(), "Rejected credentials",
				"username", req.Username)
		}
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token, ExpiresAt: expires.UTC()})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, err := s.auth.User(r.Context(), ownerFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(u))
}
