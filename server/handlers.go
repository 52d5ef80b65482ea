package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/jrsteele09/go-session-tokens/authsession"
	"github.com/jrsteele09/go-session-tokens/authsession/cookie"
	"github.com/jrsteele09/go-session-tokens/tokenstore"
)

const contentTypeJSON = "application/json; charset=utf-8"

// LoginHandler establishes the cookie session from a bearer JWT assertion.
// The assertion is signed with the shared session secret (HS256); its claims
// become the session's principal. This stands in for whatever real login
// flow issues the session in production.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawToken, err := bearerToken(r)
		if err != nil {
			writeJSONError(w, "invalid_request", err.Error(), http.StatusBadRequest)
			return
		}

		claims := jwt.MapClaims{}
		_, err = jwt.ParseWithClaims(rawToken, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.Errorf("unexpected signing method %q", t.Method.Alg())
			}
			return []byte(s.config.GetSessionSecret()), nil
		})
		if err != nil {
			writeJSONError(w, "invalid_token", "assertion rejected", http.StatusUnauthorized)
			return
		}

		principal := authsession.NewPrincipalFromClaims(claims)
		if principal.Subject == "" {
			writeJSONError(w, "invalid_token", "assertion has no subject", http.StatusUnauthorized)
			return
		}

		session := cookie.NewRequestSession(w, r, s.codec, s.cookieOptions)
		if err := session.SignIn(r.Context(), r.URL.Query().Get("scheme"), principal, authsession.NewProperties()); err != nil {
			log.Error().Err(err).Msg("login: sign in failed")
			writeJSONError(w, "server_error", "could not establish session", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// GetTokensHandler returns the session's token record as oauth2.Token JSON.
func (s *Server) GetTokensHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := s.tokenStore(w, r)
		if err != nil {
			writeJSONError(w, "server_error", err.Error(), http.StatusInternalServerError)
			return
		}

		record, err := store.GetToken(r.Context(), nil, lookupParameters(r))
		if err != nil {
			log.Error().Err(err).Msg("get tokens failed")
			writeJSONError(w, "server_error", "could not read tokens", http.StatusInternalServerError)
			return
		}
		if record == nil {
			writeJSONError(w, "not_found", "no tokens for this session", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", contentTypeJSON)
		_ = json.NewEncoder(w).Encode(record.OAuth2Token())
	}
}

// StoreTokensHandler stores an oauth2.Token JSON payload into the session.
func (s *Server) StoreTokensHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var token oauth2.Token
		if err := json.NewDecoder(r.Body).Decode(&token); err != nil {
			writeJSONError(w, "invalid_request", "malformed token payload", http.StatusBadRequest)
			return
		}
		if token.AccessToken == "" {
			writeJSONError(w, "invalid_request", "access_token is required", http.StatusBadRequest)
			return
		}

		store, err := s.tokenStore(w, r)
		if err != nil {
			writeJSONError(w, "server_error", err.Error(), http.StatusInternalServerError)
			return
		}

		err = store.StoreToken(r.Context(), nil, token.AccessToken, token.Expiry, token.RefreshToken, lookupParameters(r))
		if errors.Is(err, tokenstore.ErrAnonymousSession) {
			writeJSONError(w, "unauthorized", "no authenticated session", http.StatusUnauthorized)
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("store tokens failed")
			writeJSONError(w, "server_error", "could not store tokens", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// ClearTokensHandler removes the session's token entries.
func (s *Server) ClearTokensHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := s.tokenStore(w, r)
		if err != nil {
			writeJSONError(w, "server_error", err.Error(), http.StatusInternalServerError)
			return
		}

		if err := store.ClearToken(r.Context(), nil, lookupParameters(r)); err != nil {
			log.Error().Err(err).Msg("clear tokens failed")
			writeJSONError(w, "server_error", "could not clear tokens", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func lookupParameters(r *http.Request) *tokenstore.Parameters {
	query := r.URL.Query()
	return &tokenstore.Parameters{
		SignInScheme:    query.Get("scheme"),
		Resource:        query.Get("resource"),
		ChallengeScheme: query.Get("challenge_scheme"),
	}
}

func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("missing Authorization header")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", errors.New("invalid Authorization header format")
	}
	return parts[1], nil
}

func writeJSONError(w http.ResponseWriter, errorCode, description string, statusCode int) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             errorCode,
		"error_description": description,
	})
}
