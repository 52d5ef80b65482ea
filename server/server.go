package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-session-tokens/authsession/cookie"
	"github.com/jrsteele09/go-session-tokens/internal/config"
	"github.com/jrsteele09/go-session-tokens/tokenstore"
)

// Server exposes the session token store over HTTP: a login endpoint that
// establishes the cookie session from a JWT assertion, and token endpoints
// that read, store, and clear tokens inside that session.
type Server struct {
	env           string
	mux           *http.ServeMux
	routes        []string
	config        config.Config
	codec         *cookie.Codec
	cookieOptions cookie.Options
	storeOptions  []tokenstore.Option
}

func New(cfg config.Config, storeOptions ...tokenstore.Option) (*Server, error) {
	codec, err := cookie.NewCodec([]byte(cfg.GetSessionSecret()))
	if err != nil {
		return nil, fmt.Errorf("[server.New] cookie codec: %w", err)
	}

	s := &Server{
		mux:    http.NewServeMux(),
		config: cfg,
		codec:  codec,
		cookieOptions: cookie.Options{
			CookieName:    cfg.GetCookieName(),
			DefaultScheme: cfg.GetDefaultScheme(),
			Lifetime:      cfg.GetSessionLifetime(),
			Secure:        cfg.GetSecureCookies(),
		},
		storeOptions: storeOptions,
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// tokenStore builds the per-request token store over the request's cookie
// session.
func (s *Server) tokenStore(w http.ResponseWriter, r *http.Request) (*tokenstore.Store, error) {
	session := cookie.NewRequestSession(w, r, s.codec, s.cookieOptions)
	return tokenstore.New(session, s.storeOptions...)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			log.Info().Str("method", parts[0]).Str("path", parts[1]).Msg("route")
		} else {
			log.Info().Str("path", parts[0]).Msg("route")
		}
	}
}
