package server

// Route path constants
const (
	RouteSessionLogin  = "/session/login"
	RouteSessionTokens = "/session/tokens"
)

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("POST "+RouteSessionLogin, s.LoginHandler())

	s.RegisterRouteFunc("GET "+RouteSessionTokens, s.GetTokensHandler())
	s.RegisterRouteFunc("POST "+RouteSessionTokens, s.StoreTokensHandler())
	s.RegisterRouteFunc("DELETE "+RouteSessionTokens, s.ClearTokensHandler())
}
