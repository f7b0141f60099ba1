package server

// Route path constants
const (
	// Third-party login redirect target
	RouteAuthCallback = "/auth/callback"

	// Session Routes
	RouteSession       = "/session"
	RouteSessionRenew  = "/session/renew"
	RouteSessionLogout = "/session/logout"

	RouteProviders = "/providers"
)
