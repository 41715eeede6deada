package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth Routes
	RouteSignup      = "/signup"
	RouteGenerateOTP = "/generate-otp"
	RouteLogin       = "/login"
	RouteLogout      = "/logout"

	// Vault Routes
	RouteSavePassword     = "/save-password"
	RouteGetPasswords     = "/get-passwords"
	RouteVerifyPassword   = "/verify-password"
	RouteGeneratePassword = "/generate-password"
	RouteDisplay          = "/display"

	// Operational Routes
	RouteHealth = "/health"
)

// sessionCookieName carries the session token for browser clients
const sessionCookieName = "session_id"
