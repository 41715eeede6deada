package server

import (
	"net/http"
	"time"

	"github.com/jrsteele09/go-vault-server/auth"
	"github.com/jrsteele09/go-vault-server/users"
)

type signupRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Mobile          string `json:"mobile"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	OTP             string `json:"otp"` // sent by the signup form, not checked at registration
}

type signupResponse struct {
	Message string           `json:"message"`
	User    users.PublicUser `json:"user"`
}

type otpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	OTP      string `json:"otp"`
}

type loginResponse struct {
	Message     string           `json:"message"`
	User        users.PublicUser `json:"user"`
	LoggedEmail string           `json:"loggedEmail"`
	Token       string           `json:"token"`
	ExpiresAt   time.Time        `json:"expiresAt"`
}

func (s *Server) SignupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signupRequest
		if err := parseJSON(w, r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}

		user, err := s.auth.Signup(r.Context(), auth.SignupRequest{
			Username:        req.Username,
			Email:           req.Email,
			Mobile:          req.Mobile,
			Password:        req.Password,
			ConfirmPassword: req.ConfirmPassword,
		})
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, signupResponse{Message: "User registered successfully", User: user.Public()})
	}
}

func (s *Server) GenerateOTPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req otpRequest
		if err := parseJSON(w, r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}

		if err := s.auth.RequestOTP(r.Context(), req.Email); err != nil {
			s.writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, messageResponse{Message: "OTP sent successfully"})
	}
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := parseJSON(w, r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}

		result, err := s.auth.Login(r.Context(), req.Email, req.Password, req.OTP)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		s.setSessionCookie(w, r, result.Token, result.ExpiresAt)
		writeJSON(w, http.StatusOK, loginResponse{
			Message:     "Login successful",
			User:        result.User,
			LoggedEmail: result.Email,
			Token:       result.Token,
			ExpiresAt:   result.ExpiresAt,
		})
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.auth.Logout(r.Context(), contextToken(r.Context())); err != nil {
			s.writeError(w, r, err)
			return
		}

		s.clearSessionCookie(w, r)
		writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out"})
	}
}

func (s *Server) setSessionCookie(w http.ResponseWriter, r *http.Request, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
