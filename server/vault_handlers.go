package server

import (
	"html/template"
	"net/http"

	"github.com/jrsteele09/go-vault-server/passwordgen"
	"github.com/jrsteele09/go-vault-server/users"
	"github.com/jrsteele09/go-vault-server/vault"
)

type savePasswordRequest struct {
	Website  string `json:"website"`
	Password string `json:"password"`
}

type savePasswordResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

type verifyPasswordResponse struct {
	Match bool `json:"match"`
}

type generatePasswordRequest struct {
	Format string `json:"format"`
}

type generatePasswordResponse struct {
	Password string `json:"password"`
}

func (s *Server) SavePasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := sessionEmail(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		var req savePasswordRequest
		if err := parseJSON(w, r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}

		receipt, err := s.vault.SavePassword(r.Context(), owner, req.Website, req.Password)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, savePasswordResponse{Message: "Password saved successfully", ID: receipt.ID})
	}
}

func (s *Server) GetPasswordsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := sessionEmail(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		entries, err := s.vault.ListPasswords(r.Context(), owner)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, entries)
	}
}

func (s *Server) VerifyPasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := sessionEmail(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		var req savePasswordRequest
		if err := parseJSON(w, r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}

		match, err := s.vault.VerifyPassword(r.Context(), owner, req.Website, req.Password)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, verifyPasswordResponse{Match: match})
	}
}

func (s *Server) GeneratePasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generatePasswordRequest
		if err := parseJSON(w, r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}

		password, err := passwordgen.Generate(req.Format)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, generatePasswordResponse{Password: password})
	}
}

// displayData feeds templates/display.html
type displayData struct {
	AppName string
	User    *users.User
	Entries []vault.EntryView
}

// DisplayHandler renders the caller's profile and vault entries as HTML
func (s *Server) DisplayHandler() (http.HandlerFunc, error) {
	tmpl, err := ParseTemplate("display.html")
	if err != nil {
		return nil, err
	}

	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := sessionEmail(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		user, err := s.auth.Profile(r.Context(), owner)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		entries, err := s.vault.ListPasswords(r.Context(), owner)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		s.renderHTML(w, r, tmpl, displayData{AppName: s.config.GetAppName(), User: user, Entries: entries})
	}, nil
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

func (s *Server) renderHTML(w http.ResponseWriter, r *http.Request, tmpl *template.Template, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("template render failed")
	}
}
