package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/erazemk/najdeno/internal/auth"
	"github.com/erazemk/najdeno/internal/lostfound"
	"github.com/erazemk/najdeno/internal/model"
)

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "login.html", &PageData{
		Title:    "Prijava",
		ReturnTo: safeReturn(r.URL.Query().Get("return")),
	})
}

// LoginSubmit handles POST /login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")
	returnTo := safeReturn(r.FormValue("return"))

	renderError := func(msg string) {
		s.Templates.Render(w, "login.html", &PageData{
			Title: "Prijava", Error: msg, ReturnTo: returnTo,
		})
	}

	if email == "" || password == "" {
		renderError("Vnesite e-pošto in geslo.")
		return
	}

	user, err := s.Client.Login(r.Context(), lostfound.Credentials{Email: email, Password: password})
	if err != nil {
		var authErr *lostfound.AuthError
		if errors.As(err, &authErr) {
			renderError(authErr.Message)
		} else {
			renderError("Prijava trenutno ni mogoča, poskusite znova.")
		}
		return
	}

	if err := s.startSession(w, r, *user); err != nil {
		slog.Error("failed to start session", "error", err)
		renderError("Napaka pri prijavi.")
		return
	}

	slog.Info("user logged in", "user", user.UserID)
	http.Redirect(w, r, returnTo, http.StatusSeeOther)
}

// RegisterPage handles GET /register.
func (s *Server) RegisterPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "register.html", &PageData{Title: "Registracija"})
}

// RegisterSubmit handles POST /register.
func (s *Server) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	reg := lostfound.Registration{
		FirstName: r.FormValue("first_name"),
		LastName:  r.FormValue("last_name"),
		Email:     r.FormValue("email"),
		Password:  r.FormValue("password"),
	}

	renderError := func(msg string) {
		s.Templates.Render(w, "register.html", &PageData{Title: "Registracija", Error: msg})
	}

	if reg.FirstName == "" || reg.LastName == "" || reg.Email == "" || reg.Password == "" {
		renderError("Izpolnite vsa polja.")
		return
	}

	user, err := s.Client.Register(r.Context(), reg)
	if err != nil {
		var authErr *lostfound.AuthError
		if errors.As(err, &authErr) {
			renderError(authErr.Message)
		} else {
			renderError("Registracija trenutno ni mogoča, poskusite znova.")
		}
		return
	}

	if err := s.startSession(w, r, *user); err != nil {
		slog.Error("failed to start session", "error", err)
		renderError("Napaka pri registraciji.")
		return
	}

	slog.Info("user registered", "user", user.UserID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles POST /logout. Deleting the session row makes every other
// open view drop to anonymous on its next request.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if claims := GetWebClaims(r.Context()); claims != nil {
		if err := s.Sessions.Delete(r.Context(), claims.SessionID); err != nil {
			slog.Error("failed to delete session", "error", err)
		}
	}

	clearAuthCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// startSession stores the session and sets the signed cookie.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request, user model.User) error {
	sid, err := s.Sessions.Create(r.Context(), user)
	if err != nil {
		return err
	}

	token, err := auth.GenerateToken(s.JWTSecret, sid, user.UserID, user.FirstName, user.LastName, user.Email)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(auth.TokenExpiry.Seconds()),
	})
	return nil
}

// safeReturn keeps post-login redirects on this site.
func safeReturn(path string) string {
	if path == "" || !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
		return "/"
	}
	return path
}
