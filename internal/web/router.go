package web

import (
	"net/http"

	"github.com/erazemk/najdeno/internal/lostfound"
	"github.com/erazemk/najdeno/internal/session"
	webembed "github.com/erazemk/najdeno/web"
)

// NewRouter creates the web page router with all page routes registered.
func NewRouter(client *lostfound.Client, sessions *session.Store, jwtSecret string) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		Client:    client,
		Sessions:  sessions,
		Templates: templates,
		JWTSecret: jwtSecret,
	}

	mux := http.NewServeMux()

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	// Public routes. Listings and detail pages are browsable anonymously;
	// the session middleware only resolves the viewer's identity.
	mux.HandleFunc("GET /{$}", s.HomePage)
	mux.HandleFunc("GET /lost", s.LostItemsPage)
	mux.HandleFunc("GET /found", s.FoundItemsPage)
	mux.HandleFunc("GET /items/{id}", s.ItemDetailPage)

	mux.HandleFunc("GET /login", s.LoginPage)
	mux.HandleFunc("POST /login", s.LoginSubmit)
	mux.HandleFunc("GET /register", s.RegisterPage)
	mux.HandleFunc("POST /register", s.RegisterSubmit)
	mux.HandleFunc("POST /logout", s.Logout)

	mux.HandleFunc("GET /events", s.SessionEvents)

	// Authenticated routes.
	mux.Handle("GET /report", RequireSession(http.HandlerFunc(s.ReportPage)))
	mux.Handle("POST /report", RequireSession(http.HandlerFunc(s.ReportSubmit)))
	mux.Handle("GET /dashboard", RequireSession(http.HandlerFunc(s.Dashboard)))
	mux.Handle("POST /items/{id}/claim", RequireSession(http.HandlerFunc(s.ClaimSubmit)))
	mux.Handle("POST /items/{id}/message", RequireSession(http.HandlerFunc(s.ClaimMessageSubmit)))
	mux.Handle("POST /items/{id}/delete", RequireSession(http.HandlerFunc(s.ItemDeleteSubmit)))

	return SessionMiddleware(jwtSecret, sessions)(mux), nil
}
