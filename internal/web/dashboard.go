package web

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/najdeno/internal/model"
)

// Dashboard handles GET /dashboard: the signed-in user's own reports. Both
// lists come from one combined fetch that fails as a whole, so the page
// never shows one list while silently missing the other.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	data := &struct {
		PageData
		LostItems  []model.Item
		FoundItems []model.Item
	}{
		PageData: PageData{Title: "Moji predmeti", User: claims},
	}

	items, err := s.Client.FetchUserItems(r.Context(), claims.UserID)
	if err != nil {
		slog.Error("failed to fetch user items", "user", claims.UserID, "error", err)
		data.Error = "Vaših predmetov trenutno ni mogoče naložiti."
		s.Templates.Render(w, "dashboard.html", data)
		return
	}

	for _, item := range items.LostItems {
		data.LostItems = append(data.LostItems, item.Item())
	}
	for _, item := range items.FoundItems {
		data.FoundItems = append(data.FoundItems, item.Item())
	}

	s.Templates.Render(w, "dashboard.html", data)
}
