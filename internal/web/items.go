package web

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/erazemk/najdeno/internal/lostfound"
	"github.com/erazemk/najdeno/internal/model"
)

// HomePage handles GET /.
func (s *Server) HomePage(w http.ResponseWriter, r *http.Request) {
	data := &struct {
		PageData
		LostItems  []model.LostItem
		FoundItems []model.FoundItem
	}{
		PageData: PageData{Title: "Najdeno", User: GetWebClaims(r.Context())},
	}

	lost, err := s.Client.ListLost(r.Context(), "")
	if err != nil {
		slog.Error("failed to list lost items for home", "error", err)
		data.Error = "Seznama predmetov trenutno ni mogoče naložiti."
	}
	found, err := s.Client.ListFound(r.Context(), "")
	if err != nil {
		slog.Error("failed to list found items for home", "error", err)
		data.Error = "Seznama predmetov trenutno ni mogoče naložiti."
	}

	// Recent few of each on the landing page.
	if len(lost) > 6 {
		lost = lost[:6]
	}
	if len(found) > 6 {
		found = found[:6]
	}
	data.LostItems = lost
	data.FoundItems = found

	s.Templates.Render(w, "home.html", data)
}

// LostItemsPage handles GET /lost.
func (s *Server) LostItemsPage(w http.ResponseWriter, r *http.Request) {
	items, err := s.Client.ListLost(r.Context(), "")

	data := &struct {
		PageData
		Kind  model.Kind
		Items []model.Item
	}{
		PageData: PageData{Title: "Izgubljeni predmeti", User: GetWebClaims(r.Context())},
		Kind:     model.KindLost,
	}
	if err != nil {
		slog.Error("failed to list lost items", "error", err)
		data.Error = "Seznama ni mogoče naložiti, poskusite znova."
	}
	for _, item := range items {
		data.Items = append(data.Items, item.Item())
	}

	s.Templates.Render(w, "items.html", data)
}

// FoundItemsPage handles GET /found.
func (s *Server) FoundItemsPage(w http.ResponseWriter, r *http.Request) {
	items, err := s.Client.ListFound(r.Context(), "")

	data := &struct {
		PageData
		Kind  model.Kind
		Items []model.Item
	}{
		PageData: PageData{Title: "Najdeni predmeti", User: GetWebClaims(r.Context())},
		Kind:     model.KindFound,
	}
	if err != nil {
		slog.Error("failed to list found items", "error", err)
		data.Error = "Seznama ni mogoče naložiti, poskusite znova."
	}
	for _, item := range items {
		data.Items = append(data.Items, item.Item())
	}

	s.Templates.Render(w, "items.html", data)
}

// ItemDetailPage handles GET /items/{id}. The variant is not known from the
// URL alone, so the item is resolved by probing both collections.
func (s *Server) ItemDetailPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	itemID := r.PathValue("id")

	item, err := s.Client.ResolveItem(r.Context(), itemID)
	if errors.Is(err, lostfound.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		s.Templates.Render(w, "item_notfound.html", &PageData{Title: "Predmet ne obstaja", User: claims})
		return
	}
	if err != nil {
		slog.Error("failed to resolve item", "item", itemID, "error", err)
		w.WriteHeader(http.StatusNotFound)
		s.Templates.Render(w, "item_notfound.html", &PageData{Title: "Predmet ne obstaja", User: claims})
		return
	}

	viewer := viewerID(r.Context())
	action := model.AvailableAction(*item, viewer, claims != nil)

	data := &struct {
		PageData
		Item       model.Item
		Action     model.Action
		IsOwner    bool
		HasClaimed bool
		Claims     []model.Claim
		Claimants  []model.User
	}{
		PageData: PageData{
			Title:    item.ItemName,
			User:     claims,
			Error:    r.URL.Query().Get("err"),
			Success:  flashMessage(r.URL.Query().Get("ok")),
			ReturnTo: r.URL.Path,
		},
		Item:       *item,
		Action:     action,
		IsOwner:    model.IsOwner(*item, viewer),
		HasClaimed: model.HasClaimed(*item, viewer),
	}

	// Claimant contact info is visible to the owner only.
	if data.IsOwner {
		itemClaims, err := s.Client.ItemClaims(r.Context(), item.Kind, item.ItemID)
		if err != nil {
			slog.Error("failed to list claims", "item", item.ItemID, "error", err)
			if data.Error == "" {
				data.Error = "Zahtevkov ni mogoče naložiti."
			}
		}
		data.Claims = itemClaims

		// One-click claims carry the user ID only; look up each profile.
		for _, userID := range item.Claimants {
			user, err := s.Client.GetUser(r.Context(), userID)
			if err != nil {
				slog.Error("failed to fetch claimant profile", "user", userID, "error", err)
				continue
			}
			data.Claimants = append(data.Claimants, *user)
		}
	}

	s.Templates.Render(w, "item_detail.html", data)
}

// ClaimSubmit handles POST /items/{id}/claim, the one-click claim.
func (s *Server) ClaimSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	itemID := r.PathValue("id")
	kind := model.Kind(r.FormValue("kind"))
	if !kind.Valid() {
		http.Error(w, "invalid item kind", http.StatusBadRequest)
		return
	}

	if err := s.Client.ClaimItem(r.Context(), kind, itemID, claims.UserID); err != nil {
		slog.Error("failed to submit claim", "item", itemID, "user", claims.UserID, "error", err)
		redirectDetail(w, r, itemID, "err", userMessage(err, "Zahtevka ni bilo mogoče oddati."))
		return
	}

	slog.Info("claim submitted", "item", itemID, "user", claims.UserID, "kind", kind)
	redirectDetail(w, r, itemID, "ok", "claimed")
}

// ClaimMessageSubmit handles POST /items/{id}/message, the free-text claim
// form. This is a separate operation from the one-click claim.
func (s *Server) ClaimMessageSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	itemID := r.PathValue("id")

	name := r.FormValue("name")
	email := r.FormValue("email")
	message := r.FormValue("message")
	if name == "" {
		name = claims.FullName()
	}
	if email == "" {
		email = claims.Email
	}
	if message == "" {
		redirectDetail(w, r, itemID, "err", "Sporočilo ne sme biti prazno.")
		return
	}

	if err := s.Client.SubmitClaim(r.Context(), itemID, claims.UserID, name, email, message); err != nil {
		slog.Error("failed to submit claim message", "item", itemID, "user", claims.UserID, "error", err)
		redirectDetail(w, r, itemID, "err", userMessage(err, "Sporočila ni bilo mogoče poslati."))
		return
	}

	slog.Info("claim message submitted", "item", itemID, "user", claims.UserID)
	redirectDetail(w, r, itemID, "ok", "sent")
}

// ItemDeleteSubmit handles POST /items/{id}/delete. "Mark as resolved" and
// "delete" are the same remote deletion; the form's action field only
// changes the label and the log line.
func (s *Server) ItemDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	itemID := r.PathValue("id")
	kind := model.Kind(r.FormValue("kind"))
	if !kind.Valid() {
		http.Error(w, "invalid item kind", http.StatusBadRequest)
		return
	}

	// Recheck ownership against current server state; never trust the form.
	item, err := s.Client.GetItem(r.Context(), kind, itemID)
	if err != nil {
		slog.Error("failed to fetch item before delete", "item", itemID, "error", err)
		redirectDetail(w, r, itemID, "err", "Predmeta ni bilo mogoče izbrisati.")
		return
	}
	if !model.IsOwner(*item, claims.UserID) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	if err := s.Client.DeleteItem(r.Context(), kind, itemID); err != nil {
		slog.Error("failed to delete item", "item", itemID, "error", err)
		redirectDetail(w, r, itemID, "err", userMessage(err, "Predmeta ni bilo mogoče izbrisati."))
		return
	}

	reason := "deleted"
	if r.FormValue("action") == "resolve" {
		reason = "resolved"
	}
	slog.Info("item removed", "item", itemID, "user", claims.UserID, "reason", reason)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// redirectDetail sends the browser back to the detail page with a flash
// parameter.
func redirectDetail(w http.ResponseWriter, r *http.Request, itemID, key, value string) {
	http.Redirect(w, r, "/items/"+url.PathEscape(itemID)+"?"+key+"="+url.QueryEscape(value), http.StatusSeeOther)
}

// flashMessage maps flash codes to user-facing notices.
func flashMessage(code string) string {
	switch code {
	case "claimed":
		return "Zahtevek je oddan. Lastnik vidi vaše kontaktne podatke."
	case "sent":
		return "Sporočilo je poslano."
	default:
		return ""
	}
}

// userMessage surfaces the service's message when it sent one, otherwise
// the fallback.
func userMessage(err error, fallback string) string {
	var reqErr *lostfound.RequestError
	if errors.As(err, &reqErr) && reqErr.Status != 0 && reqErr.Message != "" {
		return reqErr.Message
	}
	return fallback
}
