package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/najdeno/internal/imaging"
	"github.com/erazemk/najdeno/internal/lostfound"
	"github.com/erazemk/najdeno/internal/model"
)

const maxUploadBytes = 10 << 20

// ReportPage handles GET /report.
func (s *Server) ReportPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "report.html", &PageData{
		Title: "Prijavi predmet",
		User:  GetWebClaims(r.Context()),
	})
}

// ReportSubmit handles POST /report. All preconditions, including the
// mandatory photo, are checked before anything is sent to the service.
func (s *Server) ReportSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	renderError := func(msg string) {
		s.Templates.Render(w, "report.html", &PageData{
			Title: "Prijavi predmet", User: claims, Error: msg,
		})
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		renderError("Slika je prevelika (največ 10 MB).")
		return
	}

	kind := model.Kind(r.FormValue("kind"))
	if !kind.Valid() {
		renderError("Izberite, ali je predmet izgubljen ali najden.")
		return
	}
	name := r.FormValue("name")
	if name == "" {
		renderError("Vnesite ime predmeta.")
		return
	}

	date, err := time.Parse("2006-01-02", r.FormValue("date"))
	if err != nil {
		renderError("Vnesite veljaven datum.")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		renderError("Slika predmeta je obvezna.")
		return
	}
	defer file.Close()

	upload, err := imaging.Prepare(file, header.Filename)
	if err != nil {
		renderError(err.Error())
		return
	}

	err = s.Client.Report(r.Context(), lostfound.ReportParams{
		Kind:        kind,
		UserID:      claims.UserID,
		ItemName:    name,
		Description: r.FormValue("description"),
		Location:    r.FormValue("location"),
		Date:        date,
		Image:       upload.Reader(),
		ImageName:   upload.Filename,
	})
	if err != nil {
		slog.Error("failed to report item", "user", claims.UserID, "error", err)
		renderError(userMessage(err, "Predmeta ni bilo mogoče prijaviti, poskusite znova."))
		return
	}

	slog.Info("item reported", "user", claims.UserID, "kind", kind, "name", name)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
