package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/erazemk/najdeno/internal/db"
	"github.com/erazemk/najdeno/internal/lostfound"
	"github.com/erazemk/najdeno/internal/session"
)

const testJWTSecret = "test-secret"

// fakeRemote plays the lost-and-found service for the page handlers. It
// records every request it sees so tests can assert what went over the wire.
type fakeRemote struct {
	mu       sync.Mutex
	requests []string

	lostItems  []map[string]any
	foundItems []map[string]any
}

func (f *fakeRemote) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func (f *fakeRemote) handler() http.Handler {
	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(v)
	}

	findItem := func(items []map[string]any, id string) map[string]any {
		for _, item := range items {
			if item["itemId"] == id {
				return item
			}
		}
		return nil
	}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != "password" {
			w.WriteHeader(http.StatusUnauthorized)
			writeJSON(w, map[string]string{"message": "Invalid credentials"})
			return
		}
		writeJSON(w, map[string]string{
			"userId": "u-" + creds.Email, "firstName": "Ana",
			"lastName": "Novak", "email": creds.Email,
		})
	})

	mux.HandleFunc("GET /auth", func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("userId")
		writeJSON(w, map[string]string{
			"userId": userID, "firstName": "Bojan",
			"lastName": "Kralj", "email": userID + "@example.com",
		})
	})
	mux.HandleFunc("GET /lost", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, f.lostItems)
	})
	mux.HandleFunc("GET /found", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, f.foundItems)
	})
	mux.HandleFunc("GET /lost/{id}", func(w http.ResponseWriter, r *http.Request) {
		item := findItem(f.lostItems, r.PathValue("id"))
		if item == nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeJSON(w, item)
	})
	mux.HandleFunc("GET /found/{id}", func(w http.ResponseWriter, r *http.Request) {
		item := findItem(f.foundItems, r.PathValue("id"))
		if item == nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeJSON(w, item)
	})
	mux.HandleFunc("POST /found/{id}/claim", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"message": "claimed"})
	})
	mux.HandleFunc("POST /lost/{id}/claim", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"message": "claimed"})
	})
	mux.HandleFunc("GET /lost/{id}/claims", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]string{})
	})
	mux.HandleFunc("GET /found/{id}/claims", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]string{})
	})
	mux.HandleFunc("DELETE /lost/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"message": "deleted"})
	})
	mux.HandleFunc("DELETE /found/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"message": "deleted"})
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.Method+" "+r.URL.Path)
		f.mu.Unlock()
		mux.ServeHTTP(w, r)
	})
}

// setupWebServer wires the page router against a fake remote service and an
// in-memory session store. The returned client keeps cookies and does not
// follow redirects, so tests can assert on Location headers.
func setupWebServer(t *testing.T, remote *fakeRemote) (*httptest.Server, *http.Client) {
	t.Helper()

	remoteSrv := httptest.NewServer(remote.handler())
	t.Cleanup(remoteSrv.Close)

	database := db.NewTestDB(t)
	sessions := session.New(database)

	router, err := NewRouter(lostfound.New(remoteSrv.URL), sessions, testJWTSecret)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return server, newBrowser(t)
}

func newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func postForm(t *testing.T, client *http.Client, target string, form url.Values) *http.Response {
	t.Helper()
	resp, err := client.Post(target, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("POST %s: %v", target, err)
	}
	return resp
}

func login(t *testing.T, client *http.Client, serverURL, email string) {
	t.Helper()
	resp := postForm(t, client, serverURL+"/login", url.Values{
		"email":    {email},
		"password": {"password"},
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("login: expected redirect, got %d", resp.StatusCode)
	}
}

func lostItem(id, owner, name string) map[string]any {
	return map[string]any{
		"itemId": id, "userId": owner, "itemName": name,
		"description": "", "lostLocation": "FRI",
		"lostDate": "2025-03-01T10:00:00Z", "imageUrl": "",
		"founderUserIds": []string{},
	}
}

func foundItem(id, owner, name string) map[string]any {
	return map[string]any{
		"itemId": id, "userId": owner, "itemName": name,
		"description": "", "foundLocation": "FE",
		"foundDate": "2025-03-02T10:00:00Z", "imageUrl": "",
		"claimerUserIds": []string{},
	}
}

func TestAnonymousRedirectedToLogin(t *testing.T) {
	server, client := setupWebServer(t, &fakeRemote{})

	for _, path := range []string{"/report", "/dashboard"} {
		resp, err := client.Get(server.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusSeeOther {
			t.Errorf("%s: expected redirect, got %d", path, resp.StatusCode)
		}
		want := "/login?return=" + url.QueryEscape(path)
		if loc := resp.Header.Get("Location"); loc != want {
			t.Errorf("%s: expected redirect to %q, got %q", path, want, loc)
		}
	}
}

func TestAnonymousClaimRedirectsWithoutRemoteRequest(t *testing.T) {
	remote := &fakeRemote{}
	server, client := setupWebServer(t, remote)

	resp := postForm(t, client, server.URL+"/items/item-1/claim", url.Values{"kind": {"found"}})
	resp.Body.Close()

	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", resp.StatusCode)
	}
	if seen := remote.seen(); len(seen) != 0 {
		t.Errorf("expected no remote requests, got %v", seen)
	}
}

func TestLoginStartsSession(t *testing.T) {
	server, client := setupWebServer(t, &fakeRemote{})

	login(t, client, server.URL, "ana@example.com")

	resp, err := client.Get(server.URL + "/dashboard")
	if err != nil {
		t.Fatalf("GET /dashboard: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected dashboard after login, got %d", resp.StatusCode)
	}
}

func TestLoginRejectionShowsServiceMessage(t *testing.T) {
	server, client := setupWebServer(t, &fakeRemote{})

	resp := postForm(t, client, server.URL+"/login", url.Values{
		"email":    {"ana@example.com"},
		"password": {"wrong"},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected re-rendered form, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "Invalid credentials") {
		t.Error("expected the service's rejection message on the page")
	}
}

func TestLogoutInvalidatesOtherViews(t *testing.T) {
	server, first := setupWebServer(t, &fakeRemote{})
	login(t, first, server.URL, "ana@example.com")

	// A second browser view sharing the same session cookie.
	second := newBrowser(t)
	serverAddr, _ := url.Parse(server.URL)
	second.Jar.SetCookies(serverAddr, first.Jar.Cookies(serverAddr))

	resp, err := second.Get(server.URL + "/dashboard")
	if err != nil {
		t.Fatalf("GET /dashboard: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("second view should be signed in, got %d", resp.StatusCode)
	}

	// Logout in the first view deletes the shared session row.
	resp = postForm(t, first, server.URL+"/logout", nil)
	resp.Body.Close()

	// The second view's cookie still holds a valid JWT, but the session it
	// names is gone.
	resp, err = second.Get(server.URL + "/dashboard")
	if err != nil {
		t.Fatalf("GET /dashboard after logout: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected redirect to login after logout elsewhere, got %d", resp.StatusCode)
	}
}

func TestItemDetailNotFound(t *testing.T) {
	remote := &fakeRemote{}
	server, client := setupWebServer(t, remote)

	resp, err := client.Get(server.URL + "/items/no-such-item")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}

	// Both collections must have been probed before giving up.
	seen := remote.seen()
	if len(seen) != 2 || seen[0] != "GET /lost/no-such-item" || seen[1] != "GET /found/no-such-item" {
		t.Errorf("expected both probes, got %v", seen)
	}
}

func TestItemDetailShowsClaimAction(t *testing.T) {
	remote := &fakeRemote{
		foundItems: []map[string]any{foundItem("item-1", "owner-1", "Modri dežnik")},
	}
	server, client := setupWebServer(t, remote)
	login(t, client, server.URL, "ana@example.com")

	resp, err := client.Get(server.URL + "/items/item-1")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "Modri dežnik") {
		t.Error("expected the item name on the page")
	}
	if !strings.Contains(string(body), "/items/item-1/claim") {
		t.Error("expected the claim form for a signed-in non-owner")
	}
}

func TestOwnerSeesClaimantContacts(t *testing.T) {
	item := lostItem("item-1", "u-ana@example.com", "Torba")
	item["founderUserIds"] = []string{"claimant-1"}
	remote := &fakeRemote{lostItems: []map[string]any{item}}

	server, client := setupWebServer(t, remote)
	login(t, client, server.URL, "ana@example.com")

	resp, err := client.Get(server.URL + "/items/item-1")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "claimant-1@example.com") {
		t.Error("expected the claimant's contact email on the owner's page")
	}
	if !strings.Contains(string(body), "Bojan Kralj") {
		t.Error("expected the claimant's name on the owner's page")
	}
}

func TestClaimSubmitRedirectsWithFlash(t *testing.T) {
	remote := &fakeRemote{
		foundItems: []map[string]any{foundItem("item-1", "owner-1", "Dežnik")},
	}
	server, client := setupWebServer(t, remote)
	login(t, client, server.URL, "ana@example.com")

	resp := postForm(t, client, server.URL+"/items/item-1/claim", url.Values{"kind": {"found"}})
	resp.Body.Close()

	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/items/item-1?ok=claimed" {
		t.Errorf("unexpected redirect target %q", loc)
	}

	var claimed bool
	for _, req := range remote.seen() {
		if req == "POST /found/item-1/claim" {
			claimed = true
		}
	}
	if !claimed {
		t.Error("expected the claim to reach the service")
	}
}

func TestReportWithoutImageMakesNoRemoteRequest(t *testing.T) {
	remote := &fakeRemote{}
	server, client := setupWebServer(t, remote)
	login(t, client, server.URL, "ana@example.com")
	before := len(remote.seen())

	body, contentType := multipartForm(t, map[string]string{
		"kind": "lost", "name": "Ključi", "date": "2025-03-01",
	})
	resp, err := client.Post(server.URL+"/report", contentType, body)
	if err != nil {
		t.Fatalf("POST /report: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected re-rendered form, got %d", resp.StatusCode)
	}
	if after := len(remote.seen()); after != before {
		t.Errorf("expected no remote requests for an invalid report, saw %d", after-before)
	}
}

func TestDeleteRequiresOwnership(t *testing.T) {
	remote := &fakeRemote{
		lostItems: []map[string]any{lostItem("item-1", "owner-1", "Torba")},
	}
	server, client := setupWebServer(t, remote)
	login(t, client, server.URL, "ana@example.com")

	resp := postForm(t, client, server.URL+"/items/item-1/delete", url.Values{"kind": {"lost"}})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for non-owner delete, got %d", resp.StatusCode)
	}
	for _, req := range remote.seen() {
		if strings.HasPrefix(req, "DELETE ") {
			t.Errorf("deletion must not reach the service: %v", req)
		}
	}
}

func TestOwnerCanDelete(t *testing.T) {
	remote := &fakeRemote{
		lostItems: []map[string]any{lostItem("item-1", "u-ana@example.com", "Torba")},
	}
	server, client := setupWebServer(t, remote)
	login(t, client, server.URL, "ana@example.com")

	resp := postForm(t, client, server.URL+"/items/item-1/delete", url.Values{
		"kind": {"lost"}, "action": {"resolve"},
	})
	resp.Body.Close()

	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/dashboard" {
		t.Errorf("expected redirect to dashboard, got %q", loc)
	}

	var deleted bool
	for _, req := range remote.seen() {
		if req == "DELETE /lost/item-1" {
			deleted = true
		}
	}
	if !deleted {
		t.Error("expected the deletion to reach the service")
	}
}

func TestHomePageSurvivesRemoteOutage(t *testing.T) {
	remote := &fakeRemote{}
	remoteSrv := httptest.NewServer(remote.handler())
	remoteSrv.Close() // unreachable service

	database := db.NewTestDB(t)
	router, err := NewRouter(lostfound.New(remoteSrv.URL), session.New(database), testJWTSecret)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected the page to render with a notice, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "ni mogoče naložiti") {
		t.Error("expected an outage notice on the page")
	}
}

func multipartForm(t *testing.T, fields map[string]string) (io.Reader, string) {
	t.Helper()
	var buf strings.Builder
	const boundary = "testboundary"
	for key, value := range fields {
		fmt.Fprintf(&buf, "--%s\r\nContent-Disposition: form-data; name=%q\r\n\r\n%s\r\n", boundary, key, value)
	}
	fmt.Fprintf(&buf, "--%s--\r\n", boundary)
	return strings.NewReader(buf.String()), "multipart/form-data; boundary=" + boundary
}
