// Package apitest provides an in-memory appliance API for tests.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/marmos91/recursive-nfs/pkg/share"
)

// APIPath is the root the fake serves its routes under.
const APIPath = "/api/v2.0"

// Appliance is an in-memory appliance API serving the share, dataset and
// ping routes. It rejects requests without the expected bearer token and
// records every request it receives.
type Appliance struct {
	mu           sync.Mutex
	token        string
	nextID       int
	shares       []share.Share
	datasets     []string
	requests     []string
	createStatus int

	srv *httptest.Server
}

// NewAppliance starts a fake appliance accepting token. It is closed when the
// test ends.
func NewAppliance(t testing.TB, token string) *Appliance {
	t.Helper()
	a := &Appliance{token: token, nextID: 1}

	r := chi.NewRouter()
	r.Route(APIPath, func(r chi.Router) {
		r.Use(a.record, a.auth)
		r.Get("/core/ping", func(w http.ResponseWriter, _ *http.Request) {
			WriteJSON(w, http.StatusOK, "pong")
		})
		r.Get("/pool/dataset", a.listDatasets)
		r.Get("/sharing/nfs", a.listShares)
		r.Post("/sharing/nfs", a.createShare)
		r.Put("/sharing/nfs/id/{id}", a.updateShare)
		r.Delete("/sharing/nfs/id/{id}", a.deleteShare)
	})

	a.srv = httptest.NewServer(r)
	t.Cleanup(a.srv.Close)
	return a
}

// Host returns the server's scheme and authority.
func (a *Appliance) Host() string { return a.srv.URL }

// URL returns the API base URL.
func (a *Appliance) URL() string { return a.srv.URL + APIPath }

// Close stops the server, making the appliance unreachable.
func (a *Appliance) Close() { a.srv.Close() }

// SetDatasets replaces the names returned by GET /pool/dataset.
func (a *Appliance) SetDatasets(names ...string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.datasets = names
}

// AddShare stores s, assigning the next id when s has none, and returns the
// stored record.
func (a *Appliance) AddShare(s share.Share) share.Share {
	a.mu.Lock()
	defer a.mu.Unlock()
	if s.ID == 0 {
		s.ID = a.nextID
	}
	if s.ID >= a.nextID {
		a.nextID = s.ID + 1
	}
	a.shares = append(a.shares, s)
	return s
}

// Shares returns a copy of the stored shares.
func (a *Appliance) Shares() []share.Share {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.shares)
}

// Requests returns every request received as "METHOD /route", relative to
// APIPath.
func (a *Appliance) Requests() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.requests)
}

// Mutations returns the requests that were not GETs.
func (a *Appliance) Mutations() []string {
	var out []string
	for _, r := range a.Requests() {
		if !strings.HasPrefix(r, http.MethodGet+" ") {
			out = append(out, r)
		}
	}
	return out
}

// SetCreateStatus makes POST /sharing/nfs answer with code instead of
// creating the share. Zero restores normal behavior.
func (a *Appliance) SetCreateStatus(code int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.createStatus = code
}

func (a *Appliance) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		a.requests = append(a.requests, r.Method+" "+strings.TrimPrefix(r.URL.Path, APIPath))
		a.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (a *Appliance) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+a.token {
			WriteJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid API key"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *Appliance) listDatasets(w http.ResponseWriter, _ *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	records := make([]map[string]any, 0, len(a.datasets))
	for _, name := range a.datasets {
		records = append(records, map[string]any{"id": name, "name": name, "type": "FILESYSTEM"})
	}
	WriteJSON(w, http.StatusOK, records)
}

func (a *Appliance) listShares(w http.ResponseWriter, _ *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	shares := a.shares
	if shares == nil {
		shares = []share.Share{}
	}
	WriteJSON(w, http.StatusOK, shares)
}

func (a *Appliance) createShare(w http.ResponseWriter, r *http.Request) {
	var req share.ShareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.createStatus != 0 {
		WriteJSON(w, a.createStatus, map[string]string{"message": "rejected by fake"})
		return
	}
	for _, s := range a.shares {
		if s.Path == req.Path {
			WriteJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"sharingnfs_create.path": []map[string]any{{"message": "Export already exists", "errno": 17}},
			})
			return
		}
	}

	created := fromRequest(a.nextID, &req)
	a.nextID++
	a.shares = append(a.shares, created)
	WriteJSON(w, http.StatusOK, created)
}

func (a *Appliance) updateShare(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	var req share.ShareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.index(id)
	if i < 0 {
		WriteJSON(w, http.StatusNotFound, map[string]string{"message": "share not found"})
		return
	}
	a.shares[i] = fromRequest(id, &req)
	WriteJSON(w, http.StatusOK, a.shares[i])
}

func (a *Appliance) deleteShare(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.index(id)
	if i < 0 {
		WriteJSON(w, http.StatusNotFound, map[string]string{"message": "share not found"})
		return
	}
	a.shares = slices.Delete(a.shares, i, i+1)
	WriteJSON(w, http.StatusOK, true)
}

func (a *Appliance) index(id int) int {
	return slices.IndexFunc(a.shares, func(s share.Share) bool { return s.ID == id })
}

func fromRequest(id int, req *share.ShareRequest) share.Share {
	locked := false
	return share.Share{
		ID:           id,
		Path:         req.Path,
		Aliases:      req.Aliases,
		Comment:      req.Comment,
		Hosts:        req.Hosts,
		RO:           req.RO,
		MaprootUser:  req.MaprootUser,
		MaprootGroup: req.MaprootGroup,
		MapallUser:   req.MapallUser,
		MapallGroup:  req.MapallGroup,
		Security:     req.Security,
		Enabled:      req.Enabled,
		Networks:     req.Networks,
		Locked:       &locked,
	}
}

// WriteJSON writes v as a JSON response with status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
