package api

import (
	"encoding/json"
	"net/http"

	"phonedeal-be/internal/geo"
	"phonedeal-be/internal/mapsync"
	"phonedeal-be/internal/store"
	"phonedeal-be/internal/transport"
)

type locateRequest struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Granted bool    `json:"granted"`
}

type sessionView struct {
	Session string            `json:"session"`
	State   string            `json:"state"`
	Query   string            `json:"query"`
	Center  geo.Point         `json:"center"`
	Stores  []store.BestOffer `json:"stores,omitempty"`
	Batch   *mapsync.Batch    `json:"batch,omitempty"`
}

func (h *Handler) session(r *http.Request) (string, *mapsync.Session) {
	id := transport.SessionFrom(r.Context())
	return id, h.sessions.Get(id, mapsync.ParseQuery(r.URL.Query()))
}

func (h *Handler) writeSession(w http.ResponseWriter, id string, s *mapsync.Session, stores []store.BestOffer) {
	q := s.QueryState()
	v := sessionView{
		Session: id,
		State:   s.State().String(),
		Query:   q.Encode().Encode(),
		Center:  q.Scope.Center,
		Stores:  stores,
	}
	if b, ok := s.Widget.Latest(); ok {
		v.Batch = &b
	}
	writeOK(w, http.StatusOK, v)
}

func (h *Handler) GetMapSession(w http.ResponseWriter, r *http.Request) {
	id := transport.SessionFrom(r.Context())
	s, ok := h.sessions.Lookup(id)
	if !ok {
		writeError(w, http.StatusNotFound, CodeNotFound, "no map session")
		return
	}
	h.writeSession(w, id, s, nil)
}

// LocateMapSession reports the browser's geolocation outcome. A denied or
// failed lookup centers the session on the default location.
func (h *Handler) LocateMapSession(w http.ResponseWriter, r *http.Request) {
	var in locateRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid JSON body")
		return
	}

	id, s := h.session(r)
	res, err := s.Locate(r.Context(), geo.Point{Lat: in.Lat, Lng: in.Lng}, in.Granted)
	if err != nil {
		h.searchFailed(w, r, err)
		return
	}
	h.writeSession(w, id, s, res)
}

func (h *Handler) MoveMapSession(w http.ResponseWriter, r *http.Request) {
	var vp mapsync.Viewport
	if err := json.NewDecoder(r.Body).Decode(&vp); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid JSON body")
		return
	}
	if !vp.Valid() {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "viewport center, ne and sw are required")
		return
	}

	id, s := h.session(r)
	res, err := s.OnViewportChanged(r.Context(), vp)
	if err != nil {
		h.searchFailed(w, r, err)
		return
	}
	h.writeSession(w, id, s, res)
}

// QueryMapSession applies URL state (radius, filters and toggles) to the
// session in a single pass.
func (h *Handler) QueryMapSession(w http.ResponseWriter, r *http.Request) {
	id, s := h.session(r)
	res, err := s.ApplyQuery(r.Context(), mapsync.ParseQuery(r.URL.Query()))
	if err != nil {
		h.searchFailed(w, r, err)
		return
	}
	h.writeSession(w, id, s, res)
}
