package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/villages"
	"github.com/gorilla/mux"
)

func (s *Server) registerRecordRoutes(r *mux.Router) {
	r.HandleFunc("/extracted_villages.json", s.handleRecordList).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/records", s.handleRecordList).Methods(http.MethodGet)
	api.HandleFunc("/records", s.handleRecordDelete).Methods(http.MethodDelete)
}

// handleRecordList writes every stored record as a JSON array.
// The body hash is sent as an ETag so pollers can skip unchanged listings.
func (s *Server) handleRecordList(w http.ResponseWriter, r *http.Request) {
	records, err := s.RecordService.FindRecords(r.Context())
	if err != nil {
		s.Error(w, r, storeUnavailable(err))
		return
	}
	if records == nil {
		records = []*villages.Record{}
	}

	body, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		s.Error(w, r, err)
		return
	}

	etag := fmt.Sprintf(`"%x"`, xxhash.Sum64(body))
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// handleRecordDelete empties the store.
func (s *Server) handleRecordDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.Merger.Reset(r.Context()); err != nil {
		s.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
