package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/fwojciec/villages"
	"github.com/gorilla/mux"
)

func (s *Server) registerSubmitRoutes(r *mux.Router) {
	r.HandleFunc("/scrape-html", s.handleScrape).Methods(http.MethodPost)
}

type scrapeRequest struct {
	HTML *string `json:"html"`
}

// handleScrape extracts the pasted page and merges its records.
func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	if s.Limiter != nil && !s.Limiter.Allow(clientKey(r)) {
		w.Header().Set("Retry-After", "1")
		s.Error(w, r, villages.Errorf(villages.ETOOMANY, "Too many submissions, retry shortly."))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.MaxBodySize)

	html, err := readPastedHTML(r)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	sub, err := s.Submitter.Submit(r.Context(), html)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	if sub.Villages == nil {
		sub.Villages = []*villages.Record{}
	}

	writeJSON(w, http.StatusOK, sub)
}

// readPastedHTML reads the page from a JSON body {"html": "..."} or from the
// html or htmlInput field of a form post.
func readPastedHTML(r *http.Request) (string, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		mediaType = "application/json"
	}

	switch mediaType {
	case "application/json":
		var req scrapeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", bodyError(err)
		}
		if req.HTML == nil {
			return "", villages.Errorf(villages.EINVALID, "Field html is required.")
		}
		return *req.HTML, nil

	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(DefaultMaxBodySize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return "", bodyError(err)
		}
		for _, field := range []string{"html", "htmlInput"} {
			if v, ok := r.PostForm[field]; ok && len(v) > 0 {
				return v[0], nil
			}
		}
		return "", villages.Errorf(villages.EINVALID, "Field html is required.")

	default:
		return "", villages.Errorf(villages.EINVALID, "Unsupported content type %q.", mediaType)
	}
}

func bodyError(err error) error {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return villages.Errorf(villages.EINVALID, "Request body exceeds %d bytes.", maxErr.Limit)
	case errors.Is(err, io.EOF):
		return villages.Errorf(villages.EINVALID, "Request body is empty.")
	default:
		return villages.Errorf(villages.EINVALID, "Invalid request body: %v", err)
	}
}
