package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
)

const notFoundBody = "Endpoint not found"

func (s *server) renderJSON(w http.ResponseWriter, code int, data any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(data)
	if err != nil {
		slog.Error("encoding json", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, err = w.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	if err != nil {
		slog.Error("serving json", "error", err)
	}
}

func (s *server) renderError(w http.ResponseWriter, code int, reqErr error) {
	slog.Error("serving request", "status", code, "error", reqErr)
	s.renderJSON(w, code, map[string]string{
		"error": reqErr.Error(),
	})
}

// notFound is the fallback for unmatched routes and missing entities. The body
// is plain text even though the content type claims JSON.
func (s *server) notFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(notFoundBody))
}
