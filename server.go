package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"
)

const timestampLayout = "2006-01-02T15:04:05.000Z"

type server struct {
	db     *database
	router chi.Router

	// mu is held for the whole of every request so handlers never interleave.
	mu sync.Mutex

	artistIDs *idAllocator
	albumIDs  *idAllocator
	songIDs   *idAllocator

	now func() time.Time
}

func newServer(db *database) *server {
	s := &server{
		db:        db,
		artistIDs: newIDAllocator(firstAllocatedID),
		albumIDs:  newIDAllocator(firstAllocatedID),
		songIDs:   newIDAllocator(firstAllocatedID),
		now:       time.Now,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(logRequest)
	r.Use(middleware.Recoverer)
	r.Use(decodeBody)
	r.Use(s.matchWholeURL)
	r.Use(s.serialize)

	r.NotFound(s.notFound)
	r.MethodNotAllowed(s.notFound)

	r.Get("/artists", s.getArtists)
	r.Post("/artists", s.postArtist)
	r.Get("/artists/{id}", s.getArtist)
	r.Put("/artists/{id}", s.putArtist)
	r.Delete("/artists/{id}", s.deleteArtist)
	r.Get("/artists/{id}/albums", s.getArtistAlbums)
	r.Post("/artists/{id}/albums", s.postArtistAlbum)
	r.Get("/artists/{id}/songs", s.getArtistSongs)

	r.Get("/albums/{id}", s.getAlbum)
	r.Put("/albums/{id}", s.putAlbum)
	r.Delete("/albums/{id}", s.deleteAlbum)
	r.Get("/albums/{id}/songs", s.getAlbumSongs)
	r.Post("/albums/{id}/songs", s.postAlbumSong)

	r.Get("/trackNumbers/{trackNumber}/songs", s.getTrackNumberSongs)
	r.Get("/songs/{id}", s.getSong)
	r.Put("/songs/{id}", s.putSong)
	r.Delete("/songs/{id}", s.deleteSong)

	s.router = r
	return s
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *server) serialize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

// matchWholeURL sends requests carrying a query string, even an empty one, to
// the not-found fallback: routes match the whole request URL, not just the path.
func (s *server) matchWholeURL(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "" || r.URL.ForceQuery {
			s.notFound(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Info("request", "method", r.Method, "url", r.URL.String(), "request_id", middleware.GetReqID(r.Context()))
		next.ServeHTTP(w, r)
	})
}

// decodeBody buffers and decodes the request body before routing. A body that
// cannot be decoded aborts the request without a response.
func decodeBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := readBody(r)
		if err != nil {
			slog.Error("aborting request", "error", err, "request_id", middleware.GetReqID(r.Context()))
			panic(http.ErrAbortHandler)
		}

		if _, empty := body.(noBody); !empty {
			slog.Debug("request body", "body", body, "request_id", middleware.GetReqID(r.Context()))
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), bodyContextKey{}, body)))
	})
}

// lookupFailed answers with the not-found fallback for missing records and a
// 500 for anything else.
func (s *server) lookupFailed(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.notFound(w, r)
		return
	}
	s.renderError(w, http.StatusInternalServerError, err)
}

func (s *server) timestamp() string {
	return s.now().UTC().Format(timestampLayout)
}

func extractID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

// filter never returns nil so empty results serialize as [].
func filter[T any](records []T, keep func(T) bool) []T {
	out := make([]T, 0, len(records))
	for _, record := range records {
		if keep(record) {
			out = append(out, record)
		}
	}
	return out
}
