package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *server) getTrackNumberSongs(w http.ResponseWriter, r *http.Request) {
	trackNumber := chi.URLParam(r, "trackNumber")

	songs, err := s.db.GetSongs(r.Context())
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, err)
		return
	}

	songs = filter(songs, func(song *Song) bool {
		return song.TrackNumber.looseEquals(trackNumber)
	})
	s.renderJSON(w, http.StatusOK, songs)
}

// getSong reports the song's raw albumId as its album and resolves no artist
// from it.
func (s *server) getSong(w http.ResponseWriter, r *http.Request) {
	song, err := s.db.GetSong(r.Context(), extractID(r))
	if err != nil {
		s.lookupFailed(w, r, err)
		return
	}

	s.renderJSON(w, http.StatusOK, songDetails{Song: song, Album: song.AlbumID})
}

// putSong answers with the edited song without writing it back.
func (s *server) putSong(w http.ResponseWriter, r *http.Request) {
	id := extractID(r)
	song, err := s.db.GetSong(r.Context(), id)
	if err != nil {
		s.lookupFailed(w, r, err)
		return
	}

	body := bodyFromContext(r.Context())
	s.renderJSON(w, http.StatusOK, songUpdate{
		Name:        body.Field("name"),
		Lyrics:      body.Field("lyrics"),
		TrackNumber: body.Field("trackNumber"),
		SongID:      stringValue(id),
		AlbumID:     song.AlbumID,
		UpdatedAt:   s.timestamp(),
	})
}

func (s *server) deleteSong(w http.ResponseWriter, r *http.Request) {
	song, err := s.db.GetSong(r.Context(), extractID(r))
	if err != nil {
		s.lookupFailed(w, r, err)
		return
	}

	err = s.db.DeleteSong(r.Context(), song.Key)
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, err)
		return
	}

	s.renderJSON(w, http.StatusOK, message{Message: "Successfully deleted"})
}
