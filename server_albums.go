package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"gorm.io/gorm"
)

func (s *server) getAlbum(w http.ResponseWriter, r *http.Request) {
	id := extractID(r)
	album, err := s.db.GetAlbum(r.Context(), id)
	if err != nil {
		s.lookupFailed(w, r, err)
		return
	}

	// A deleted or mismatched artist is left out rather than treated as an error.
	artist, err := s.db.GetArtist(r.Context(), album.ArtistID.propertyKey())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		artist = nil
	} else if err != nil {
		s.renderError(w, http.StatusInternalServerError, err)
		return
	}

	songs, err := s.albumSongs(r.Context(), id)
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, err)
		return
	}

	s.renderJSON(w, http.StatusOK, albumDetails{Album: album, Artist: artist, Songs: songs})
}

func (s *server) putAlbum(w http.ResponseWriter, r *http.Request) {
	album, err := s.db.GetAlbum(r.Context(), extractID(r))
	if err != nil {
		s.lookupFailed(w, r, err)
		return
	}

	album.Name = bodyFromContext(r.Context()).Field("name")
	err = s.db.PutAlbum(r.Context(), album)
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, err)
		return
	}

	s.renderJSON(w, http.StatusOK, albumUpdate{Album: album, UpdatedAt: s.timestamp()})
}

// deleteAlbum leaves the album's songs in place.
func (s *server) deleteAlbum(w http.ResponseWriter, r *http.Request) {
	album, err := s.db.GetAlbum(r.Context(), extractID(r))
	if err != nil {
		s.lookupFailed(w, r, err)
		return
	}

	err = s.db.DeleteAlbum(r.Context(), album.Key)
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, err)
		return
	}

	s.renderJSON(w, http.StatusOK, message{Message: "Successfully deleted"})
}

func (s *server) getAlbumSongs(w http.ResponseWriter, r *http.Request) {
	id := extractID(r)
	_, err := s.db.GetAlbum(r.Context(), id)
	if err != nil {
		s.lookupFailed(w, r, err)
		return
	}

	songs, err := s.albumSongs(r.Context(), id)
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, err)
		return
	}

	s.renderJSON(w, http.StatusOK, songs)
}

// postAlbumSong answers with the new song but never stores it; the song id
// is still consumed.
func (s *server) postAlbumSong(w http.ResponseWriter, r *http.Request) {
	id := extractID(r)
	_, err := s.db.GetAlbum(r.Context(), id)
	if err != nil {
		s.lookupFailed(w, r, err)
		return
	}

	body := bodyFromContext(r.Context())
	songID := s.songIDs.Next()
	song := &Song{
		Key:         strconv.FormatInt(songID, 10),
		SongID:      intValue(songID),
		Name:        body.Field("name"),
		TrackNumber: body.Field("trackNumber"),
		AlbumID:     stringValue(id),
		Lyrics:      body.Field("lyrics"),
	}

	s.renderJSON(w, http.StatusCreated, song)
}

func (s *server) albumSongs(ctx context.Context, albumKey string) ([]*Song, error) {
	songs, err := s.db.GetSongs(ctx)
	if err != nil {
		return nil, err
	}

	return filter(songs, func(song *Song) bool {
		return song.AlbumID.looseEquals(albumKey)
	}), nil
}
