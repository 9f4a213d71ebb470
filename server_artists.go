package main

import (
	"context"
	"net/http"
	"slices"
	"strconv"
)

func (s *server) getArtists(w http.ResponseWriter, r *http.Request) {
	artists, err := s.db.GetArtists(r.Context())
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, err)
		return
	}

	s.renderJSON(w, http.StatusOK, keyedObject[*Artist](artists))
}

func (s *server) getArtist(w http.ResponseWriter, r *http.Request) {
	id := extractID(r)
	artist, err := s.db.GetArtist(r.Context(), id)
	if err != nil {
		s.lookupFailed(w, r, err)
		return
	}

	albums, err := s.artistAlbums(r.Context(), id)
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, err)
		return
	}

	s.renderJSON(w, http.StatusOK, artistDetails{Artist: artist, Albums: albums})
}

func (s *server) postArtist(w http.ResponseWriter, r *http.Request) {
	body := bodyFromContext(r.Context())

	id := s.artistIDs.Next()
	artist := &Artist{
		Key:      strconv.FormatInt(id, 10),
		ArtistID: intValue(id),
		Name:     body.Field("name"),
	}

	err := s.db.PutArtist(r.Context(), artist)
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, err)
		return
	}

	s.renderJSON(w, http.StatusCreated, artist)
}

func (s *server) putArtist(w http.ResponseWriter, r *http.Request) {
	artist, err := s.db.GetArtist(r.Context(), extractID(r))
	if err != nil {
		s.lookupFailed(w, r, err)
		return
	}

	artist.Name = bodyFromContext(r.Context()).Field("name")
	err = s.db.PutArtist(r.Context(), artist)
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, err)
		return
	}

	s.renderJSON(w, http.StatusOK, artistUpdate{Artist: artist, UpdatedAt: s.timestamp()})
}

// deleteArtist leaves the artist's albums in place.
func (s *server) deleteArtist(w http.ResponseWriter, r *http.Request) {
	artist, err := s.db.GetArtist(r.Context(), extractID(r))
	if err != nil {
		s.lookupFailed(w, r, err)
		return
	}

	err = s.db.DeleteArtist(r.Context(), artist.Key)
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, err)
		return
	}

	s.renderJSON(w, http.StatusOK, message{Message: "Successfully deleted"})
}

func (s *server) getArtistAlbums(w http.ResponseWriter, r *http.Request) {
	id := extractID(r)
	_, err := s.db.GetArtist(r.Context(), id)
	if err != nil {
		s.lookupFailed(w, r, err)
		return
	}

	albums, err := s.artistAlbums(r.Context(), id)
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, err)
		return
	}

	s.renderJSON(w, http.StatusOK, albums)
}

func (s *server) postArtistAlbum(w http.ResponseWriter, r *http.Request) {
	id := extractID(r)
	_, err := s.db.GetArtist(r.Context(), id)
	if err != nil {
		s.lookupFailed(w, r, err)
		return
	}

	albumID := s.albumIDs.Next()
	album := &Album{
		Key:      strconv.FormatInt(albumID, 10),
		AlbumID:  intValue(albumID),
		Name:     bodyFromContext(r.Context()).Field("name"),
		ArtistID: stringValue(id),
	}

	err = s.db.PutAlbum(r.Context(), album)
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, err)
		return
	}

	s.renderJSON(w, http.StatusCreated, album)
}

func (s *server) getArtistSongs(w http.ResponseWriter, r *http.Request) {
	id := extractID(r)
	_, err := s.db.GetArtist(r.Context(), id)
	if err != nil {
		s.lookupFailed(w, r, err)
		return
	}

	albums, err := s.artistAlbums(r.Context(), id)
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, err)
		return
	}

	songs, err := s.db.GetSongs(r.Context())
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, err)
		return
	}

	songs = filter(songs, func(song *Song) bool {
		return slices.ContainsFunc(albums, func(album *Album) bool {
			return album.AlbumID.strictEquals(song.AlbumID)
		})
	})
	s.renderJSON(w, http.StatusOK, songs)
}

// artistAlbums scans every album for those whose artistId matches the key.
func (s *server) artistAlbums(ctx context.Context, artistKey string) ([]*Album, error) {
	albums, err := s.db.GetAlbums(ctx)
	if err != nil {
		return nil, err
	}

	return filter(albums, func(album *Album) bool {
		return album.ArtistID.looseEquals(artistKey)
	}), nil
}
