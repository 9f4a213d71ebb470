package main

import (
	"bytes"
	"encoding/json"
)

// Artist is stored under Key, the object key it was seeded or created with.
type Artist struct {
	Key      string    `gorm:"column:id;primaryKey" json:"-"`
	ArtistID jsonValue `json:"artistId,omitempty"`
	Name     jsonValue `json:"name,omitempty"`
}

type Album struct {
	Key      string    `gorm:"column:id;primaryKey" json:"-"`
	AlbumID  jsonValue `json:"albumId,omitempty"`
	Name     jsonValue `json:"name,omitempty"`
	ArtistID jsonValue `json:"artistId,omitempty"`
}

type Song struct {
	Key         string    `gorm:"column:id;primaryKey" json:"-"`
	SongID      jsonValue `json:"songId,omitempty"`
	Name        jsonValue `json:"name,omitempty"`
	TrackNumber jsonValue `json:"trackNumber,omitempty"`
	AlbumID     jsonValue `json:"albumId,omitempty"`
	Lyrics      jsonValue `json:"lyrics,omitempty"`
}

func (a *Artist) getKey() string { return a.Key }
func (a *Album) getKey() string  { return a.Key }
func (s *Song) getKey() string   { return s.Key }

type keyed interface {
	getKey() string
}

// keyedObject serializes records as a JSON object keyed by their storage key,
// in slice order.
type keyedObject[T keyed] []T

func (o keyedObject[T]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	for i, record := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(record.getKey()); err != nil {
			return nil, err
		}
		// Encode terminates every value with a newline.
		buf.Truncate(buf.Len() - 1)
		buf.WriteByte(':')
		if err := enc.Encode(record); err != nil {
			return nil, err
		}
		buf.Truncate(buf.Len() - 1)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type artistDetails struct {
	*Artist
	Albums []*Album `json:"albums"`
}

type artistUpdate struct {
	*Artist
	UpdatedAt string `json:"updatedAt"`
}

type albumDetails struct {
	*Album
	Artist *Artist `json:"artist,omitempty"`
	Songs  []*Song `json:"songs"`
}

type albumUpdate struct {
	*Album
	UpdatedAt string `json:"updatedAt"`
}

// songDetails carries the song's raw albumId under "album"; no artist is
// resolved from it.
type songDetails struct {
	*Song
	Album jsonValue `json:"album,omitempty"`
}

type songUpdate struct {
	Name        jsonValue `json:"name,omitempty"`
	Lyrics      jsonValue `json:"lyrics,omitempty"`
	TrackNumber jsonValue `json:"trackNumber,omitempty"`
	SongID      jsonValue `json:"songId,omitempty"`
	AlbumID     jsonValue `json:"albumId,omitempty"`
	UpdatedAt   string    `json:"updatedAt"`
}

type message struct {
	Message string `json:"message"`
}
