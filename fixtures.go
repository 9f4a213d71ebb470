package main

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
)

var (
	//go:embed seeds/*.json
	seedsFS embed.FS
)

const (
	artistsFixture = "artists.json"
	albumsFixture  = "albums.json"
	songsFixture   = "songs.json"
)

// defaultFixtures returns the seed documents compiled into the binary.
func defaultFixtures() fs.FS {
	sub, err := fs.Sub(seedsFS, "seeds")
	if err != nil {
		panic(err)
	}
	return sub
}

// loadFixtures seeds the database from the three fixture documents in fsys.
// Each document is a JSON object of records keyed by id.
func loadFixtures(ctx context.Context, db *database, fsys fs.FS) error {
	var artists map[string]*Artist
	if err := readFixture(fsys, artistsFixture, &artists); err != nil {
		return err
	}
	var albums map[string]*Album
	if err := readFixture(fsys, albumsFixture, &albums); err != nil {
		return err
	}
	var songs map[string]*Song
	if err := readFixture(fsys, songsFixture, &songs); err != nil {
		return err
	}

	for key, artist := range artists {
		if artist == nil {
			continue
		}
		artist.Key = key
		if err := db.PutArtist(ctx, artist); err != nil {
			return fmt.Errorf("seeding artist %s: %w", key, err)
		}
	}
	for key, album := range albums {
		if album == nil {
			continue
		}
		album.Key = key
		if err := db.PutAlbum(ctx, album); err != nil {
			return fmt.Errorf("seeding album %s: %w", key, err)
		}
	}
	for key, song := range songs {
		if song == nil {
			continue
		}
		song.Key = key
		if err := db.PutSong(ctx, song); err != nil {
			return fmt.Errorf("seeding song %s: %w", key, err)
		}
	}

	slog.Info("loaded fixtures", "artists", len(artists), "albums", len(albums), "songs", len(songs))
	return nil
}

func readFixture(fsys fs.FS, name string, v any) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("reading fixture %s: %w", name, err)
	}
	err = json.Unmarshal(raw, v)
	if err != nil {
		return fmt.Errorf("decoding fixture %s: %w", name, err)
	}
	return nil
}
