package main

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDatabase(t *testing.T) *database {
	t.Helper()

	db, err := newDatabase(memoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestDatabaseArtists(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)

	_, err := db.GetArtist(ctx, "1")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, db.PutArtist(ctx, &Artist{Key: "1", ArtistID: intValue(1), Name: stringValue("Muse")}))
	require.NoError(t, db.PutArtist(ctx, &Artist{Key: "1", ArtistID: intValue(1)}))

	artist, err := db.GetArtist(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, jsonValue(`1`), artist.ArtistID)
	assert.Empty(t, artist.Name)

	require.NoError(t, db.DeleteArtist(ctx, "1"))
	artists, err := db.GetArtists(ctx)
	require.NoError(t, err)
	assert.Empty(t, artists)
}

func TestDatabaseKeepsValueTypes(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)

	require.NoError(t, db.PutSong(ctx, &Song{
		Key:         "4",
		SongID:      intValue(4),
		Name:        stringValue("Otherside"),
		TrackNumber: stringValue("4"),
		AlbumID:     jsonValue(`null`),
	}))

	song, err := db.GetSong(ctx, "4")
	require.NoError(t, err)
	assert.Equal(t, jsonValue(`4`), song.SongID)
	assert.Equal(t, jsonValue(`"Otherside"`), song.Name)
	assert.Equal(t, jsonValue(`"4"`), song.TrackNumber)
	assert.Equal(t, jsonValue(`null`), song.AlbumID)
	assert.Empty(t, song.Lyrics)
}

func TestDatabaseOrdersByKey(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)

	for _, key := range []string{"b", "10", "01", "2", "a", "1"} {
		require.NoError(t, db.PutAlbum(ctx, &Album{Key: key}))
	}

	albums, err := db.GetAlbums(ctx)
	require.NoError(t, err)

	var keys []string
	for _, album := range albums {
		keys = append(keys, album.Key)
	}
	assert.Equal(t, []string{"1", "2", "10", "01", "a", "b"}, keys)
}

func TestLoadFixtures(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)

	err := loadFixtures(ctx, db, fstest.MapFS{
		artistsFixture: {Data: []byte(`{"1":{"artistId":1,"name":"Muse"},"2":null}`)},
		albumsFixture:  {Data: []byte(`{"5":{"albumId":5,"name":"Absolution","artistId":1}}`)},
		songsFixture:   {Data: []byte(`{"9":{"songId":9,"name":"Hysteria","trackNumber":"8","albumId":5}}`)},
	})
	require.NoError(t, err)

	artists, err := db.GetArtists(ctx)
	require.NoError(t, err)
	require.Len(t, artists, 1)
	assert.Equal(t, jsonValue(`"Muse"`), artists[0].Name)

	album, err := db.GetAlbum(ctx, "5")
	require.NoError(t, err)
	assert.Equal(t, jsonValue(`1`), album.ArtistID)

	song, err := db.GetSong(ctx, "9")
	require.NoError(t, err)
	assert.Equal(t, jsonValue(`"8"`), song.TrackNumber)
}

func TestLoadFixturesErrors(t *testing.T) {
	tt := []struct {
		name  string
		fsys  fstest.MapFS
		error string
	}{
		{
			name: "missing file",
			fsys: fstest.MapFS{
				artistsFixture: {Data: []byte(`{}`)},
				albumsFixture:  {Data: []byte(`{}`)},
			},
			error: "reading fixture songs.json",
		},
		{
			name: "invalid json",
			fsys: fstest.MapFS{
				artistsFixture: {Data: []byte(`{`)},
				albumsFixture:  {Data: []byte(`{}`)},
				songsFixture:   {Data: []byte(`{}`)},
			},
			error: "decoding fixture artists.json",
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			err := loadFixtures(context.Background(), newTestDatabase(t), tc.fsys)
			assert.ErrorContains(t, err, tc.error)
		})
	}
}

func TestDefaultFixtures(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)

	require.NoError(t, loadFixtures(ctx, db, defaultFixtures()))

	for _, get := range []func(context.Context, string) error{
		func(ctx context.Context, key string) error { _, err := db.GetArtist(ctx, key); return err },
		func(ctx context.Context, key string) error { _, err := db.GetAlbum(ctx, key); return err },
		func(ctx context.Context, key string) error { _, err := db.GetSong(ctx, key); return err },
	} {
		assert.NoError(t, get(ctx, "1"))
	}
}

func TestIDAllocator(t *testing.T) {
	ids := newIDAllocator(firstAllocatedID)

	assert.Equal(t, int64(2), ids.Next())
	assert.Equal(t, int64(3), ids.Next())
	assert.Equal(t, int64(4), ids.Next())
}
