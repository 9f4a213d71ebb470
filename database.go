package main

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// memoryDSN keeps the whole store in process memory.
const memoryDSN = ":memory:"

type database struct {
	db *gorm.DB
}

func newDatabase(dsn string) (*database, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.New(slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, err
	}

	// Every connection to :memory: opens a fresh database, so keep exactly one.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	err = db.AutoMigrate(&Artist{}, &Album{}, &Song{})
	if err != nil {
		return nil, err
	}

	return &database{
		db: db,
	}, nil
}

func (d *database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// put inserts the record or overwrites the one stored under the same key.
func (d *database) put(ctx context.Context, record any) error {
	return d.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(record).Error
}

func (d *database) PutArtist(ctx context.Context, artist *Artist) error {
	return d.put(ctx, artist)
}

func (d *database) GetArtists(ctx context.Context) ([]*Artist, error) {
	var artists []*Artist
	err := d.db.WithContext(ctx).Find(&artists).Error
	if err != nil {
		return nil, err
	}
	sortByKey(artists)
	return artists, nil
}

func (d *database) GetArtist(ctx context.Context, key string) (*Artist, error) {
	var artist Artist
	err := d.db.WithContext(ctx).Where("id = ?", key).First(&artist).Error
	if err != nil {
		return nil, err
	}
	return &artist, nil
}

func (d *database) DeleteArtist(ctx context.Context, key string) error {
	return d.db.WithContext(ctx).Where("id = ?", key).Delete(&Artist{}).Error
}

func (d *database) PutAlbum(ctx context.Context, album *Album) error {
	return d.put(ctx, album)
}

func (d *database) GetAlbums(ctx context.Context) ([]*Album, error) {
	var albums []*Album
	err := d.db.WithContext(ctx).Find(&albums).Error
	if err != nil {
		return nil, err
	}
	sortByKey(albums)
	return albums, nil
}

func (d *database) GetAlbum(ctx context.Context, key string) (*Album, error) {
	var album Album
	err := d.db.WithContext(ctx).Where("id = ?", key).First(&album).Error
	if err != nil {
		return nil, err
	}
	return &album, nil
}

func (d *database) DeleteAlbum(ctx context.Context, key string) error {
	return d.db.WithContext(ctx).Where("id = ?", key).Delete(&Album{}).Error
}

func (d *database) PutSong(ctx context.Context, song *Song) error {
	return d.put(ctx, song)
}

func (d *database) GetSongs(ctx context.Context) ([]*Song, error) {
	var songs []*Song
	err := d.db.WithContext(ctx).Find(&songs).Error
	if err != nil {
		return nil, err
	}
	sortByKey(songs)
	return songs, nil
}

func (d *database) GetSong(ctx context.Context, key string) (*Song, error) {
	var song Song
	err := d.db.WithContext(ctx).Where("id = ?", key).First(&song).Error
	if err != nil {
		return nil, err
	}
	return &song, nil
}

func (d *database) DeleteSong(ctx context.Context, key string) error {
	return d.db.WithContext(ctx).Where("id = ?", key).Delete(&Song{}).Error
}

// sortByKey orders records the way object keys enumerate: array-index keys
// ascending by value, then the remaining keys.
func sortByKey[T keyed](records []T) {
	slices.SortStableFunc(records, func(a, b T) int {
		ka, kb := a.getKey(), b.getKey()
		ia, okA := arrayIndex(ka)
		ib, okB := arrayIndex(kb)
		switch {
		case okA && okB:
			return cmp.Compare(ia, ib)
		case okA:
			return -1
		case okB:
			return 1
		}
		return strings.Compare(ka, kb)
	})
}

func arrayIndex(key string) (uint64, bool) {
	if key == "" || (len(key) > 1 && key[0] == '0') {
		return 0, false
	}
	n, err := strconv.ParseUint(key, 10, 32)
	if err != nil || n == 1<<32-1 {
		return 0, false
	}
	return n, true
}
