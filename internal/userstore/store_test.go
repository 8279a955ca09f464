package userstore

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/greenshop/storefront/internal/models"
)

type fakeMirror struct {
	puts    map[string]models.UserRecord
	getRec  *models.UserRecord
	putErr  error
	getErr  error
	putHits int
}

func (f *fakeMirror) Put(_ context.Context, key string, record models.UserRecord) error {
	f.putHits++
	if f.putErr != nil {
		return f.putErr
	}
	if f.puts == nil {
		f.puts = map[string]models.UserRecord{}
	}
	f.puts[key] = record
	return nil
}

func (f *fakeMirror) Get(context.Context, string) (*models.UserRecord, error) {
	return f.getRec, f.getErr
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.UserBlob{}))
	return db
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := New(newTestDB(t), nil)
	ctx := context.Background()

	rec := &models.UserRecord{
		UserID: 1,
		Name:   "Aziza",
		Wishlist: []models.WishlistEntry{
			{ProductID: 3, Title: "Ficus", Price: decimal.RequireFromString("12.50")},
		},
	}
	require.NoError(t, store.Save(ctx, rec))

	got, err := store.Load(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "Aziza", got.Name)
	require.Len(t, got.Wishlist, 1)
	require.Equal(t, uint(3), got.Wishlist[0].ProductID)
}

func TestSaveOverwritesExistingRecord(t *testing.T) {
	store := New(newTestDB(t), nil)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &models.UserRecord{UserID: 1, Name: "first"}))
	require.NoError(t, store.Save(ctx, &models.UserRecord{UserID: 1, Name: "second"}))

	got, err := store.Load(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "second", got.Name)
}

func TestLoadUnknownUserReturnsEmptyRecord(t *testing.T) {
	store := New(newTestDB(t), nil)

	got, err := store.Load(context.Background(), 99)
	require.NoError(t, err)
	require.Equal(t, uint(99), got.UserID)
	require.Empty(t, got.Wishlist)
}

func TestLoadMalformedPayloadTreatedAsEmpty(t *testing.T) {
	db := newTestDB(t)
	store := New(db, nil)
	ctx := context.Background()

	blob := models.UserBlob{UserKey: DerivedKey(1), Payload: []byte("{not json")}
	require.NoError(t, db.Create(&blob).Error)

	got, err := store.Load(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, uint(1), got.UserID)
	require.Empty(t, got.Wishlist)
}

func TestSaveRejectsOversizedRecord(t *testing.T) {
	store := New(newTestDB(t), nil)

	rec := &models.UserRecord{UserID: 1}
	for i := 0; i < 200; i++ {
		rec.Wishlist = append(rec.Wishlist, models.WishlistEntry{
			ProductID: uint(i + 1),
			Title:     "A very long plant display title to inflate the payload",
			Category:  "houseplants",
		})
	}

	err := store.Save(context.Background(), rec)
	require.ErrorIs(t, err, ErrRecordTooLarge)
}

func TestSaveDuplicatesIntoMirror(t *testing.T) {
	mirror := &fakeMirror{}
	store := New(newTestDB(t), mirror)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &models.UserRecord{UserID: 4, Name: "mirrored"}))

	require.Equal(t, 1, mirror.putHits)
	require.Equal(t, "mirrored", mirror.puts[DerivedKey(4)].Name)
}

func TestSaveSwallowsMirrorFailure(t *testing.T) {
	mirror := &fakeMirror{putErr: errors.New("mirror down")}
	store := New(newTestDB(t), mirror)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &models.UserRecord{UserID: 5}))

	got, err := store.Load(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, uint(5), got.UserID)
}

func TestLoadFallsBackToMirrorWhenPrimaryMissing(t *testing.T) {
	mirror := &fakeMirror{getRec: &models.UserRecord{
		UserID:   6,
		Wishlist: []models.WishlistEntry{{ProductID: 9}},
	}}
	store := New(newTestDB(t), mirror)

	got, err := store.Load(context.Background(), 6)
	require.NoError(t, err)
	require.Len(t, got.Wishlist, 1)
}

func TestPrimaryWinsOverDivergentMirror(t *testing.T) {
	mirror := &fakeMirror{getRec: &models.UserRecord{UserID: 7, Name: "stale"}}
	store := New(newTestDB(t), mirror)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &models.UserRecord{UserID: 7, Name: "fresh"}))
	mirror.getRec = &models.UserRecord{UserID: 7, Name: "stale"}

	got, err := store.Load(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, "fresh", got.Name)
}

func TestDerivedKeyIsStable(t *testing.T) {
	require.Equal(t, DerivedKey(1), DerivedKey(1))
	require.NotEqual(t, DerivedKey(1), DerivedKey(2))
}
