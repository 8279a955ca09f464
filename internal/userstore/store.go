package userstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/greenshop/storefront/internal/logging"
	"github.com/greenshop/storefront/internal/models"
)

// MaxRecordSize caps the encoded user record at a cookie-class 4KB. The
// wishlist must stay well under it.
const MaxRecordSize = 4096

var ErrRecordTooLarge = errors.New("userstore: encoded record exceeds size ceiling")

// Mirror is the secondary larger-capacity store holding a redundant copy of
// the record for fast reads. Writes to it are best-effort; the primary row
// always wins on read.
type Mirror interface {
	Put(ctx context.Context, key string, record models.UserRecord) error
	Get(ctx context.Context, key string) (*models.UserRecord, error)
}

// Store is the only writer of the durable user record. The two writes are
// not transactional: a failure between them leaves the mirror stale, which
// readers tolerate by preferring the primary.
type Store struct {
	DB     *gorm.DB
	Mirror Mirror
}

func New(db *gorm.DB, mirror Mirror) *Store {
	return &Store{DB: db, Mirror: mirror}
}

// DerivedKey maps a user ID onto the stable storage key shared by the
// primary row and the mirror document.
func DerivedKey(userID uint) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("user_%d", userID))).String()
}

// Load reads the user record, preferring the primary row and falling back
// to the mirror when the row is absent. Contents that fail to decode are
// treated as an empty record: logged, never surfaced.
func (s *Store) Load(ctx context.Context, userID uint) (*models.UserRecord, error) {
	key := DerivedKey(userID)

	var blob models.UserBlob
	err := s.DB.WithContext(ctx).Where("user_key = ?", key).First(&blob).Error
	switch {
	case err == nil:
		return s.decode(ctx, userID, blob.Payload), nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if s.Mirror != nil {
			if rec, mErr := s.Mirror.Get(ctx, key); mErr == nil && rec != nil {
				return rec, nil
			}
		}
		return &models.UserRecord{UserID: userID, Wishlist: []models.WishlistEntry{}}, nil
	default:
		return nil, fmt.Errorf("userstore: load: %w", err)
	}
}

// Save upserts the primary row and then duplicates the record into the
// mirror. A mirror failure is logged and swallowed.
func (s *Store) Save(ctx context.Context, record *models.UserRecord) error {
	if record.Wishlist == nil {
		record.Wishlist = []models.WishlistEntry{}
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("userstore: encode: %w", err)
	}
	if len(payload) > MaxRecordSize {
		return ErrRecordTooLarge
	}

	key := DerivedKey(record.UserID)
	blob := models.UserBlob{UserKey: key, Payload: payload}
	if err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_key"}},
		UpdateAll: true,
	}).Create(&blob).Error; err != nil {
		return fmt.Errorf("userstore: save: %w", err)
	}

	if s.Mirror != nil {
		if err := s.Mirror.Put(ctx, key, *record); err != nil {
			logging.FromContext(ctx).Warn("userstore mirror write failed", "key", key, "error", err)
		}
	}
	return nil
}

func (s *Store) decode(ctx context.Context, userID uint, payload []byte) *models.UserRecord {
	var rec models.UserRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		logging.FromContext(ctx).Warn("userstore payload malformed, treating as empty", "user_id", userID, "error", err)
		return &models.UserRecord{UserID: userID, Wishlist: []models.WishlistEntry{}}
	}
	if rec.UserID == 0 {
		rec.UserID = userID
	}
	if rec.Wishlist == nil {
		rec.Wishlist = []models.WishlistEntry{}
	}
	return &rec
}
