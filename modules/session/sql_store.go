package session

import (
	"context"
	"errors"
	"time"

	"github.com/NiramayThaker/studemt-hub-atmiya-hackathon/internal/database"
	"gorm.io/gorm"
)

// SQLStore keeps sessions in the relational database.
type SQLStore struct {
	db  *gorm.DB
	now func() time.Time
}

var _ Store = (*SQLStore)(nil)

// NewSQLStore creates a SQLStore. The records table must already exist.
func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db, now: time.Now}
}

// Save inserts or replaces a record.
func (s *SQLStore) Save(ctx context.Context, record *Record) error {
	return s.db.WithContext(ctx).Save(record).Error
}

// Find loads a live record. Expired rows are purged on read.
func (s *SQLStore) Find(ctx context.Context, id string) (*Record, error) {
	var record Record
	result := s.db.WithContext(ctx).First(&record, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, result.Error
	}
	if record.Expired(s.now()) {
		_ = s.Delete(ctx, id)
		return nil, ErrSessionNotFound
	}
	return &record, nil
}

// Delete removes a record by id.
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&Record{}, "id = ?", id).Error
}

// PurgeExpired removes every expired record and returns how many went.
func (s *SQLStore) PurgeExpired(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).Where("expires_at <= ?", s.now()).Delete(&Record{})
	return result.RowsAffected, result.Error
}

// Ping checks the database connection.
func (s *SQLStore) Ping(ctx context.Context) error {
	return database.Ping(ctx, s.db)
}

// Close releases the database connection.
func (s *SQLStore) Close() error {
	database.Close(s.db)
	return nil
}

// Kind names the backend.
func (s *SQLStore) Kind() string {
	return "sql"
}
