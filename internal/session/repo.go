package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	prefActiveBusiness = "active_business"
	prefIdentity       = "user_identity"
)

// Repository persists the small set of client preferences that survive
// restarts. Orders and carts are rebuilt from fetch + channel, never stored.
type Repository struct {
	conn *gorm.DB
}

// NewRepository wraps the preferences database handle.
func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{conn: conn}
}

// Get returns the stored value for a name, or empty when absent.
func (r *Repository) Get(ctx context.Context, name string) (string, error) {
	var row db.ClientPreference
	err := r.conn.WithContext(ctx).First(&row, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("loading preference %s: %w", name, err)
	}
	return row.Value, nil
}

// Set upserts a preference by name.
func (r *Repository) Set(ctx context.Context, name, value string) error {
	row := db.ClientPreference{Name: name, Value: value}
	err := r.conn.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("storing preference %s: %w", name, err)
	}
	return nil
}

// Delete removes a preference. Missing rows are fine.
func (r *Repository) Delete(ctx context.Context, name string) error {
	err := r.conn.WithContext(ctx).Delete(&db.ClientPreference{}, "name = ?", name).Error
	if err != nil {
		return fmt.Errorf("deleting preference %s: %w", name, err)
	}
	return nil
}
