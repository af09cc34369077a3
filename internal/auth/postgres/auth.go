package postgres

import (
	"context"

	"github.com/frahmantamala/internship-api/internal/auth"
	"github.com/frahmantamala/internship-api/internal/core/datamodel"
	"gorm.io/gorm"
)

const credentialColumns = "id, password_hash, is_active, refresh_token_hash"

// Repository reads and writes the authentication columns of users.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

// GetCredentialsByEmail returns nil when no user has the address.
func (r *Repository) GetCredentialsByEmail(ctx context.Context, email string) (*auth.Credentials, error) {
	return r.credentials(r.db.WithContext(ctx).Where("primary_email_address = ?", email))
}

func (r *Repository) GetCredentialsByID(ctx context.Context, userID int64) (*auth.Credentials, error) {
	return r.credentials(r.db.WithContext(ctx).Where("id = ?", userID))
}

func (r *Repository) credentials(db *gorm.DB) (*auth.Credentials, error) {
	var rows []auth.Credentials
	err := db.Model(&datamodel.User{}).Select(credentialColumns).Limit(1).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *Repository) StoreRefreshTokenHash(ctx context.Context, userID int64, hash string) error {
	return r.db.WithContext(ctx).Model(&datamodel.User{}).
		Where("id = ?", userID).
		Update("refresh_token_hash", hash).Error
}
