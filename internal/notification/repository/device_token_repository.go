package repository

import (
	"context"
	"time"

	"localmart-backend/internal/notification/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DeviceTokenRepository defines the interface for device token operations
type DeviceTokenRepository interface {
	SaveToken(ctx context.Context, userID, token, provider, deviceInfo string) error
	GetTokensByUserID(ctx context.Context, userID string) ([]domain.DeviceToken, error)
	DeleteToken(ctx context.Context, userID, token string) error
	DeleteTokensByUserID(ctx context.Context, userID string) error
	PruneToken(ctx context.Context, token string) error
}

// deviceTokenRepository implements DeviceTokenRepository interface
type deviceTokenRepository struct {
	db *gorm.DB
}

// NewDeviceTokenRepository creates a new instance of deviceTokenRepository
func NewDeviceTokenRepository(db *gorm.DB) DeviceTokenRepository {
	return &deviceTokenRepository{
		db: db,
	}
}

// SaveToken saves or updates a device token for a user (atomic upsert).
// The gateway may re-issue a token to a different session at any time, so a
// conflicting row is taken over rather than duplicated.
func (r *deviceTokenRepository) SaveToken(ctx context.Context, userID, token, provider, deviceInfo string) error {
	deviceToken := &domain.DeviceToken{
		ID:         uuid.New().String(),
		UserID:     userID,
		Token:      token,
		Provider:   provider,
		DeviceInfo: deviceInfo,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	// Atomic upsert: INSERT ... ON CONFLICT (token) DO UPDATE
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "provider", "device_info", "updated_at"}),
	}).Create(deviceToken).Error
}

// GetTokensByUserID returns all device tokens for a user
func (r *deviceTokenRepository) GetTokensByUserID(ctx context.Context, userID string) ([]domain.DeviceToken, error) {
	var tokens []domain.DeviceToken
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

// DeleteToken removes a specific token, but only if it belongs to the user
func (r *deviceTokenRepository) DeleteToken(ctx context.Context, userID, token string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND token = ?", userID, token).
		Delete(&domain.DeviceToken{}).Error
}

// DeleteTokensByUserID removes all device tokens for a user
func (r *deviceTokenRepository) DeleteTokensByUserID(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.DeviceToken{}).Error
}

// PruneToken removes a token the gateway reported as permanently failed,
// regardless of owner.
func (r *deviceTokenRepository) PruneToken(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Where("token = ?", token).Delete(&domain.DeviceToken{}).Error
}
