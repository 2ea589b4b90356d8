package repositories

import (
	"github.com/nexusfeed/backend/internal/models"
	"gorm.io/gorm"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	CreateLike(like *models.Like) error
	DeleteLike(targetKind string, targetID, userID uint) error
	GetLikesCount(targetKind string, targetID uint) (int64, error)
	HasUserLiked(targetKind string, targetID, userID uint) (bool, error)
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// CreateLike inserts a like. No existence pre-check: the composite unique
// index arbitrates concurrent duplicates, surfaced as gorm.ErrDuplicatedKey.
func (r *PostgresLikeRepository) CreateLike(like *models.Like) error {
	return r.db.Create(like).Error
}

// DeleteLike deletes a like; gorm.ErrRecordNotFound when there was none
func (r *PostgresLikeRepository) DeleteLike(targetKind string, targetID, userID uint) error {
	res := r.db.Where("target_kind = ? AND target_id = ? AND user_id = ?", targetKind, targetID, userID).
		Delete(&models.Like{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetLikesCount retrieves the number of likes on a target
func (r *PostgresLikeRepository) GetLikesCount(targetKind string, targetID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).
		Where("target_kind = ? AND target_id = ?", targetKind, targetID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// HasUserLiked checks whether a user has liked a target
func (r *PostgresLikeRepository) HasUserLiked(targetKind string, targetID, userID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).
		Where("target_kind = ? AND target_id = ? AND user_id = ?", targetKind, targetID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
