package repositories

import (
	"github.com/nexusfeed/backend/internal/models"
	"gorm.io/gorm"
)

// BlockRepository defines the interface for block relationship operations
type BlockRepository interface {
	CreateBlock(block *models.Block) error
	DeleteBlock(blockerID, blockedID uint) error
}

// PostgresBlockRepository implements BlockRepository for PostgreSQL
type PostgresBlockRepository struct {
	db *gorm.DB
}

// NewPostgresBlockRepository creates a new PostgresBlockRepository
func NewPostgresBlockRepository(db *gorm.DB) *PostgresBlockRepository {
	return &PostgresBlockRepository{db: db}
}

// CreateBlock records a directional block; duplicates surface as
// gorm.ErrDuplicatedKey via the pair unique index
func (r *PostgresBlockRepository) CreateBlock(block *models.Block) error {
	return r.db.Create(block).Error
}

// DeleteBlock removes a block; gorm.ErrRecordNotFound when there was none
func (r *PostgresBlockRepository) DeleteBlock(blockerID, blockedID uint) error {
	res := r.db.Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&models.Block{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
