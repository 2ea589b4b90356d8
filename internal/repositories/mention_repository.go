package repositories

import (
	"github.com/nexusfeed/backend/internal/models"
	"gorm.io/gorm"
)

// MentionRepository defines the interface for mention data operations
type MentionRepository interface {
	CreateMention(mention *models.Mention) error
	ListMentionsForUser(userID uint) ([]models.Mention, error)
}

// PostgresMentionRepository implements MentionRepository for PostgreSQL
type PostgresMentionRepository struct {
	db *gorm.DB
}

// NewPostgresMentionRepository creates a new PostgresMentionRepository
func NewPostgresMentionRepository(db *gorm.DB) *PostgresMentionRepository {
	return &PostgresMentionRepository{db: db}
}

// CreateMention records a mention
func (r *PostgresMentionRepository) CreateMention(mention *models.Mention) error {
	return r.db.Create(mention).Error
}

// ListMentionsForUser retrieves all mentions of a user, newest first
func (r *PostgresMentionRepository) ListMentionsForUser(userID uint) ([]models.Mention, error) {
	var mentions []models.Mention
	if err := r.db.Where("mentioned_user_id = ?", userID).
		Order("created_at DESC").Find(&mentions).Error; err != nil {
		return nil, err
	}
	return mentions, nil
}
