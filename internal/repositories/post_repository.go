package repositories

import (
	"github.com/nexusfeed/backend/internal/models"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(post *models.Post) error
	GetPostByID(id uint) (*models.Post, error)
	GetScopedPost(context string, contextID *uint, id uint) (*models.Post, error)
	ListScopedPosts(context string, contextID *uint, excludeUserIDs []uint) ([]models.Post, error)
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// CreatePost creates a new post
func (r *PostgresPostRepository) CreatePost(post *models.Post) error {
	return r.db.Create(post).Error
}

// GetPostByID retrieves a post by ID regardless of context
func (r *PostgresPostRepository) GetPostByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// GetScopedPost retrieves a post by ID within one context. A post that exists
// under a different context key is not found here, which is what keeps the
// four families isolated from each other.
func (r *PostgresPostRepository) GetScopedPost(context string, contextID *uint, id uint) (*models.Post, error) {
	var post models.Post
	q := scopeQuery(r.db, context, contextID)
	if err := q.First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// ListScopedPosts retrieves all posts for one context, newest first, excluding
// posts authored by the given user ids
func (r *PostgresPostRepository) ListScopedPosts(context string, contextID *uint, excludeUserIDs []uint) ([]models.Post, error) {
	var posts []models.Post
	q := scopeQuery(r.db, context, contextID)
	if len(excludeUserIDs) > 0 {
		q = q.Where("user_id NOT IN ?", excludeUserIDs)
	}
	if err := q.Order("created_at DESC, id DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func scopeQuery(db *gorm.DB, context string, contextID *uint) *gorm.DB {
	q := db.Where("context = ?", context)
	if contextID == nil {
		return q.Where("context_id IS NULL")
	}
	return q.Where("context_id = ?", *contextID)
}
