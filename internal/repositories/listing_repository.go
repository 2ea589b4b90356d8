package repositories

import (
	"github.com/nexusfeed/backend/internal/models"
	"gorm.io/gorm"
)

// ListingRepository defines the interface for marketplace listing lookups
type ListingRepository interface {
	GetListingByID(id uint) (*models.Listing, error)
}

// PostgresListingRepository implements ListingRepository for PostgreSQL
type PostgresListingRepository struct {
	db *gorm.DB
}

// NewPostgresListingRepository creates a new PostgresListingRepository
func NewPostgresListingRepository(db *gorm.DB) *PostgresListingRepository {
	return &PostgresListingRepository{db: db}
}

// GetListingByID retrieves a listing by ID
func (r *PostgresListingRepository) GetListingByID(id uint) (*models.Listing, error) {
	var listing models.Listing
	if err := r.db.First(&listing, id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}
