package repositories

import (
	"github.com/nexusfeed/backend/internal/models"
	"gorm.io/gorm"
)

// EventRepository defines the interface for event context operations
type EventRepository interface {
	GetEventByID(id uint) (*models.Event, error)
	GetAttendee(eventID, userID uint) (*models.EventAttendee, error)
	CreateAttendee(attendee *models.EventAttendee) error
	UpdateAttendeeStatus(eventID, userID uint, status string) error
	IsAttending(eventID, userID uint) (bool, error)
}

// PostgresEventRepository implements EventRepository for PostgreSQL
type PostgresEventRepository struct {
	db *gorm.DB
}

// NewPostgresEventRepository creates a new PostgresEventRepository
func NewPostgresEventRepository(db *gorm.DB) *PostgresEventRepository {
	return &PostgresEventRepository{db: db}
}

// GetEventByID retrieves an event by ID
func (r *PostgresEventRepository) GetEventByID(id uint) (*models.Event, error) {
	var event models.Event
	if err := r.db.First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// GetAttendee retrieves a user's attendance row for an event
func (r *PostgresEventRepository) GetAttendee(eventID, userID uint) (*models.EventAttendee, error) {
	var attendee models.EventAttendee
	if err := r.db.Where("event_id = ? AND user_id = ?", eventID, userID).First(&attendee).Error; err != nil {
		return nil, err
	}
	return &attendee, nil
}

// CreateAttendee inserts an attendance row; duplicates surface as
// gorm.ErrDuplicatedKey via the pair unique index
func (r *PostgresEventRepository) CreateAttendee(attendee *models.EventAttendee) error {
	return r.db.Create(attendee).Error
}

// UpdateAttendeeStatus updates the status of an attendance row
func (r *PostgresEventRepository) UpdateAttendeeStatus(eventID, userID uint, status string) error {
	res := r.db.Model(&models.EventAttendee{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IsAttending checks whether a user has a going attendance row for an event
func (r *PostgresEventRepository) IsAttending(eventID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.EventAttendee{}).
		Where("event_id = ? AND user_id = ? AND status = ?", eventID, userID, models.AttendGoing).
		Count(&count).Error
	return count > 0, err
}
