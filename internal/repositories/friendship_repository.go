package repositories

import (
	"errors"

	"github.com/nexusfeed/backend/internal/models"
	"gorm.io/gorm"
)

// Duplicate-request conditions, distinguishable from store failures
var (
	ErrFriendRequestPending = errors.New("a pending friend request already exists between these users")
	ErrAlreadyFriends       = errors.New("users are already friends")
)

// FriendshipRepository defines the interface for friendship data operations
type FriendshipRepository interface {
	SendFriendRequest(req *models.FriendRequest) error
	GetFriendRequestByID(id uint) (*models.FriendRequest, error)
	UpdateFriendRequestStatus(id uint, status string) error
	AreFriends(userA, userB uint) (bool, error)
}

// PostgresFriendshipRepository implements FriendshipRepository for PostgreSQL
type PostgresFriendshipRepository struct {
	db *gorm.DB
}

// NewPostgresFriendshipRepository creates a new PostgresFriendshipRepository
func NewPostgresFriendshipRepository(db *gorm.DB) *PostgresFriendshipRepository {
	return &PostgresFriendshipRepository{db: db}
}

// SendFriendRequest creates a new friend request unless a pending or accepted
// one already exists between the pair in either direction
func (r *PostgresFriendshipRepository) SendFriendRequest(req *models.FriendRequest) error {
	var existing models.FriendRequest
	err := r.db.Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
		req.SenderID, req.ReceiverID, req.ReceiverID, req.SenderID).First(&existing).Error

	if err == nil {
		if existing.Status == models.FriendPending {
			return ErrFriendRequestPending
		} else if existing.Status == models.FriendAccepted {
			return ErrAlreadyFriends
		}
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	req.Status = models.FriendPending
	return r.db.Create(req).Error
}

// GetFriendRequestByID retrieves a friend request by ID
func (r *PostgresFriendshipRepository) GetFriendRequestByID(id uint) (*models.FriendRequest, error) {
	var req models.FriendRequest
	if err := r.db.First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// UpdateFriendRequestStatus updates the status of a friend request
func (r *PostgresFriendshipRepository) UpdateFriendRequestStatus(id uint, status string) error {
	return r.db.Model(&models.FriendRequest{}).Where("id = ?", id).Update("status", status).Error
}

// AreFriends reports whether an accepted friend edge exists between two users
func (r *PostgresFriendshipRepository) AreFriends(userA, userB uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.FriendRequest{}).
		Where("status = ?", models.FriendAccepted).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA).
		Count(&count).Error
	return count > 0, err
}
