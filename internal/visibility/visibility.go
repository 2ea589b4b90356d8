// Package visibility implements the block-relationship predicate applied at
// the data-access boundary, plus the second access layer for private groups
// and private/friends-only events. Decisions are computed per request and
// never cached.
package visibility

import (
	"github.com/nexusfeed/backend/internal/models"
	"gorm.io/gorm"
)

// Filter answers visibility questions between users
type Filter struct {
	db *gorm.DB
}

// NewFilter creates a new Filter
func NewFilter(db *gorm.DB) *Filter {
	return &Filter{db: db}
}

// IsVisible reports whether owner's content is visible to viewer. False iff a
// block row exists with the two users on either side, in either order.
func (f *Filter) IsVisible(viewerID, ownerID uint) (bool, error) {
	if viewerID == ownerID {
		return true, nil
	}
	var count int64
	err := f.db.Model(&models.Block{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)",
			viewerID, ownerID, ownerID, viewerID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// BlockedIDs returns the symmetric union of users the viewer has blocked and
// users who have blocked the viewer. List queries exclude these author ids.
func (f *Filter) BlockedIDs(viewerID uint) ([]uint, error) {
	var blocked []uint
	if err := f.db.Model(&models.Block{}).Where("blocker_id = ?", viewerID).
		Pluck("blocked_id", &blocked).Error; err != nil {
		return nil, err
	}
	var blockers []uint
	if err := f.db.Model(&models.Block{}).Where("blocked_id = ?", viewerID).
		Pluck("blocker_id", &blockers).Error; err != nil {
		return nil, err
	}

	seen := make(map[uint]struct{}, len(blocked)+len(blockers))
	ids := make([]uint, 0, len(blocked)+len(blockers))
	for _, id := range append(blocked, blockers...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// AreFriends reports whether an accepted friend edge exists between two users
func (f *Filter) AreFriends(userA, userB uint) (bool, error) {
	var count int64
	err := f.db.Model(&models.FriendRequest{}).
		Where("status = ?", models.FriendAccepted).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA).
		Count(&count).Error
	return count > 0, err
}

// CanViewEvent applies the event privacy layer: the owner always sees it, a
// private event requires an attendance row, a friends-only event requires an
// accepted friend edge with the owner.
func (f *Filter) CanViewEvent(viewerID uint, event *models.Event) (bool, error) {
	if viewerID == event.CreatorID {
		return true, nil
	}
	switch event.Privacy {
	case models.EventPrivate:
		var count int64
		err := f.db.Model(&models.EventAttendee{}).
			Where("event_id = ? AND user_id = ?", event.ID, viewerID).
			Count(&count).Error
		return count > 0, err
	case models.EventFriends:
		return f.AreFriends(viewerID, event.CreatorID)
	default:
		return true, nil
	}
}

// CanViewGroup applies the group privacy layer: private groups are readable
// by members only
func (f *Filter) CanViewGroup(viewerID uint, group *models.Group) (bool, error) {
	if viewerID == group.CreatorID || group.Privacy != models.GroupPrivate {
		return true, nil
	}
	var count int64
	err := f.db.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", group.ID, viewerID).
		Count(&count).Error
	return count > 0, err
}
