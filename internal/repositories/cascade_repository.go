package repositories

import (
	"github.com/nexusfeed/backend/internal/models"
	"gorm.io/gorm"
)

// CascadeRepository removes a content entity together with everything that
// references it. Every deletion path, whatever the context, goes through
// these two methods so the all-or-nothing guarantee is uniform.
type CascadeRepository interface {
	DeletePostCascade(postID uint) error
	DeleteCommentCascade(commentID uint) error
}

// PostgresCascadeRepository implements CascadeRepository for PostgreSQL
type PostgresCascadeRepository struct {
	db *gorm.DB
}

// NewPostgresCascadeRepository creates a new PostgresCascadeRepository
func NewPostgresCascadeRepository(db *gorm.DB) *PostgresCascadeRepository {
	return &PostgresCascadeRepository{db: db}
}

// DeletePostCascade removes a post, its comments, and every like, mention and
// notification referencing the post or those comments, in one transaction.
// Dependency order: likes, comments, mentions, notifications, the post row.
func (r *PostgresCascadeRepository) DeletePostCascade(postID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var commentIDs []uint
		if err := tx.Model(&models.Comment{}).Where("post_id = ?", postID).
			Pluck("id", &commentIDs).Error; err != nil {
			return err
		}

		if err := tx.Where("target_kind = ? AND target_id = ?", models.TargetPost, postID).
			Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("target_kind = ? AND target_id IN ?", models.TargetComment, commentIDs).
				Delete(&models.Like{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		if err := tx.Where("source_kind = ? AND source_id = ?", models.TargetPost, postID).
			Delete(&models.Mention{}).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("source_kind = ? AND source_id IN ?", models.TargetComment, commentIDs).
				Delete(&models.Mention{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("reference_kind = ? AND reference_id = ?", models.RefPost, postID).
			Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("reference_kind = ? AND reference_id IN ?", models.RefComment, commentIDs).
				Delete(&models.Notification{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.Post{}, postID).Error
	})
}

// DeleteCommentCascade removes a comment and every like, mention and
// notification referencing it, in one transaction. Replies are not removed:
// they lose their parent and surface as root comments on the next read.
func (r *PostgresCascadeRepository) DeleteCommentCascade(commentID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("target_kind = ? AND target_id = ?", models.TargetComment, commentID).
			Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("source_kind = ? AND source_id = ?", models.TargetComment, commentID).
			Delete(&models.Mention{}).Error; err != nil {
			return err
		}
		if err := tx.Where("reference_kind = ? AND reference_id = ?", models.RefComment, commentID).
			Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Comment{}, commentID).Error
	})
}
