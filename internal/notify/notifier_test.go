package notify

import (
	"testing"

	"github.com/nexusfeed/backend/internal/models"
	"github.com/nexusfeed/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestRepo(t *testing.T) (repositories.NotificationRepository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Notification{}))
	return repositories.NewPostgresNotificationRepository(db), db
}

func TestNotifyWritesRow(t *testing.T) {
	repo, db := newTestRepo(t)
	notifier := New(repo, zap.NewNop(), 8)

	notifier.Notify(2, models.NotifLike, 10, models.RefPost, 1, nil, "Alice liked your post")
	notifier.Close()

	var rows []models.Notification
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, uint(2), rows[0].RecipientID)
	assert.Equal(t, uint(1), rows[0].ActorID)
	assert.Equal(t, models.NotifLike, rows[0].Type)
	assert.Equal(t, uint(10), rows[0].ReferenceID)
	assert.Equal(t, models.RefPost, rows[0].ReferenceKind)
	assert.False(t, rows[0].IsRead)
}

func TestNotifySelfSuppressed(t *testing.T) {
	repo, db := newTestRepo(t)
	notifier := New(repo, zap.NewNop(), 8)

	notifier.Notify(1, models.NotifLike, 10, models.RefPost, 1, nil, "you liked your own post")
	notifier.Close()

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCloseDrainsQueue(t *testing.T) {
	repo, db := newTestRepo(t)
	notifier := New(repo, zap.NewNop(), 32)

	for i := uint(0); i < 10; i++ {
		notifier.Notify(2, models.NotifComment, 100+i, models.RefComment, 1, nil, "new comment")
	}
	notifier.Close()

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(10), count)
}
