package services

import (
	"fmt"
	"testing"

	"github.com/nexusfeed/backend/internal/models"
	"github.com/nexusfeed/backend/internal/notify"
	"github.com/nexusfeed/backend/internal/repositories"
	"github.com/nexusfeed/backend/internal/visibility"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type mentionFixture struct {
	db       *gorm.DB
	svc      *MentionService
	notifier *notify.Notifier
	drained  bool

	alice uint
	bob   uint
}

func newMentionFixture(t *testing.T) *mentionFixture {
	t.Helper()
	db := newTestDB(t)

	notificationRepo := repositories.NewPostgresNotificationRepository(db)
	notifier := notify.New(notificationRepo, zap.NewNop(), 64)

	f := &mentionFixture{
		db:       db,
		notifier: notifier,
		svc: NewMentionService(
			repositories.NewPostgresPostRepository(db),
			repositories.NewPostgresCommentRepository(db),
			repositories.NewPostgresUserRepository(db),
			repositories.NewPostgresMentionRepository(db),
			visibility.NewFilter(db),
			notifier,
		),
	}
	f.alice = f.createUser(t, "Alice")
	f.bob = f.createUser(t, "Bob")

	t.Cleanup(f.drain)
	return f
}

func (f *mentionFixture) drain() {
	if !f.drained {
		f.notifier.Close()
		f.drained = true
	}
}

func (f *mentionFixture) createUser(t *testing.T, name string) uint {
	t.Helper()
	user := &models.User{Name: name, Email: fmt.Sprintf("%s@example.com", name)}
	require.NoError(t, f.db.Create(user).Error)
	return user.ID
}

func (f *mentionFixture) createPost(t *testing.T, userID uint, content string) *models.Post {
	t.Helper()
	post := &models.Post{Context: models.ContextFeed, UserID: userID, Content: content}
	require.NoError(t, f.db.Create(post).Error)
	return post
}

func TestMentionInPost(t *testing.T) {
	f := newMentionFixture(t)
	post := f.createPost(t, f.alice, fmt.Sprintf("hey @[Bob](%d), look at this", f.bob))

	mention, err := f.svc.MentionInPost(f.alice, post.ID, f.bob, nil)
	require.NoError(t, err)
	assert.Equal(t, f.bob, mention.MentionedUserID)
	assert.Equal(t, f.alice, mention.ActorID)
	assert.Equal(t, post.ID, mention.SourceID)
	assert.Equal(t, models.TargetPost, mention.SourceKind)

	f.drain()
	var rows []models.Notification
	require.NoError(t, f.db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, f.bob, rows[0].RecipientID)
	assert.Equal(t, models.NotifMention, rows[0].Type)
	assert.Equal(t, "Alice mentioned you in a post", rows[0].Message)
}

func TestMentionInComment(t *testing.T) {
	f := newMentionFixture(t)
	post := f.createPost(t, f.alice, "a post")
	comment := &models.Comment{PostID: post.ID, UserID: f.alice,
		Content: fmt.Sprintf("cc @[Bob](%d)", f.bob)}
	require.NoError(t, f.db.Create(comment).Error)

	mention, err := f.svc.MentionInComment(f.alice, comment.ID, f.bob, nil)
	require.NoError(t, err)
	assert.Equal(t, models.TargetComment, mention.SourceKind)
	assert.Equal(t, comment.ID, mention.SourceID)
}

func TestMentionNotInBody(t *testing.T) {
	f := newMentionFixture(t)
	post := f.createPost(t, f.alice, "no markup at all")

	_, err := f.svc.MentionInPost(f.alice, post.ID, f.bob, nil)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestMentionBlockedUser(t *testing.T) {
	f := newMentionFixture(t)
	post := f.createPost(t, f.alice, fmt.Sprintf("ping @[Bob](%d)", f.bob))
	require.NoError(t, f.db.Create(&models.Block{BlockerID: f.bob, BlockedID: f.alice}).Error)

	_, err := f.svc.MentionInPost(f.alice, post.ID, f.bob, nil)
	var fErr *ForbiddenError
	require.ErrorAs(t, err, &fErr)

	// Nothing recorded and nothing delivered
	var count int64
	require.NoError(t, f.db.Model(&models.Mention{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestMentionsOfUser(t *testing.T) {
	f := newMentionFixture(t)
	post := f.createPost(t, f.alice, fmt.Sprintf("hi @[Bob](%d)", f.bob))

	_, err := f.svc.MentionInPost(f.alice, post.ID, f.bob, nil)
	require.NoError(t, err)

	list, err := f.svc.MentionsOfUser(f.bob)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, post.ID, list[0].SourceID)

	list, err = f.svc.MentionsOfUser(f.alice)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMentionMissingPost(t *testing.T) {
	f := newMentionFixture(t)

	_, err := f.svc.MentionInPost(f.alice, 999, f.bob, nil)
	var nfErr *NotFoundError
	require.ErrorAs(t, err, &nfErr)
}
