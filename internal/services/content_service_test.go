package services

import (
	"fmt"
	"testing"

	"github.com/nexusfeed/backend/internal/contexts"
	"github.com/nexusfeed/backend/internal/models"
	"github.com/nexusfeed/backend/internal/notify"
	"github.com/nexusfeed/backend/internal/repositories"
	"github.com/nexusfeed/backend/internal/visibility"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens an in-memory store migrated with the full schema. A single
// connection keeps the notifier worker and the test on the same database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Mention{},
		&models.Block{},
		&models.Notification{},
		&models.FriendRequest{},
		&models.Group{},
		&models.GroupMember{},
		&models.Event{},
		&models.EventAttendee{},
		&models.Listing{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type ContentServiceSuite struct {
	suite.Suite
	db       *gorm.DB
	svc      *ContentService
	notifier *notify.Notifier
	drained  bool

	alice uint
	bob   uint
	carol uint
}

func (s *ContentServiceSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.drained = false

	notificationRepo := repositories.NewPostgresNotificationRepository(s.db)
	s.notifier = notify.New(notificationRepo, zap.NewNop(), 64)

	filter := visibility.NewFilter(s.db)
	s.svc = NewContentService(
		repositories.NewPostgresPostRepository(s.db),
		repositories.NewPostgresCommentRepository(s.db),
		repositories.NewPostgresLikeRepository(s.db),
		repositories.NewPostgresUserRepository(s.db),
		repositories.NewPostgresGroupRepository(s.db),
		repositories.NewPostgresEventRepository(s.db),
		repositories.NewPostgresListingRepository(s.db),
		repositories.NewPostgresCascadeRepository(s.db),
		filter,
		s.notifier,
	)

	s.alice = s.createUser("Alice")
	s.bob = s.createUser("Bob")
	s.carol = s.createUser("Carol")
}

func (s *ContentServiceSuite) TearDownTest() {
	s.drain()
}

// drain flushes pending notifications to the store. No notifications can be
// enqueued afterwards.
func (s *ContentServiceSuite) drain() {
	if !s.drained {
		s.notifier.Close()
		s.drained = true
	}
}

func (s *ContentServiceSuite) createUser(name string) uint {
	user := &models.User{Name: name, Email: fmt.Sprintf("%s@example.com", name)}
	s.Require().NoError(s.db.Create(user).Error)
	return user.ID
}

func (s *ContentServiceSuite) createFeedPost(userID uint, content string) *models.PostView {
	view, err := s.svc.CreatePost(contexts.Feed, nil, userID, content)
	s.Require().NoError(err)
	return view
}

func (s *ContentServiceSuite) notificationCount() int64 {
	var count int64
	s.Require().NoError(s.db.Model(&models.Notification{}).Count(&count).Error)
	return count
}

func (s *ContentServiceSuite) TestCreatePostRejectsBlankContent() {
	_, err := s.svc.CreatePost(contexts.Feed, nil, s.alice, "   ")
	var vErr *ValidationError
	s.Require().ErrorAs(err, &vErr)
}

func (s *ContentServiceSuite) TestCreatePostSanitizesMarkup() {
	view := s.createFeedPost(s.alice, `hello <script>alert(1)</script>world`)
	s.NotContains(view.Content, "<script>")
	s.Contains(view.Content, "hello")
}

func (s *ContentServiceSuite) TestCreatePostKeepsMentionMarkupVerbatim() {
	view := s.createFeedPost(s.alice, "hi @[Bob](2), welcome")
	s.Contains(view.Content, "@[Bob](2)")
}

func (s *ContentServiceSuite) TestDuplicateLikeRejectedAndCountUnchanged() {
	post := s.createFeedPost(s.bob, "like me")

	_, err := s.svc.LikePost(contexts.Feed, nil, s.alice, post.ID)
	s.Require().NoError(err)

	_, err = s.svc.LikePost(contexts.Feed, nil, s.alice, post.ID)
	var cErr *ConflictError
	s.Require().ErrorAs(err, &cErr)
	s.Equal("post already liked", cErr.Msg)

	count, err := s.svc.PostLikesCount(contexts.Feed, nil, s.alice, post.ID)
	s.Require().NoError(err)
	s.Equal(int64(1), count)
}

func (s *ContentServiceSuite) TestUnlikeThenRelike() {
	post := s.createFeedPost(s.bob, "toggle")

	_, err := s.svc.LikePost(contexts.Feed, nil, s.alice, post.ID)
	s.Require().NoError(err)
	s.Require().NoError(s.svc.UnlikePost(contexts.Feed, nil, s.alice, post.ID))

	// Unlike removes the row, so liking again succeeds
	_, err = s.svc.LikePost(contexts.Feed, nil, s.alice, post.ID)
	s.Require().NoError(err)

	liked, err := s.svc.HasLikedPost(contexts.Feed, nil, s.alice, post.ID)
	s.Require().NoError(err)
	s.True(liked)
}

func (s *ContentServiceSuite) TestUnlikeWithoutLike() {
	post := s.createFeedPost(s.bob, "never liked")

	err := s.svc.UnlikePost(contexts.Feed, nil, s.alice, post.ID)
	var nfErr *NotFoundError
	s.Require().ErrorAs(err, &nfErr)
}

func (s *ContentServiceSuite) TestSelfLikeCreatesNoNotification() {
	post := s.createFeedPost(s.alice, "my own post")

	_, err := s.svc.LikePost(contexts.Feed, nil, s.alice, post.ID)
	s.Require().NoError(err)

	s.drain()
	s.Zero(s.notificationCount())
}

func (s *ContentServiceSuite) TestLikeNotifiesAuthor() {
	post := s.createFeedPost(s.bob, "popular")

	_, err := s.svc.LikePost(contexts.Feed, nil, s.alice, post.ID)
	s.Require().NoError(err)

	s.drain()
	var rows []models.Notification
	s.Require().NoError(s.db.Find(&rows).Error)
	s.Require().Len(rows, 1)
	s.Equal(s.bob, rows[0].RecipientID)
	s.Equal(s.alice, rows[0].ActorID)
	s.Equal(models.NotifLike, rows[0].Type)
	s.Equal("Alice liked your post", rows[0].Message)
}

func (s *ContentServiceSuite) TestReplyDepthLimit() {
	post := s.createFeedPost(s.alice, "thread root")

	comment, err := s.svc.AddComment(contexts.Feed, nil, s.bob, post.ID, "top level")
	s.Require().NoError(err)

	reply, err := s.svc.ReplyToComment(contexts.Feed, nil, s.carol, comment.ID, "second level")
	s.Require().NoError(err)

	_, err = s.svc.ReplyToComment(contexts.Feed, nil, s.alice, reply.ID, "third level")
	var vErr *ValidationError
	s.Require().ErrorAs(err, &vErr)
	s.Equal("cannot reply to a reply", vErr.Msg)
}

func (s *ContentServiceSuite) TestListCommentsBuildsTree() {
	post := s.createFeedPost(s.alice, "discuss")

	c1, err := s.svc.AddComment(contexts.Feed, nil, s.bob, post.ID, "first")
	s.Require().NoError(err)
	_, err = s.svc.ReplyToComment(contexts.Feed, nil, s.carol, c1.ID, "reply")
	s.Require().NoError(err)
	_, err = s.svc.AddComment(contexts.Feed, nil, s.carol, post.ID, "second")
	s.Require().NoError(err)

	tree, err := s.svc.ListComments(contexts.Feed, nil, s.alice, post.ID)
	s.Require().NoError(err)
	s.Require().Len(tree, 2)
	s.Equal("first", tree[0].Content)
	s.Equal("Bob", tree[0].Author.Name)
	s.Require().Len(tree[0].Replies, 1)
	s.Equal("Carol", tree[0].Replies[0].Author.Name)
	s.Equal("second", tree[1].Content)
}

func (s *ContentServiceSuite) TestBlockedAuthorHiddenBothWays() {
	post := s.createFeedPost(s.bob, "soon hidden")
	s.Require().NoError(s.db.Create(&models.Block{BlockerID: s.alice, BlockedID: s.bob}).Error)

	// Hidden from the blocker
	_, err := s.svc.GetPost(contexts.Feed, nil, s.alice, post.ID)
	var nfErr *NotFoundError
	s.Require().ErrorAs(err, &nfErr)

	// And the blocker's content is hidden from the blocked user
	alicePost := s.createFeedPost(s.alice, "mine")
	_, err = s.svc.GetPost(contexts.Feed, nil, s.bob, alicePost.ID)
	s.Require().ErrorAs(err, &nfErr)

	// List view excludes the blocked author but keeps everyone else
	views, err := s.svc.ListPosts(contexts.Feed, nil, s.alice)
	s.Require().NoError(err)
	s.Require().Len(views, 1)
	s.Equal(alicePost.ID, views[0].ID)
}

func (s *ContentServiceSuite) TestBlockedCommentAuthorExcludedFromTree() {
	post := s.createFeedPost(s.alice, "thread")

	c1, err := s.svc.AddComment(contexts.Feed, nil, s.bob, post.ID, "from bob")
	s.Require().NoError(err)
	_, err = s.svc.ReplyToComment(contexts.Feed, nil, s.carol, c1.ID, "from carol")
	s.Require().NoError(err)

	s.Require().NoError(s.db.Create(&models.Block{BlockerID: s.alice, BlockedID: s.bob}).Error)

	// Bob's comment disappears, Carol's reply surfaces as a root
	tree, err := s.svc.ListComments(contexts.Feed, nil, s.alice, post.ID)
	s.Require().NoError(err)
	s.Require().Len(tree, 1)
	s.Equal("from carol", tree[0].Content)
	s.Empty(tree[0].Replies)
}

func (s *ContentServiceSuite) TestDeletePostForbiddenForNonAuthor() {
	post := s.createFeedPost(s.alice, "not yours")

	err := s.svc.DeletePost(contexts.Feed, nil, s.bob, post.ID)
	var fErr *ForbiddenError
	s.Require().ErrorAs(err, &fErr)
}

func (s *ContentServiceSuite) TestDeletePostCascadeLeavesNoRows() {
	post := s.createFeedPost(s.alice, "doomed @[Bob](2)")

	comment, err := s.svc.AddComment(contexts.Feed, nil, s.bob, post.ID, "a comment")
	s.Require().NoError(err)
	_, err = s.svc.ReplyToComment(contexts.Feed, nil, s.carol, comment.ID, "a reply")
	s.Require().NoError(err)
	_, err = s.svc.LikePost(contexts.Feed, nil, s.bob, post.ID)
	s.Require().NoError(err)
	_, err = s.svc.LikeComment(contexts.Feed, nil, s.alice, comment.ID)
	s.Require().NoError(err)
	s.Require().NoError(s.db.Create(&models.Mention{
		SourceID: post.ID, SourceKind: models.TargetPost,
		MentionedUserID: s.bob, ActorID: s.alice,
	}).Error)

	s.drain()
	s.Require().NoError(s.svc.DeletePost(contexts.Feed, nil, s.alice, post.ID))

	var count int64
	s.Require().NoError(s.db.Model(&models.Post{}).Count(&count).Error)
	s.Zero(count, "post row remains")
	s.Require().NoError(s.db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&count).Error)
	s.Zero(count, "comment rows remain")
	s.Require().NoError(s.db.Model(&models.Like{}).Count(&count).Error)
	s.Zero(count, "like rows remain")
	s.Require().NoError(s.db.Model(&models.Mention{}).Count(&count).Error)
	s.Zero(count, "mention rows remain")
	s.Require().NoError(s.db.Model(&models.Notification{}).Count(&count).Error)
	s.Zero(count, "notification rows remain")
}

func (s *ContentServiceSuite) TestDeletePostCascadeRollsBackOnFailure() {
	post := s.createFeedPost(s.alice, "stays put")

	comment, err := s.svc.AddComment(contexts.Feed, nil, s.bob, post.ID, "kept")
	s.Require().NoError(err)
	_, err = s.svc.LikePost(contexts.Feed, nil, s.bob, post.ID)
	s.Require().NoError(err)

	s.drain()
	// Breaking the notifications table makes a late cascade step fail after
	// the like and comment deletes have already run inside the transaction
	s.Require().NoError(s.db.Migrator().DropTable(&models.Notification{}))

	err = s.svc.DeletePost(contexts.Feed, nil, s.alice, post.ID)
	var stErr *StoreError
	s.Require().ErrorAs(err, &stErr)

	var count int64
	s.Require().NoError(s.db.Model(&models.Post{}).Count(&count).Error)
	s.Equal(int64(1), count, "post row must survive a failed cascade")
	s.Require().NoError(s.db.Model(&models.Comment{}).Where("id = ?", comment.ID).Count(&count).Error)
	s.Equal(int64(1), count, "comment row must be restored by rollback")
	s.Require().NoError(s.db.Model(&models.Like{}).Count(&count).Error)
	s.Equal(int64(1), count, "like row must be restored by rollback")
}

func (s *ContentServiceSuite) TestDeleteCommentLeavesRepliesAsRoots() {
	post := s.createFeedPost(s.alice, "thread")

	parent, err := s.svc.AddComment(contexts.Feed, nil, s.bob, post.ID, "parent")
	s.Require().NoError(err)
	reply, err := s.svc.ReplyToComment(contexts.Feed, nil, s.carol, parent.ID, "survivor")
	s.Require().NoError(err)

	s.Require().NoError(s.svc.DeleteComment(contexts.Feed, nil, s.bob, parent.ID))

	tree, err := s.svc.ListComments(contexts.Feed, nil, s.alice, post.ID)
	s.Require().NoError(err)
	s.Require().Len(tree, 1)
	s.Equal(reply.ID, tree[0].ID)
	s.Empty(tree[0].Replies)
}

func (s *ContentServiceSuite) TestContextIsolation() {
	group := &models.Group{Name: "club", CreatorID: s.alice}
	s.Require().NoError(s.db.Create(group).Error)

	groupPost, err := s.svc.CreatePost(contexts.Group, &group.ID, s.alice, "group only")
	s.Require().NoError(err)
	feedPost := s.createFeedPost(s.alice, "feed only")

	// A group post is invisible through the feed surface and vice versa
	_, err = s.svc.GetPost(contexts.Feed, nil, s.bob, groupPost.ID)
	var nfErr *NotFoundError
	s.Require().ErrorAs(err, &nfErr)
	_, err = s.svc.GetPost(contexts.Group, &group.ID, s.bob, feedPost.ID)
	s.Require().ErrorAs(err, &nfErr)

	views, err := s.svc.ListPosts(contexts.Feed, nil, s.bob)
	s.Require().NoError(err)
	s.Require().Len(views, 1)
	s.Equal(feedPost.ID, views[0].ID)
}

func (s *ContentServiceSuite) TestGroupPostingRequiresMembership() {
	group := &models.Group{Name: "club", CreatorID: s.alice}
	s.Require().NoError(s.db.Create(group).Error)

	_, err := s.svc.CreatePost(contexts.Group, &group.ID, s.bob, "let me in")
	var fErr *ForbiddenError
	s.Require().ErrorAs(err, &fErr)

	s.Require().NoError(s.db.Create(&models.GroupMember{GroupID: group.ID, UserID: s.bob}).Error)
	_, err = s.svc.CreatePost(contexts.Group, &group.ID, s.bob, "now a member")
	s.Require().NoError(err)
}

func (s *ContentServiceSuite) TestGroupPostNotifiesCreator() {
	group := &models.Group{Name: "club", CreatorID: s.alice}
	s.Require().NoError(s.db.Create(group).Error)
	s.Require().NoError(s.db.Create(&models.GroupMember{GroupID: group.ID, UserID: s.bob}).Error)

	_, err := s.svc.CreatePost(contexts.Group, &group.ID, s.bob, "hello group")
	s.Require().NoError(err)

	s.drain()
	var rows []models.Notification
	s.Require().NoError(s.db.Find(&rows).Error)
	s.Require().Len(rows, 1)
	s.Equal(s.alice, rows[0].RecipientID)
	s.Equal(models.NotifGroupPost, rows[0].Type)
}

func (s *ContentServiceSuite) TestPrivateGroupHiddenFromOutsiders() {
	group := &models.Group{Name: "secret", CreatorID: s.alice, Privacy: models.GroupPrivate}
	s.Require().NoError(s.db.Create(group).Error)

	_, err := s.svc.CreatePost(contexts.Group, &group.ID, s.alice, "members only")
	s.Require().NoError(err)

	_, err = s.svc.ListPosts(contexts.Group, &group.ID, s.bob)
	var fErr *ForbiddenError
	s.Require().ErrorAs(err, &fErr)
}

func (s *ContentServiceSuite) TestEventPostingRequiresAttendance() {
	event := &models.Event{Title: "meetup", CreatorID: s.alice}
	s.Require().NoError(s.db.Create(event).Error)

	_, err := s.svc.CreatePost(contexts.Event, &event.ID, s.bob, "am I going?")
	var fErr *ForbiddenError
	s.Require().ErrorAs(err, &fErr)

	s.Require().NoError(s.db.Create(&models.EventAttendee{
		EventID: event.ID, UserID: s.bob, Status: models.AttendGoing,
	}).Error)
	_, err = s.svc.CreatePost(contexts.Event, &event.ID, s.bob, "going!")
	s.Require().NoError(err)
}

func (s *ContentServiceSuite) TestMarketplacePostOnMissingListing() {
	missing := uint(999)
	_, err := s.svc.CreatePost(contexts.Marketplace, &missing, s.alice, "is this available?")
	var nfErr *NotFoundError
	s.Require().ErrorAs(err, &nfErr)
}

func (s *ContentServiceSuite) TestMarketplaceQuestionsWork() {
	listing := &models.Listing{Title: "old bike", Price: 120, OwnerID: s.alice}
	s.Require().NoError(s.db.Create(listing).Error)

	post, err := s.svc.CreatePost(contexts.Marketplace, &listing.ID, s.bob, "still available?")
	s.Require().NoError(err)

	_, err = s.svc.AddComment(contexts.Marketplace, &listing.ID, s.alice, post.ID, "yes it is")
	s.Require().NoError(err)

	tree, err := s.svc.ListComments(contexts.Marketplace, &listing.ID, s.carol, post.ID)
	s.Require().NoError(err)
	s.Require().Len(tree, 1)
}

func TestContentServiceSuite(t *testing.T) {
	suite.Run(t, new(ContentServiceSuite))
}
