package services

import (
	"fmt"

	"github.com/nexusfeed/backend/internal/mentions"
	"github.com/nexusfeed/backend/internal/models"
	"github.com/nexusfeed/backend/internal/notify"
	"github.com/nexusfeed/backend/internal/repositories"
	"github.com/nexusfeed/backend/internal/visibility"
)

// MentionService registers mentions parsed out of post/comment markup.
// Registration is an explicit call after content creation: the body text
// keeps the markup verbatim, and this service verifies the claimed user
// actually appears in it before recording anything.
type MentionService struct {
	postRepo    repositories.PostRepository
	commentRepo repositories.CommentRepository
	userRepo    repositories.UserRepository
	mentionRepo repositories.MentionRepository
	filter      *visibility.Filter
	notifier    *notify.Notifier
}

// NewMentionService creates a new MentionService
func NewMentionService(
	postRepo repositories.PostRepository,
	commentRepo repositories.CommentRepository,
	userRepo repositories.UserRepository,
	mentionRepo repositories.MentionRepository,
	filter *visibility.Filter,
	notifier *notify.Notifier,
) *MentionService {
	return &MentionService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		mentionRepo: mentionRepo,
		filter:      filter,
		notifier:    notifier,
	}
}

// MentionInPost records a mention inside a post and notifies the mentioned
// user. Fails with a forbidden error when a block exists between actor and
// target, rather than dropping the mention silently.
func (s *MentionService) MentionInPost(actorID, postID, mentionedUserID uint, groupID *uint) (*models.Mention, error) {
	post, err := s.postRepo.GetPostByID(postID)
	if err != nil {
		return nil, notFoundOrStore(err, "post not found")
	}
	return s.record(actorID, mentionedUserID, post.ID, models.TargetPost, post.Content, groupID, "post")
}

// MentionInComment records a mention inside a comment and notifies the
// mentioned user
func (s *MentionService) MentionInComment(actorID, commentID, mentionedUserID uint, groupID *uint) (*models.Mention, error) {
	comment, err := s.commentRepo.GetCommentByID(commentID)
	if err != nil {
		return nil, notFoundOrStore(err, "comment not found")
	}
	return s.record(actorID, mentionedUserID, comment.ID, models.TargetComment, comment.Content, groupID, "comment")
}

func (s *MentionService) record(actorID, mentionedUserID, sourceID uint, sourceKind, body string, groupID *uint, noun string) (*models.Mention, error) {
	mentioned, err := s.userRepo.GetUserByID(mentionedUserID)
	if err != nil {
		return nil, notFoundOrStore(err, "mentioned user not found")
	}

	if !mentions.ContainsUser(body, mentionedUserID) {
		return nil, &ValidationError{Msg: fmt.Sprintf("user is not mentioned in the %s", noun)}
	}

	visible, err := s.filter.IsVisible(actorID, mentioned.ID)
	if err != nil {
		return nil, &StoreError{Err: err}
	}
	if !visible {
		return nil, &ForbiddenError{Msg: "you cannot mention this user"}
	}

	mention := &models.Mention{
		SourceID:        sourceID,
		SourceKind:      sourceKind,
		MentionedUserID: mentioned.ID,
		ActorID:         actorID,
		ContextID:       groupID,
	}
	if err := s.mentionRepo.CreateMention(mention); err != nil {
		return nil, &StoreError{Err: err}
	}

	refKind := models.RefPost
	if sourceKind == models.TargetComment {
		refKind = models.RefComment
	}
	s.notifier.Notify(mentioned.ID, models.NotifMention, sourceID, refKind, actorID, groupID,
		fmt.Sprintf("%s mentioned you in a %s", s.actorName(actorID), noun))
	return mention, nil
}

// MentionsOfUser returns every recorded mention of the caller, newest first
func (s *MentionService) MentionsOfUser(userID uint) ([]models.Mention, error) {
	list, err := s.mentionRepo.ListMentionsForUser(userID)
	if err != nil {
		return nil, &StoreError{Err: err}
	}
	return list, nil
}

func (s *MentionService) actorName(userID uint) string {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return "Someone"
	}
	return user.Name
}
