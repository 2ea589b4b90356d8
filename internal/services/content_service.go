package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/nexusfeed/backend/internal/comments"
	"github.com/nexusfeed/backend/internal/contexts"
	"github.com/nexusfeed/backend/internal/models"
	"github.com/nexusfeed/backend/internal/notify"
	"github.com/nexusfeed/backend/internal/repositories"
	"github.com/nexusfeed/backend/internal/visibility"
	"gorm.io/gorm"
)

// ContentService implements the interaction operations shared by all four
// content contexts. Every method takes the context descriptor and key, so the
// same code path serves feed, group, event and marketplace posts.
type ContentService struct {
	postRepo    repositories.PostRepository
	commentRepo repositories.CommentRepository
	likeRepo    repositories.LikeRepository
	userRepo    repositories.UserRepository
	groupRepo   repositories.GroupRepository
	eventRepo   repositories.EventRepository
	listingRepo repositories.ListingRepository
	cascadeRepo repositories.CascadeRepository
	filter      *visibility.Filter
	notifier    *notify.Notifier
	policy      *bluemonday.Policy
}

// NewContentService creates a new ContentService
func NewContentService(
	postRepo repositories.PostRepository,
	commentRepo repositories.CommentRepository,
	likeRepo repositories.LikeRepository,
	userRepo repositories.UserRepository,
	groupRepo repositories.GroupRepository,
	eventRepo repositories.EventRepository,
	listingRepo repositories.ListingRepository,
	cascadeRepo repositories.CascadeRepository,
	filter *visibility.Filter,
	notifier *notify.Notifier,
) *ContentService {
	return &ContentService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		likeRepo:    likeRepo,
		userRepo:    userRepo,
		groupRepo:   groupRepo,
		eventRepo:   eventRepo,
		listingRepo: listingRepo,
		cascadeRepo: cascadeRepo,
		filter:      filter,
		notifier:    notifier,
		policy:      bluemonday.UGCPolicy(),
	}
}

// CreatePost creates a post in the given context. Group and event posts
// additionally notify the context's creator.
func (s *ContentService) CreatePost(desc contexts.Descriptor, contextID *uint, userID uint, content string) (*models.PostView, error) {
	content = s.sanitize(content)
	if content == "" {
		return nil, &ValidationError{Msg: "content is required"}
	}

	creatorID, err := s.authorizeWrite(desc, contextID, userID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Context:   desc.Kind,
		ContextID: contextID,
		UserID:    userID,
		Content:   content,
	}
	if err := s.postRepo.CreatePost(post); err != nil {
		return nil, &StoreError{Err: err}
	}

	if desc.PostNotifType != "" && creatorID != 0 {
		s.notifier.Notify(creatorID, desc.PostNotifType, post.ID, models.RefPost, userID, contextID,
			fmt.Sprintf("%s posted in your %s", s.actorName(userID), desc.Kind))
	}

	return s.postView(post, map[uint]models.UserCompact{})
}

// ListPosts returns the context's posts, newest first, with content from
// blocked-either-way authors excluded
func (s *ContentService) ListPosts(desc contexts.Descriptor, contextID *uint, viewerID uint) ([]models.PostView, error) {
	if err := s.authorizeRead(desc, contextID, viewerID); err != nil {
		return nil, err
	}

	blocked, err := s.filter.BlockedIDs(viewerID)
	if err != nil {
		return nil, &StoreError{Err: err}
	}

	posts, err := s.postRepo.ListScopedPosts(desc.Kind, contextID, blocked)
	if err != nil {
		return nil, &StoreError{Err: err}
	}

	cache := map[uint]models.UserCompact{}
	views := make([]models.PostView, 0, len(posts))
	for i := range posts {
		view, err := s.postView(&posts[i], cache)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// GetPost returns one post, 404 both when absent and when hidden by a block
func (s *ContentService) GetPost(desc contexts.Descriptor, contextID *uint, viewerID, postID uint) (*models.PostView, error) {
	post, err := s.visiblePost(desc, contextID, viewerID, postID)
	if err != nil {
		return nil, err
	}
	return s.postView(post, map[uint]models.UserCompact{})
}

// DeletePost deletes a post and everything referencing it. Author only; the
// cascade runs synchronously and atomically before this returns.
func (s *ContentService) DeletePost(desc contexts.Descriptor, contextID *uint, userID, postID uint) error {
	post, err := s.postRepo.GetScopedPost(desc.Kind, contextID, postID)
	if err != nil {
		return notFoundOrStore(err, "post not found")
	}
	if post.UserID != userID {
		return &ForbiddenError{Msg: "you are not authorized to delete this post"}
	}
	if err := s.cascadeRepo.DeletePostCascade(post.ID); err != nil {
		return &StoreError{Err: err}
	}
	return nil
}

// LikePost likes a post and notifies its author. A duplicate like is rejected
// by the store's unique index, not deduplicated.
func (s *ContentService) LikePost(desc contexts.Descriptor, contextID *uint, userID, postID uint) (*models.Like, error) {
	post, err := s.visiblePost(desc, contextID, userID, postID)
	if err != nil {
		return nil, err
	}

	like := &models.Like{TargetID: post.ID, TargetKind: models.TargetPost, UserID: userID}
	if err := s.likeRepo.CreateLike(like); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Msg: "post already liked"}
		}
		return nil, &StoreError{Err: err}
	}

	s.notifier.Notify(post.UserID, models.NotifLike, post.ID, models.RefPost, userID, contextID,
		fmt.Sprintf("%s liked your %s", s.actorName(userID), desc.Label))
	return like, nil
}

// UnlikePost removes the caller's like from a post. No notification.
func (s *ContentService) UnlikePost(desc contexts.Descriptor, contextID *uint, userID, postID uint) error {
	post, err := s.visiblePost(desc, contextID, userID, postID)
	if err != nil {
		return err
	}
	if err := s.likeRepo.DeleteLike(models.TargetPost, post.ID, userID); err != nil {
		return notFoundOrStore(err, "like not found")
	}
	return nil
}

// PostLikesCount returns the number of likes on a post
func (s *ContentService) PostLikesCount(desc contexts.Descriptor, contextID *uint, viewerID, postID uint) (int64, error) {
	post, err := s.visiblePost(desc, contextID, viewerID, postID)
	if err != nil {
		return 0, err
	}
	count, err := s.likeRepo.GetLikesCount(models.TargetPost, post.ID)
	if err != nil {
		return 0, &StoreError{Err: err}
	}
	return count, nil
}

// HasLikedPost reports whether the viewer has liked a post
func (s *ContentService) HasLikedPost(desc contexts.Descriptor, contextID *uint, viewerID, postID uint) (bool, error) {
	post, err := s.visiblePost(desc, contextID, viewerID, postID)
	if err != nil {
		return false, err
	}
	liked, err := s.likeRepo.HasUserLiked(models.TargetPost, post.ID, viewerID)
	if err != nil {
		return false, &StoreError{Err: err}
	}
	return liked, nil
}

// AddComment creates a top-level comment and notifies the post author
func (s *ContentService) AddComment(desc contexts.Descriptor, contextID *uint, userID, postID uint, content string) (*models.CommentView, error) {
	content = s.sanitize(content)
	if content == "" {
		return nil, &ValidationError{Msg: "content is required"}
	}

	post, err := s.visiblePost(desc, contextID, userID, postID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{PostID: post.ID, UserID: userID, Content: content}
	if err := s.commentRepo.CreateComment(comment); err != nil {
		return nil, &StoreError{Err: err}
	}

	s.notifier.Notify(post.UserID, models.NotifComment, comment.ID, models.RefComment, userID, contextID,
		fmt.Sprintf("%s commented on your %s", s.actorName(userID), desc.Label))
	return s.commentView(comment, map[uint]models.UserCompact{}), nil
}

// ReplyToComment creates a reply under a top-level comment and notifies the
// parent comment's author. Replying to a reply is rejected: threads are two
// levels deep.
func (s *ContentService) ReplyToComment(desc contexts.Descriptor, contextID *uint, userID, parentID uint, content string) (*models.CommentView, error) {
	content = s.sanitize(content)
	if content == "" {
		return nil, &ValidationError{Msg: "content is required"}
	}

	parent, _, err := s.visibleComment(desc, contextID, userID, parentID)
	if err != nil {
		return nil, err
	}
	if parent.ParentID != nil {
		return nil, &ValidationError{Msg: "cannot reply to a reply"}
	}

	reply := &models.Comment{PostID: parent.PostID, ParentID: &parent.ID, UserID: userID, Content: content}
	if err := s.commentRepo.CreateComment(reply); err != nil {
		return nil, &StoreError{Err: err}
	}

	s.notifier.Notify(parent.UserID, models.NotifReply, reply.ID, models.RefComment, userID, contextID,
		fmt.Sprintf("%s replied to your comment", s.actorName(userID)))
	return s.commentView(reply, map[uint]models.UserCompact{}), nil
}

// ListComments returns the post's comments as a two-level tree in
// chronological order, with blocked authors excluded
func (s *ContentService) ListComments(desc contexts.Descriptor, contextID *uint, viewerID, postID uint) ([]*comments.Node, error) {
	post, err := s.visiblePost(desc, contextID, viewerID, postID)
	if err != nil {
		return nil, err
	}

	blocked, err := s.filter.BlockedIDs(viewerID)
	if err != nil {
		return nil, &StoreError{Err: err}
	}

	flat, err := s.commentRepo.ListCommentsByPostID(post.ID, blocked)
	if err != nil {
		return nil, &StoreError{Err: err}
	}

	tree := comments.BuildTree(flat)
	cache := map[uint]models.UserCompact{}
	for _, root := range tree {
		root.Author = s.compactUser(root.UserID, cache)
		for _, reply := range root.Replies {
			reply.Author = s.compactUser(reply.UserID, cache)
		}
	}
	return tree, nil
}

// GetComment returns one comment, 404 when absent, out of context, or hidden
func (s *ContentService) GetComment(desc contexts.Descriptor, contextID *uint, viewerID, commentID uint) (*models.CommentView, error) {
	comment, _, err := s.visibleComment(desc, contextID, viewerID, commentID)
	if err != nil {
		return nil, err
	}
	return s.commentView(comment, map[uint]models.UserCompact{}), nil
}

// DeleteComment deletes a comment and everything referencing it. Author only.
// Replies are left in place and surface as root comments afterwards.
func (s *ContentService) DeleteComment(desc contexts.Descriptor, contextID *uint, userID, commentID uint) error {
	comment, err := s.commentRepo.GetCommentByID(commentID)
	if err != nil {
		return notFoundOrStore(err, "comment not found")
	}
	if _, err := s.postRepo.GetScopedPost(desc.Kind, contextID, comment.PostID); err != nil {
		return notFoundOrStore(err, "comment not found")
	}
	if comment.UserID != userID {
		return &ForbiddenError{Msg: "you are not authorized to delete this comment"}
	}
	if err := s.cascadeRepo.DeleteCommentCascade(comment.ID); err != nil {
		return &StoreError{Err: err}
	}
	return nil
}

// LikeComment likes a comment and notifies its author
func (s *ContentService) LikeComment(desc contexts.Descriptor, contextID *uint, userID, commentID uint) (*models.Like, error) {
	comment, _, err := s.visibleComment(desc, contextID, userID, commentID)
	if err != nil {
		return nil, err
	}

	like := &models.Like{TargetID: comment.ID, TargetKind: models.TargetComment, UserID: userID}
	if err := s.likeRepo.CreateLike(like); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Msg: "comment already liked"}
		}
		return nil, &StoreError{Err: err}
	}

	s.notifier.Notify(comment.UserID, models.NotifLike, comment.ID, models.RefComment, userID, contextID,
		fmt.Sprintf("%s liked your comment", s.actorName(userID)))
	return like, nil
}

// UnlikeComment removes the caller's like from a comment
func (s *ContentService) UnlikeComment(desc contexts.Descriptor, contextID *uint, userID, commentID uint) error {
	comment, _, err := s.visibleComment(desc, contextID, userID, commentID)
	if err != nil {
		return err
	}
	if err := s.likeRepo.DeleteLike(models.TargetComment, comment.ID, userID); err != nil {
		return notFoundOrStore(err, "like not found")
	}
	return nil
}

// authorizeRead applies the context's read access layer on top of the block
// filter: private groups need membership, private events need attendance,
// friends-only events need an accepted friend edge.
func (s *ContentService) authorizeRead(desc contexts.Descriptor, contextID *uint, viewerID uint) error {
	if desc.RequiresKey() && contextID == nil {
		return &ValidationError{Msg: "missing context key"}
	}
	switch desc.Kind {
	case models.ContextGroup:
		group, err := s.groupRepo.GetGroupByID(*contextID)
		if err != nil {
			return notFoundOrStore(err, "group not found")
		}
		ok, err := s.filter.CanViewGroup(viewerID, group)
		if err != nil {
			return &StoreError{Err: err}
		}
		if !ok {
			return &ForbiddenError{Msg: "you do not have access to this group"}
		}
	case models.ContextEvent:
		event, err := s.eventRepo.GetEventByID(*contextID)
		if err != nil {
			return notFoundOrStore(err, "event not found")
		}
		ok, err := s.filter.CanViewEvent(viewerID, event)
		if err != nil {
			return &StoreError{Err: err}
		}
		if !ok {
			return &ForbiddenError{Msg: "you do not have access to this event"}
		}
	case models.ContextMarketplace:
		if _, err := s.listingRepo.GetListingByID(*contextID); err != nil {
			return notFoundOrStore(err, "listing not found")
		}
	}
	return nil
}

// authorizeWrite applies the context's posting rule and returns the context
// creator's id for owner fanout (zero when the context has no creator to
// notify)
func (s *ContentService) authorizeWrite(desc contexts.Descriptor, contextID *uint, userID uint) (uint, error) {
	if desc.RequiresKey() && contextID == nil {
		return 0, &ValidationError{Msg: "missing context key"}
	}
	switch desc.Kind {
	case models.ContextGroup:
		group, err := s.groupRepo.GetGroupByID(*contextID)
		if err != nil {
			return 0, notFoundOrStore(err, "group not found")
		}
		if userID != group.CreatorID {
			member, err := s.groupRepo.IsMember(group.ID, userID)
			if err != nil {
				return 0, &StoreError{Err: err}
			}
			if !member {
				return 0, &ForbiddenError{Msg: "only group members can post"}
			}
		}
		return group.CreatorID, nil
	case models.ContextEvent:
		event, err := s.eventRepo.GetEventByID(*contextID)
		if err != nil {
			return 0, notFoundOrStore(err, "event not found")
		}
		if userID != event.CreatorID {
			attending, err := s.eventRepo.IsAttending(event.ID, userID)
			if err != nil {
				return 0, &StoreError{Err: err}
			}
			if !attending {
				return 0, &ForbiddenError{Msg: "only event attendees can post"}
			}
		}
		return event.CreatorID, nil
	case models.ContextMarketplace:
		listing, err := s.listingRepo.GetListingByID(*contextID)
		if err != nil {
			return 0, notFoundOrStore(err, "listing not found")
		}
		return listing.OwnerID, nil
	default:
		return 0, nil
	}
}

// visiblePost fetches a post scoped to the context and runs the block
// predicate; a hidden post is indistinguishable from an absent one
func (s *ContentService) visiblePost(desc contexts.Descriptor, contextID *uint, viewerID, postID uint) (*models.Post, error) {
	if err := s.authorizeRead(desc, contextID, viewerID); err != nil {
		return nil, err
	}
	post, err := s.postRepo.GetScopedPost(desc.Kind, contextID, postID)
	if err != nil {
		return nil, notFoundOrStore(err, "post not found")
	}
	visible, err := s.filter.IsVisible(viewerID, post.UserID)
	if err != nil {
		return nil, &StoreError{Err: err}
	}
	if !visible {
		return nil, &NotFoundError{Msg: "post not found"}
	}
	return post, nil
}

// visibleComment fetches a comment, confirms its post belongs to the context,
// and runs the block predicate against both the comment and post authors
func (s *ContentService) visibleComment(desc contexts.Descriptor, contextID *uint, viewerID, commentID uint) (*models.Comment, *models.Post, error) {
	if err := s.authorizeRead(desc, contextID, viewerID); err != nil {
		return nil, nil, err
	}
	comment, err := s.commentRepo.GetCommentByID(commentID)
	if err != nil {
		return nil, nil, notFoundOrStore(err, "comment not found")
	}
	post, err := s.postRepo.GetScopedPost(desc.Kind, contextID, comment.PostID)
	if err != nil {
		return nil, nil, notFoundOrStore(err, "comment not found")
	}
	for _, ownerID := range []uint{comment.UserID, post.UserID} {
		visible, err := s.filter.IsVisible(viewerID, ownerID)
		if err != nil {
			return nil, nil, &StoreError{Err: err}
		}
		if !visible {
			return nil, nil, &NotFoundError{Msg: "comment not found"}
		}
	}
	return comment, post, nil
}

func (s *ContentService) postView(post *models.Post, cache map[uint]models.UserCompact) (*models.PostView, error) {
	likes, err := s.likeRepo.GetLikesCount(models.TargetPost, post.ID)
	if err != nil {
		return nil, &StoreError{Err: err}
	}
	commentCount, err := s.commentRepo.CountCommentsByPostID(post.ID)
	if err != nil {
		return nil, &StoreError{Err: err}
	}
	return &models.PostView{
		Post:          *post,
		Author:        s.compactUser(post.UserID, cache),
		LikesCount:    likes,
		CommentsCount: commentCount,
	}, nil
}

func (s *ContentService) commentView(comment *models.Comment, cache map[uint]models.UserCompact) *models.CommentView {
	return &models.CommentView{
		Comment: *comment,
		Author:  s.compactUser(comment.UserID, cache),
	}
}

func (s *ContentService) compactUser(id uint, cache map[uint]models.UserCompact) models.UserCompact {
	if compact, ok := cache[id]; ok {
		return compact
	}
	user, err := s.userRepo.GetUserByID(id)
	if err != nil {
		return models.UserCompact{ID: id}
	}
	compact := user.ToCompact()
	cache[id] = compact
	return compact
}

func (s *ContentService) actorName(userID uint) string {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return "Someone"
	}
	return user.Name
}

func (s *ContentService) sanitize(content string) string {
	return strings.TrimSpace(s.policy.Sanitize(content))
}
