package app

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"miniblog/internal/model"
	"miniblog/internal/repository"
)

const maxTitleLength = 150

type ContentService struct {
	tx          *repository.Transactor
	postRepo    *repository.PostRepository
	commentRepo *repository.CommentRepository
	activity    ActivityPublisher
	now         func() time.Time
}

type CreatePostInput struct {
	AuthorID    uint
	Title       string
	Body        string
	CategoryIDs []uint
}

type EditPostInput struct {
	PostID      uint
	ActorID     uint
	Title       string
	Body        string
	CategoryIDs []uint
}

type AddCommentInput struct {
	PostID   uint
	AuthorID uint
	Body     string
}

func NewContentService(
	tx *repository.Transactor,
	postRepo *repository.PostRepository,
	commentRepo *repository.CommentRepository,
	activity ActivityPublisher,
	now func() time.Time,
) *ContentService {
	if now == nil {
		now = time.Now
	}
	return &ContentService{
		tx:          tx,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		activity:    activity,
		now:         now,
	}
}

func (s *ContentService) ListActivePosts() ([]model.Post, error) {
	return s.postRepo.ListActive()
}

func (s *ContentService) ListPostsByAuthor(authorID uint) ([]model.Post, error) {
	if authorID == 0 {
		return nil, ErrNotFound
	}
	return s.postRepo.ListActiveByAuthor(authorID)
}

// GetPost does not filter on IsActive: a soft-deleted post is still
// reachable by id.
func (s *ContentService) GetPost(postID uint) (*model.Post, error) {
	if postID == 0 {
		return nil, ErrNotFound
	}
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	return post, nil
}

func (s *ContentService) CreatePost(ctx context.Context, input CreatePostInput) (*model.Post, error) {
	if input.AuthorID == 0 {
		return nil, ErrUnauthorized
	}
	title, body, err := normalizePost(input.Title, input.Body)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		Title:     title,
		Body:      body,
		AuthorID:  input.AuthorID,
		IsActive:  true,
		CreatedAt: s.now(),
	}
	err = s.tx.WithinTx(func(repos repository.Repos) error {
		categories, err := repos.Categories.ListByIDs(uniqueIDs(input.CategoryIDs))
		if err != nil {
			return err
		}
		if err := repos.Posts.Create(post); err != nil {
			return err
		}
		if err := repos.Posts.ReplaceCategories(post.ID, categoryIDs(categories)); err != nil {
			return err
		}
		post.Categories = categories
		return nil
	})
	if err != nil {
		return nil, err
	}
	if post.Categories == nil {
		post.Categories = []model.Category{}
	}

	publishActivity(ctx, s.activity, model.ActivityLog{
		Kind:       model.ActivityPostCreated,
		ActorID:    post.AuthorID,
		PostID:     post.ID,
		OccurredAt: post.CreatedAt,
	})
	return post, nil
}

// EditPost replaces title, body and the whole category set. Only the author
// may edit; the post is left untouched otherwise.
func (s *ContentService) EditPost(ctx context.Context, input EditPostInput) (*model.Post, error) {
	if input.ActorID == 0 {
		return nil, ErrUnauthorized
	}
	if input.PostID == 0 {
		return nil, ErrNotFound
	}

	var updated *model.Post
	err := s.tx.WithinTx(func(repos repository.Repos) error {
		post, err := repos.Posts.GetByIDForUpdate(input.PostID)
		if err != nil {
			return err
		}
		if post == nil {
			return ErrNotFound
		}
		if post.AuthorID != input.ActorID {
			return ErrForbidden
		}
		title, body, err := normalizePost(input.Title, input.Body)
		if err != nil {
			return err
		}

		categories, err := repos.Categories.ListByIDs(uniqueIDs(input.CategoryIDs))
		if err != nil {
			return err
		}
		if err := repos.Posts.UpdateContent(post.ID, title, body); err != nil {
			return err
		}
		if err := repos.Posts.ReplaceCategories(post.ID, categoryIDs(categories)); err != nil {
			return err
		}
		post.Title = title
		post.Body = body
		post.Categories = categories
		if post.Categories == nil {
			post.Categories = []model.Category{}
		}
		updated = post
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishActivity(ctx, s.activity, model.ActivityLog{
		Kind:       model.ActivityPostEdited,
		ActorID:    input.ActorID,
		PostID:     updated.ID,
		OccurredAt: s.now(),
	})
	return updated, nil
}

// SoftDeletePost hides the post from listings. There is no way back.
func (s *ContentService) SoftDeletePost(ctx context.Context, postID, actorID uint) error {
	if actorID == 0 {
		return ErrUnauthorized
	}
	if postID == 0 {
		return ErrNotFound
	}

	err := s.tx.WithinTx(func(repos repository.Repos) error {
		post, err := repos.Posts.GetByIDForUpdate(postID)
		if err != nil {
			return err
		}
		if post == nil {
			return ErrNotFound
		}
		if post.AuthorID != actorID {
			return ErrForbidden
		}
		if !post.IsActive {
			return nil
		}
		return repos.Posts.Deactivate(post.ID)
	})
	if err != nil {
		return err
	}

	publishActivity(ctx, s.activity, model.ActivityLog{
		Kind:       model.ActivityPostDeleted,
		ActorID:    actorID,
		PostID:     postID,
		OccurredAt: s.now(),
	})
	return nil
}

// AddComment accepts comments on soft-deleted posts too; only a missing post
// is rejected.
func (s *ContentService) AddComment(ctx context.Context, input AddCommentInput) (*model.Comment, error) {
	if input.AuthorID == 0 {
		return nil, ErrUnauthorized
	}
	if input.PostID == 0 {
		return nil, ErrNotFound
	}
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, ErrInvalidInput
	}

	comment := &model.Comment{
		Body:      body,
		AuthorID:  input.AuthorID,
		PostID:    input.PostID,
		CreatedAt: s.now(),
	}
	err := s.tx.WithinTx(func(repos repository.Repos) error {
		post, err := repos.Posts.GetByID(input.PostID)
		if err != nil {
			return err
		}
		if post == nil {
			return ErrNotFound
		}
		return repos.Comments.Create(comment)
	})
	if err != nil {
		return nil, err
	}

	publishActivity(ctx, s.activity, model.ActivityLog{
		Kind:       model.ActivityCommentCreated,
		ActorID:    comment.AuthorID,
		PostID:     comment.PostID,
		CommentID:  comment.ID,
		OccurredAt: comment.CreatedAt,
	})
	return comment, nil
}

func (s *ContentService) ListComments(postID uint) ([]model.Comment, error) {
	if _, err := s.GetPost(postID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPostID(postID)
}

// DeleteComment removes the row for good. The comment author and the author
// of the parent post may delete it.
func (s *ContentService) DeleteComment(ctx context.Context, commentID, actorID uint) error {
	if actorID == 0 {
		return ErrUnauthorized
	}
	if commentID == 0 {
		return ErrNotFound
	}

	var postID uint
	err := s.tx.WithinTx(func(repos repository.Repos) error {
		comment, err := repos.Comments.GetByIDForUpdate(commentID)
		if err != nil {
			return err
		}
		if comment == nil {
			return ErrNotFound
		}
		postID = comment.PostID

		if comment.AuthorID != actorID {
			post, err := repos.Posts.GetByID(comment.PostID)
			if err != nil {
				return err
			}
			if post == nil || post.AuthorID != actorID {
				return ErrForbidden
			}
		}
		return repos.Comments.DeleteByID(comment.ID)
	})
	if err != nil {
		return err
	}

	publishActivity(ctx, s.activity, model.ActivityLog{
		Kind:       model.ActivityCommentDeleted,
		ActorID:    actorID,
		PostID:     postID,
		CommentID:  commentID,
		OccurredAt: s.now(),
	})
	return nil
}

func normalizePost(title, body string) (string, string, error) {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	if title == "" || body == "" || utf8.RuneCountInString(title) > maxTitleLength {
		return "", "", ErrInvalidInput
	}
	return title, body, nil
}

func categoryIDs(categories []model.Category) []uint {
	ids := make([]uint, 0, len(categories))
	for _, category := range categories {
		ids = append(ids, category.ID)
	}
	return ids
}
