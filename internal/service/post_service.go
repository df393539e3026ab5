package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"postboard/internal/middleware"
	"postboard/internal/models"
	"postboard/internal/notifications"
	"postboard/internal/repository"
	"postboard/internal/validation"
)

// ImageStorer persists post images. *ImageService implements it.
type ImageStorer interface {
	Store(ctx context.Context, userID uint, in ImageUpload) (StoredImage, error)
	Remove(ctx context.Context, img StoredImage) error
}

type PostService struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
	images    ImageStorer
	events    EventPublisher
	isAdmin   func(ctx context.Context, userID uint) (bool, error)
}

type CreatePostInput struct {
	AuthorID uint
	Text     string
	GroupID  *uint
	Image    *ImageUpload
}

type UpdatePostInput struct {
	PostID   uint
	EditorID uint
	Text     string
	GroupID  *uint
	Image    *ImageUpload
	// ClearImage drops the current image when no new one is uploaded.
	ClearImage bool
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	images ImageStorer,
	events EventPublisher,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *PostService {
	return &PostService{
		postRepo:  postRepo,
		groupRepo: groupRepo,
		images:    images,
		events:    events,
		isAdmin:   isAdmin,
	}
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	groupID, err := s.validate(ctx, in.Text, in.GroupID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Text:     strings.TrimSpace(in.Text),
		AuthorID: in.AuthorID,
		GroupID:  groupID,
	}
	if in.Image != nil {
		stored, err := s.storeImage(ctx, in.AuthorID, *in.Image)
		if err != nil {
			return nil, err
		}
		post.Image, post.Cover = stored.Key, stored.Cover
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		s.discardImage(ctx, storedImageOf(post))
		return nil, err
	}

	ev := notifications.Event{Type: notifications.EventPostCreated, ActorID: in.AuthorID, PostID: post.ID, AuthorID: in.AuthorID}
	if groupID != nil {
		ev.GroupID = *groupID
	}
	recordCreated(ctx, s.events, "post", ev)

	return s.postRepo.GetByID(ctx, post.ID)
}

// UpdatePost applies an edit by the post's author. Anyone else gets ErrNotAuthor
// and the post is left untouched.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != in.EditorID {
		return nil, ErrNotAuthor
	}

	groupID, err := s.validate(ctx, in.Text, in.GroupID)
	if err != nil {
		return nil, err
	}

	oldImage := storedImageOf(post)
	switch {
	case in.Image != nil:
		stored, err := s.storeImage(ctx, in.EditorID, *in.Image)
		if err != nil {
			return nil, err
		}
		post.Image, post.Cover = stored.Key, stored.Cover
	case in.ClearImage:
		post.Image, post.Cover = "", ""
	}

	post.Text = strings.TrimSpace(in.Text)
	post.GroupID = groupID
	post.Group = nil
	if err := s.postRepo.Update(ctx, post); err != nil {
		if post.Image != oldImage.Key {
			s.discardImage(ctx, storedImageOf(post))
		}
		return nil, err
	}
	if post.Image != oldImage.Key {
		s.discardImage(ctx, oldImage)
	}

	return s.postRepo.GetByID(ctx, post.ID)
}

// DeletePost removes a post and its comments. Only the author or an admin may do so.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != in.UserID {
		if s.isAdmin == nil {
			return nil, ErrNotAuthor
		}
		admin, err := s.isAdmin(ctx, in.UserID)
		if err != nil {
			return nil, err
		}
		if !admin {
			return nil, ErrNotAuthor
		}
	}

	if err := s.postRepo.Delete(ctx, in.PostID); err != nil {
		return nil, err
	}
	s.discardImage(ctx, storedImageOf(post))
	return post, nil
}

// validate checks the form fields and resolves the optional group reference.
// A zero group id means no group.
func (s *PostService) validate(ctx context.Context, text string, groupID *uint) (*uint, error) {
	fields := map[string]string{}
	if err := validation.ValidatePostText(text); err != nil {
		fields["text"] = err.Error()
	}

	if groupID != nil && *groupID == 0 {
		groupID = nil
	}
	if groupID != nil {
		if _, err := s.groupRepo.GetByID(ctx, *groupID); err != nil {
			if !models.IsCode(err, models.CodeNotFound) {
				return nil, err
			}
			fields["group"] = "Select a valid choice. That choice is not one of the available choices."
		}
	}

	if len(fields) > 0 {
		return nil, models.NewFieldValidationError(fields)
	}
	return groupID, nil
}

func (s *PostService) storeImage(ctx context.Context, userID uint, in ImageUpload) (StoredImage, error) {
	if s.images == nil {
		return StoredImage{}, models.NewFieldValidationError(map[string]string{"image": "Image uploads are not available"})
	}
	stored, err := s.images.Store(ctx, userID, in)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeValidation {
			return StoredImage{}, models.NewFieldValidationError(map[string]string{"image": appErr.Message})
		}
		return StoredImage{}, err
	}
	return stored, nil
}

func storedImageOf(post *models.Post) StoredImage {
	return StoredImage{Key: post.Image, Cover: post.Cover}
}

func (s *PostService) discardImage(ctx context.Context, img StoredImage) {
	if img.Key == "" || s.images == nil {
		return
	}
	if err := s.images.Remove(ctx, img); err != nil {
		middleware.Logger.WarnContext(ctx, "image cleanup failed",
			slog.String("key", img.Key),
			slog.String("error", err.Error()),
		)
	}
}
