package service

import (
	"context"
	"strings"

	"postboard/internal/cache"
	"postboard/internal/models"
	"postboard/internal/observability"
	"postboard/internal/repository"
	"postboard/internal/validation"

	"github.com/redis/go-redis/v9"
)

type GroupService struct {
	groupRepo repository.GroupRepository
	rdb       *redis.Client
}

type CreateGroupInput struct {
	UserID      uint
	Title       string
	Slug        string
	Description string
}

// NewGroupService creates a group service. rdb may be nil, which disables lookup caching.
func NewGroupService(groupRepo repository.GroupRepository, rdb *redis.Client) *GroupService {
	return &GroupService{groupRepo: groupRepo, rdb: rdb}
}

func (s *GroupService) CreateGroup(ctx context.Context, in CreateGroupInput) (*models.Group, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)

	fields := map[string]string{}
	if err := validation.ValidateGroupTitle(in.Title); err != nil {
		fields["title"] = err.Error()
	}
	if err := validation.ValidateGroupSlug(in.Slug); err != nil {
		fields["slug"] = err.Error()
	}
	if len(fields) > 0 {
		return nil, models.NewFieldValidationError(fields)
	}

	group := &models.Group{
		Title:       in.Title,
		Slug:        in.Slug,
		Description: strings.TrimSpace(in.Description),
	}
	if in.UserID != 0 {
		creator := in.UserID
		group.CreatedByUserID = &creator
	}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, err
	}
	observability.ContentCreated.WithLabelValues("group").Inc()
	return group, nil
}

// GetBySlug is served from the cache when Redis is available.
func (s *GroupService) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	return cache.Aside(ctx, s.rdb, cache.GroupKey(slug), cache.GroupTTL, func(ctx context.Context) (*models.Group, error) {
		return s.groupRepo.GetBySlug(ctx, slug)
	})
}

func (s *GroupService) GetByID(ctx context.Context, id uint) (*models.Group, error) {
	return s.groupRepo.GetByID(ctx, id)
}

func (s *GroupService) ListGroups(ctx context.Context) ([]models.Group, error) {
	return s.groupRepo.List(ctx)
}

// DeleteGroup removes the group; its posts stay, ungrouped.
func (s *GroupService) DeleteGroup(ctx context.Context, slug string) error {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if err := s.groupRepo.Delete(ctx, group.ID); err != nil {
		return err
	}
	cache.InvalidateGroup(ctx, s.rdb, slug)
	return nil
}
