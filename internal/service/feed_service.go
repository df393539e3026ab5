package service

import (
	"context"

	"postboard/internal/models"
	"postboard/internal/observability"
	"postboard/internal/pagination"
	"postboard/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// DefaultPageSize is used when the configured page size is not positive.
const DefaultPageSize = 10

// PostPage is one page of a post listing.
type PostPage = pagination.Page[*models.Post]

// GroupLookup resolves a group by slug. *GroupService implements it.
type GroupLookup interface {
	GetBySlug(ctx context.Context, slug string) (*models.Group, error)
}

// GroupFeed is a group and one page of its posts.
type GroupFeed struct {
	Group *models.Group
	Page  PostPage
}

// ProfileFeed is an author, one page of their posts and the viewer's relation to them.
type ProfileFeed struct {
	Author    *models.User
	Page      PostPage
	PostCount int
	// Following reports whether the viewer follows Author.
	Following      bool
	Followers      int64
	FollowingCount int64
}

// PostDetail is a post with its comments, newest first.
type PostDetail struct {
	Post            *models.Post
	Comments        []*models.Comment
	AuthorPostCount int
}

// FeedService composes the read-only views.
type FeedService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
	groups      GroupLookup
	follows     *FollowService
	pageSize    int
}

func NewFeedService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
	groups GroupLookup,
	follows *FollowService,
	pageSize int,
) *FeedService {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &FeedService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		groups:      groups,
		follows:     follows,
		pageSize:    pageSize,
	}
}

// PageSize is the number of posts per listing page.
func (s *FeedService) PageSize() int {
	return s.pageSize
}

// Index lists every post.
func (s *FeedService) Index(ctx context.Context, page int) (PostPage, error) {
	return s.list(ctx, "index", repository.PostFilter{}, page)
}

// Group lists the posts filed under the group with slug.
func (s *FeedService) Group(ctx context.Context, slug string, page int) (*GroupFeed, error) {
	group, err := s.groups.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	posts, err := s.list(ctx, "group", repository.PostFilter{GroupID: group.ID}, page)
	if err != nil {
		return nil, err
	}
	return &GroupFeed{Group: group, Page: posts}, nil
}

// Profile lists one author's posts. viewerID 0 is an anonymous viewer.
func (s *FeedService) Profile(ctx context.Context, username string, viewerID uint, page int) (*ProfileFeed, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	posts, err := s.list(ctx, "profile", repository.PostFilter{AuthorID: author.ID}, page)
	if err != nil {
		return nil, err
	}

	following, err := s.follows.IsFollowing(ctx, viewerID, author.ID)
	if err != nil {
		return nil, err
	}
	followers, followingCount, err := s.follows.Counts(ctx, author.ID)
	if err != nil {
		return nil, err
	}

	return &ProfileFeed{
		Author:         author,
		Page:           posts,
		PostCount:      posts.Total,
		Following:      following,
		Followers:      followers,
		FollowingCount: followingCount,
	}, nil
}

// FollowFeed lists posts by the authors userID follows.
func (s *FeedService) FollowFeed(ctx context.Context, userID uint, page int) (PostPage, error) {
	return s.list(ctx, "follow", repository.PostFilter{FollowerID: userID}, page)
}

// PostDetail loads one post, its comments and the author's total post count.
func (s *FeedService) PostDetail(ctx context.Context, id uint) (*PostDetail, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByPost(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.postRepo.Count(ctx, repository.PostFilter{AuthorID: post.AuthorID})
	if err != nil {
		return nil, err
	}
	return &PostDetail{Post: post, Comments: comments, AuthorPostCount: int(count)}, nil
}

// list counts the filtered posts, locates the requested page and fetches just that window.
func (s *FeedService) list(ctx context.Context, view string, filter repository.PostFilter, page int) (result PostPage, err error) {
	ctx, span := observability.StartSpan(ctx, "feed", view, attribute.Int("page", page))
	defer func() { observability.EndSpan(span, err) }()

	total, err := s.postRepo.Count(ctx, filter)
	if err != nil {
		return PostPage{}, err
	}
	w := pagination.Locate(int(total), page, s.pageSize)

	posts, err := s.postRepo.List(ctx, filter, w.Limit, w.Offset)
	if err != nil {
		return PostPage{}, err
	}
	return pagination.NewPage(posts, w, int(total), s.pageSize), nil
}
