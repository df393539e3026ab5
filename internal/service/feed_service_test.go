package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"postboard/internal/models"
	"postboard/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedService_IndexPages(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()
	author := env.user(t, "leo")
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 13; i++ {
		env.post(t, author, nil, fmt.Sprintf("post %02d", i), base.Add(time.Duration(i)*time.Minute))
	}

	tests := []struct {
		name      string
		requested int
		wantPage  int
		wantLen   int
		wantFirst string
	}{
		{"first page", 1, 1, 10, "post 12"},
		{"second page", 2, 2, 3, "post 02"},
		{"past the end clamps to last", 9, 2, 3, "post 02"},
		{"non-positive clamps to first", 0, 1, 10, "post 12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := env.feed.Index(ctx, tt.requested)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, page.Number)
			assert.Equal(t, tt.wantLen, page.Len())
			assert.Equal(t, 13, page.Total)
			assert.Equal(t, 2, page.TotalPages)
			assert.Equal(t, tt.wantFirst, page.Items[0].Text)
		})
	}
}

func TestFeedService_EmptyIndexHasOnePage(t *testing.T) {
	env := newTestEnv(t, "")

	page, err := env.feed.Index(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 1, page.TotalPages)
	assert.NotNil(t, page.Items)
	assert.Zero(t, page.Len())
}

func TestFeedService_GroupAndProfile(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()
	leo := env.user(t, "leo")
	anna := env.user(t, "anna")
	cats := env.group(t, "cats")
	env.group(t, "dogs")
	now := time.Now()

	env.post(t, leo, cats, "leo cats", now)
	env.post(t, anna, cats, "anna cats", now.Add(time.Second))
	env.post(t, leo, nil, "leo none", now.Add(2*time.Second))

	groupFeed, err := env.feed.Group(ctx, "cats", 1)
	require.NoError(t, err)
	assert.Equal(t, "cats", groupFeed.Group.Slug)
	assert.Equal(t, 2, groupFeed.Page.Len())
	for _, p := range groupFeed.Page.Items {
		assert.Equal(t, cats.ID, *p.GroupID)
	}

	dogs, err := env.feed.Group(ctx, "dogs", 1)
	require.NoError(t, err)
	assert.Zero(t, dogs.Page.Len())

	_, err = env.feed.Group(ctx, "missing", 1)
	assertCode(t, err, models.CodeNotFound)

	_, err = env.follows.Follow(ctx, anna.ID, "leo")
	require.NoError(t, err)

	profile, err := env.feed.Profile(ctx, "leo", anna.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, leo.ID, profile.Author.ID)
	assert.Equal(t, 2, profile.PostCount)
	assert.True(t, profile.Following)
	assert.Equal(t, int64(1), profile.Followers)
	assert.Equal(t, "leo none", profile.Page.Items[0].Text)

	anonymous, err := env.feed.Profile(ctx, "leo", 0, 1)
	require.NoError(t, err)
	assert.False(t, anonymous.Following)

	_, err = env.feed.Profile(ctx, "nobody", 0, 1)
	assertCode(t, err, models.CodeNotFound)
}

func TestFeedService_NewPostVisibility(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()
	author := env.user(t, "leo")
	follower := env.user(t, "fan")
	stranger := env.user(t, "stranger")
	group := env.group(t, "cats")

	_, err := env.follows.Follow(ctx, follower.ID, "leo")
	require.NoError(t, err)

	post, err := env.posts.CreatePost(ctx, CreatePostInput{AuthorID: author.ID, Text: "fresh", GroupID: uintPtr(group.ID)})
	require.NoError(t, err)

	contains := func(page PostPage) bool {
		for _, p := range page.Items {
			if p.ID == post.ID {
				return true
			}
		}
		return false
	}

	index, err := env.feed.Index(ctx, 1)
	require.NoError(t, err)
	assert.True(t, contains(index), "index")

	groupFeed, err := env.feed.Group(ctx, "cats", 1)
	require.NoError(t, err)
	assert.True(t, contains(groupFeed.Page), "group")

	profile, err := env.feed.Profile(ctx, "leo", 0, 1)
	require.NoError(t, err)
	assert.True(t, contains(profile.Page), "profile")

	followed, err := env.feed.FollowFeed(ctx, follower.ID, 1)
	require.NoError(t, err)
	assert.True(t, contains(followed), "follower feed")

	other, err := env.feed.FollowFeed(ctx, stranger.ID, 1)
	require.NoError(t, err)
	assert.False(t, contains(other), "non-follower feed")
}

func TestFeedService_PostDetail(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()
	author := env.user(t, "leo")
	reader := env.user(t, "anna")
	post := env.post(t, author, nil, "detail", time.Now())
	env.post(t, author, nil, "another", time.Now())

	_, err := env.comments.AddComment(ctx, CreateCommentInput{PostID: post.ID, AuthorID: reader.ID, Text: "older"})
	require.NoError(t, err)
	_, err = env.comments.AddComment(ctx, CreateCommentInput{PostID: post.ID, AuthorID: reader.ID, Text: "newer"})
	require.NoError(t, err)

	detail, err := env.feed.PostDetail(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "detail", detail.Post.Text)
	assert.Equal(t, 2, detail.AuthorPostCount)
	require.Len(t, detail.Comments, 2)
	assert.Equal(t, "newer", detail.Comments[0].Text)
	assert.Equal(t, 2, detail.Post.CommentsCount)

	_, err = env.feed.PostDetail(ctx, 999)
	assertCode(t, err, models.CodeNotFound)
}

func TestFeedService_PassesWindowToRepository(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	repo.countFn = func(_ context.Context, _ repository.PostFilter) (int64, error) { return 25, nil }
	var gotLimit, gotOffset int
	repo.listFn = func(_ context.Context, _ repository.PostFilter, limit, offset int) ([]*models.Post, error) {
		gotLimit, gotOffset = limit, offset
		return []*models.Post{{ID: 1}}, nil
	}

	svc := NewFeedService(repo, nil, nil, nil, nil, 0)
	page, err := svc.Index(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, svc.PageSize())
	assert.Equal(t, 10, gotLimit)
	assert.Equal(t, 20, gotOffset)
	assert.Equal(t, 3, page.Number)
	assert.Equal(t, 3, page.TotalPages)
}
