package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"postboard/internal/models"
	"postboard/internal/notifications"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCommentService_AddComment(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()
	author := env.user(t, "leo")
	reader := env.user(t, "anna")
	post := env.post(t, author, nil, "post", time.Now())

	events := new(MockPublisher)
	events.On("Publish", mock.Anything, mock.MatchedBy(func(ev notifications.Event) bool {
		return ev.Type == notifications.EventCommentCreated && ev.ActorID == reader.ID && ev.AuthorID == author.ID
	})).Return(nil).Twice()
	env.comments.events = events

	first, err := env.comments.AddComment(ctx, CreateCommentInput{PostID: post.ID, AuthorID: reader.ID, Text: "first"})
	require.NoError(t, err)
	assert.NotZero(t, first.ID)
	_, err = env.comments.AddComment(ctx, CreateCommentInput{PostID: post.ID, AuthorID: reader.ID, Text: "second"})
	require.NoError(t, err)

	comments, err := env.comments.ListComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "second", comments[0].Text)
	assert.Equal(t, "anna", comments[0].Author.Username)
	events.AssertExpectations(t)
}

func TestCommentService_AddCommentRejects(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()
	author := env.user(t, "leo")
	post := env.post(t, author, nil, "post", time.Now())

	_, err := env.comments.AddComment(ctx, CreateCommentInput{PostID: post.ID, AuthorID: author.ID, Text: " "})
	assertFieldError(t, err, "text")

	_, err = env.comments.AddComment(ctx, CreateCommentInput{PostID: post.ID, AuthorID: author.ID, Text: strings.Repeat("x", maxCommentLen+1)})
	assertFieldError(t, err, "text")

	_, err = env.comments.AddComment(ctx, CreateCommentInput{PostID: 999, AuthorID: author.ID, Text: "hello"})
	assertCode(t, err, models.CodeNotFound)

	var count int64
	require.NoError(t, env.db.Model(&models.Comment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCommentService_AddCommentStoresTrimmedText(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()
	author := env.user(t, "leo")
	post := env.post(t, author, nil, "post", time.Now())

	comment, err := env.comments.AddComment(ctx, CreateCommentInput{PostID: post.ID, AuthorID: author.ID, Text: "  nice post\n"})
	require.NoError(t, err)
	assert.Equal(t, "nice post", comment.Text)

	comments, err := env.comments.ListComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "nice post", comments[0].Text)
}
