package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"postboard/internal/featureflags"
	"postboard/internal/models"
	"postboard/internal/notifications"
	"postboard/internal/repository"
	"postboard/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// MockPublisher is a mock of the EventPublisher interface
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, ev notifications.Event) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

// allowEvents accepts any event without asserting on it.
func allowEvents() *MockPublisher {
	m := new(MockPublisher)
	m.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()
	return m
}

// testEnv wires every service to one in-memory database.
type testEnv struct {
	db       *gorm.DB
	store    *testutil.MemoryStore
	events   *MockPublisher
	users    *UserService
	groups   *GroupService
	posts    *PostService
	comments *CommentService
	follows  *FollowService
	feed     *FeedService
	images   *ImageService
}

func newTestEnv(t *testing.T, flags string) *testEnv {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	store := testutil.NewMemoryStore()
	events := allowEvents()

	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)

	users := NewUserService(userRepo)
	groups := NewGroupService(groupRepo, nil)
	images := NewImageService(store, featureflags.NewManager(flags), nil)
	follows := NewFollowService(followRepo, userRepo, events)

	return &testEnv{
		db:       db,
		store:    store,
		events:   events,
		users:    users,
		groups:   groups,
		posts:    NewPostService(postRepo, groupRepo, images, events, users.IsAdmin),
		comments: NewCommentService(commentRepo, postRepo, events),
		follows:  follows,
		feed:     NewFeedService(postRepo, commentRepo, userRepo, groups, follows, 10),
		images:   images,
	}
}

func (e *testEnv) user(t *testing.T, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", Password: "x"}
	require.NoError(t, e.db.Create(u).Error)
	return u
}

func (e *testEnv) group(t *testing.T, slug string) *models.Group {
	t.Helper()
	g, err := e.groups.CreateGroup(context.Background(), CreateGroupInput{Title: "Group " + slug, Slug: slug})
	require.NoError(t, err)
	return g
}

// post inserts directly so created_at can be controlled.
func (e *testEnv) post(t *testing.T, author *models.User, group *models.Group, text string, at time.Time) *models.Post {
	t.Helper()
	p := &models.Post{Text: text, AuthorID: author.ID, CreatedAt: at}
	if group != nil {
		p.GroupID = &group.ID
	}
	require.NoError(t, e.db.Omit("Author", "Group").Create(p).Error)
	return p
}

func uintPtr(v uint) *uint { return &v }

// assertFieldError asserts that err is a VALIDATION_ERROR naming field.
func assertFieldError(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, models.CodeValidation, appErr.Code)
	assert.Contains(t, appErr.Fields, field)
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, models.IsCode(err, code), "expected %s, got %v", code, err)
}
