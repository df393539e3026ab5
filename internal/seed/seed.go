package seed

import (
	"fmt"
	"log"

	"postboard/internal/models"

	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	NumUsers int
	NumPosts int
	// MaxComments is the upper bound of comments per post.
	MaxComments int
	// MaxFollows is the upper bound of authors each user follows.
	MaxFollows  int
	ShouldClean bool
	SkipBcrypt  bool
	DryRun      bool
	MaxDays     int
	BatchSize   int
	// RandomSeed makes a run reproducible; zero uses the clock.
	RandomSeed int64
}

// Seeder fills a database with users, groups, posts, comments and follows.
type Seeder struct {
	db      *gorm.DB
	opts    Options
	factory *Factory
}

// Result summarises one seeding run.
type Result struct {
	Users    int
	Groups   int
	Posts    int
	Comments int
	Follows  int
}

func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{db: db, opts: opts, factory: NewFactory(db, opts)}
}

// ClearAll deletes every row the seeder can create, children first.
func (s *Seeder) ClearAll() error {
	if s.opts.DryRun {
		return nil
	}
	log.Println("🗑️  Clearing existing data...")
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&models.Comment{}, &models.Follow{}, &models.Post{}, &models.Group{}, &models.User{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}
		return nil
	})
}

// Seed runs a full pass: groups, users, posts, comments and follows.
func (s *Seeder) Seed() (*Result, error) {
	log.Printf("🌱 Starting database seeding with %d users and %d posts...", s.opts.NumUsers, s.opts.NumPosts)

	if s.opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return nil, err
		}
	}

	var groups []models.Group
	if !s.opts.DryRun {
		var err error
		groups, err = Groups(s.db)
		if err != nil {
			return nil, fmt.Errorf("failed to create groups: %w", err)
		}
	}
	log.Printf("✓ %d groups available", len(groups))

	users := make([]*models.User, 0, s.opts.NumUsers)
	for i := 0; i < s.opts.NumUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			log.Printf("Failed to create user: %v", err)
			continue
		}
		users = append(users, user)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("no users created")
	}
	log.Printf("✓ %d users created", len(users))

	r := s.factory.rnd
	posts := make([]*models.Post, 0, s.opts.NumPosts)
	for i := 0; i < s.opts.NumPosts; i++ {
		author := users[r.Intn(len(users))]
		var group *models.Group
		// About a third of posts have no group.
		if len(groups) > 0 && r.Intn(3) != 0 {
			group = &groups[r.Intn(len(groups))]
		}
		posts = append(posts, s.factory.BuildPost(author, group))
	}
	if err := s.factory.CreatePostsBatch(posts); err != nil {
		return nil, fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("✓ %d posts created", len(posts))

	comments := 0
	if s.opts.MaxComments > 0 {
		for _, post := range posts {
			for n := r.Intn(s.opts.MaxComments + 1); n > 0; n-- {
				if _, err := s.factory.CreateComment(users[r.Intn(len(users))], post); err != nil {
					return nil, fmt.Errorf("failed to create comment: %w", err)
				}
				comments++
			}
		}
	}
	log.Printf("✓ %d comments created", comments)

	follows := 0
	if s.opts.MaxFollows > 0 && len(users) > 1 {
		for _, user := range users {
			for _, idx := range r.Perm(len(users))[:min(r.Intn(s.opts.MaxFollows+1), len(users))] {
				author := users[idx]
				if author.ID == user.ID {
					continue
				}
				if err := s.factory.CreateFollow(user, author); err != nil {
					return nil, fmt.Errorf("failed to create follow: %w", err)
				}
				follows++
			}
		}
	}
	log.Printf("✓ %d follows created", follows)

	log.Println("🎉 Database seeding completed successfully!")
	return &Result{
		Users:    len(users),
		Groups:   len(groups),
		Posts:    len(posts),
		Comments: comments,
		Follows:  follows,
	}, nil
}
