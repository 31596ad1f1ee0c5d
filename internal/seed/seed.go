package seed

import (
	"fmt"
	"log"

	"pulso/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder.
type Options struct {
	NumUsers   int
	NumPosts   int
	MaxDays    int
	DryRun     bool
	SkipBcrypt bool
}

// Seeder populates the database with demo data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	opts    Options
}

// NewSeeder creates a Seeder with the given options.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{
		db:      db,
		factory: NewFactory(db, opts),
		opts:    opts,
	}
}

// ClearAll removes every seeded row. Order matters because of the
// foreign keys.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing database...")
	for _, table := range []string{"likes", "comments", "posts", "users"} {
		if err := s.db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

// SeedAdmin ensures a known admin account exists for local development.
func (s *Seeder) SeedAdmin() (*models.User, error) {
	admin, err := s.factory.CreateUser(func(u *models.User) {
		u.Name = "Admin"
		u.Surname = "Pulso"
		u.Username = "admin"
		u.Email = "admin@pulso.local"
		u.Role = models.RoleAdmin
	})
	if err != nil {
		return nil, fmt.Errorf("seeding admin: %w", err)
	}
	log.Printf("Admin account ready: %s / %s", admin.Email, SeedPassword)
	return admin, nil
}

// SeedUsers creates n regular accounts.
func (s *Seeder) SeedUsers(n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return nil, fmt.Errorf("seeding user %d: %w", i, err)
		}
		users = append(users, user)
	}
	log.Printf("Created %d users", len(users))
	return users, nil
}

// SeedPosts spreads n posts over the given authors. A handful of
// authors get a disproportionate share so the statistics reports have
// something interesting to show.
func (s *Seeder) SeedPosts(users []*models.User, n int) ([]*models.Post, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to author posts")
	}

	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		var author *models.User
		// 40% of posts come from the first tenth of users
		if s.factory.rng.Intn(10) < 4 {
			author = users[s.factory.rng.Intn(max(len(users)/10, 1))]
		} else {
			author = users[s.factory.rng.Intn(len(users))]
		}
		posts = append(posts, s.factory.BuildPost(author))
	}

	const batchSize = 100
	for start := 0; start < len(posts); start += batchSize {
		end := min(start+batchSize, len(posts))
		if err := s.factory.CreatePostsBatch(posts[start:end]); err != nil {
			return nil, fmt.Errorf("seeding posts: %w", err)
		}
	}
	log.Printf("Created %d posts", len(posts))
	return posts, nil
}

// SeedEngagement adds comments and likes across the seeded posts.
func (s *Seeder) SeedEngagement(users []*models.User, posts []*models.Post) error {
	if len(users) == 0 || len(posts) == 0 {
		return nil
	}

	comments := 0
	for _, post := range posts {
		for i := s.factory.rng.Intn(6); i > 0; i-- {
			commenter := users[s.factory.rng.Intn(len(users))]
			if _, err := s.factory.CreateComment(commenter, post); err != nil {
				return fmt.Errorf("seeding comments: %w", err)
			}
			comments++
		}

		for i := s.factory.rng.Intn(len(users)/2 + 1); i > 0; i-- {
			liker := users[s.factory.rng.Intn(len(users))]
			if err := s.factory.CreateLike(liker, post); err != nil {
				return fmt.Errorf("seeding likes: %w", err)
			}
		}
	}
	log.Printf("Created %d comments and scattered likes", comments)
	return nil
}

// Run executes the full seeding flow: admin, users, posts, engagement.
func (s *Seeder) Run() error {
	if _, err := s.SeedAdmin(); err != nil {
		return err
	}

	users, err := s.SeedUsers(s.opts.NumUsers)
	if err != nil {
		return err
	}

	posts, err := s.SeedPosts(users, s.opts.NumPosts)
	if err != nil {
		return err
	}

	return s.SeedEngagement(users, posts)
}
