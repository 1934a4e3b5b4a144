package seed

import (
	"fmt"
	"log"

	"yatube/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeder populates the database with demo data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder bound to the given DB.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db)}
}

// ClearAll removes all seeded data. Deletion order respects foreign keys.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	for _, model := range []any{
		&models.Comment{},
		&models.Follow{},
		&models.Post{},
		&models.Group{},
		&models.User{},
	} {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

// EnsureAdmin creates the admin account if it does not exist yet.
func (s *Seeder) EnsureAdmin(username, email, password string) (*models.User, error) {
	var admin models.User
	err := s.db.Where("username = ?", username).First(&admin).Error
	if err == nil {
		return &admin, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	admin = models.User{
		Username: username,
		Email:    email,
		Password: string(hashedPassword),
		IsAdmin:  true,
	}
	if err := s.db.Create(&admin).Error; err != nil {
		return nil, err
	}
	log.Printf("Created admin user %q", username)
	return &admin, nil
}

// SeedCommunity creates users, groups, posts, comments and a follow graph.
func (s *Seeder) SeedCommunity(numUsers, numGroups, numPosts int) error {
	log.Printf("Seeding %d users, %d groups, %d posts...", numUsers, numGroups, numPosts)

	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		users = append(users, user)
	}

	groups := make([]*models.Group, 0, numGroups)
	for i := 0; i < numGroups; i++ {
		group, err := s.factory.CreateGroup()
		if err != nil {
			return fmt.Errorf("create group: %w", err)
		}
		groups = append(groups, group)
	}

	posts := make([]*models.Post, 0, numPosts)
	for i := 0; i < numPosts; i++ {
		author := users[s.factory.rng.Intn(len(users))]
		var group *models.Group
		// roughly a third of posts go without a group
		if len(groups) > 0 && s.factory.rng.Intn(3) != 0 {
			group = groups[s.factory.rng.Intn(len(groups))]
		}
		posts = append(posts, s.factory.BuildPost(author, group, 90))
	}
	if err := s.factory.CreatePostsBatch(posts); err != nil {
		return fmt.Errorf("create posts: %w", err)
	}

	// comments on about half the posts
	for _, post := range posts {
		if s.factory.rng.Intn(2) == 0 {
			continue
		}
		n := 1 + s.factory.rng.Intn(4)
		for j := 0; j < n; j++ {
			author := users[s.factory.rng.Intn(len(users))]
			if _, err := s.factory.CreateComment(author, post); err != nil {
				return fmt.Errorf("create comment: %w", err)
			}
		}
	}

	// each user follows a handful of others
	for _, follower := range users {
		n := 1 + s.factory.rng.Intn(5)
		for j := 0; j < n; j++ {
			author := users[s.factory.rng.Intn(len(users))]
			if err := s.factory.CreateFollow(follower, author); err != nil {
				return fmt.Errorf("create follow: %w", err)
			}
		}
	}

	log.Println("Seeding complete")
	return nil
}
