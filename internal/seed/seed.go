package seed

import (
	"fmt"
	"log"

	"murmur/internal/models"

	"gorm.io/gorm"
)

// Seed populates the database with development data: users with
// profiles, a follow mesh, posts, comments and likes.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	f := NewFactory(db, opts)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			log.Printf("Failed to create user: %v", err)
			continue
		}
		users = append(users, user)
	}
	if len(users) == 0 {
		return fmt.Errorf("no users could be created")
	}
	log.Printf("%d users created", len(users))

	if err := buildFollowMesh(f, users); err != nil {
		return fmt.Errorf("failed to build follow mesh: %w", err)
	}

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[f.rng.Intn(len(users))]
		post, err := f.CreatePost(author)
		if err != nil {
			return fmt.Errorf("failed to create post: %w", err)
		}
		posts = append(posts, post)
	}
	log.Printf("%d posts created", len(posts))

	comments := 0
	likes := 0
	for _, post := range posts {
		for i := 0; i < f.rng.Intn(5); i++ {
			commenter := users[f.rng.Intn(len(users))]
			if _, err := f.CreateComment(commenter, post); err != nil {
				return fmt.Errorf("failed to create comment: %w", err)
			}
			comments++
		}
		for i := 0; i < f.rng.Intn(8); i++ {
			liker := users[f.rng.Intn(len(users))]
			if err := f.LikePost(liker, post); err != nil {
				return fmt.Errorf("failed to create like: %w", err)
			}
			likes++
		}
	}
	log.Printf("%d comments and %d likes created", comments, likes)

	log.Println("Database seeding completed successfully")
	return nil
}

// buildFollowMesh gives every seeded user a handful of follows so
// personal feeds have content.
func buildFollowMesh(f *Factory, users []*models.User) error {
	for _, follower := range users {
		followCount := f.rng.Intn(6) + 1
		for i := 0; i < followCount; i++ {
			followee := users[f.rng.Intn(len(users))]
			if follower.ID == followee.ID {
				continue
			}
			if err := f.Follow(follower.Profile, followee.Profile); err != nil {
				return err
			}
		}
	}
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE comment_likes, likes, comments, posts, follows, profiles, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}
