// Command seed loads sample users, posts and comments into the configured
// database, or wipes it with -destroy. Handy for trying the API locally.
package main

import (
	"context"
	"flag"

	"github.com/sirupsen/logrus"

	"blog-server/internal/config"
	"blog-server/internal/domain"
	"blog-server/internal/repository/sqlite"
	"blog-server/internal/service"
)

func main() {
	destroy := flag.Bool("destroy", false, "delete all data instead of seeding")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx := context.Background()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	userRepo := sqlite.NewUserRepository(db)
	postRepo := sqlite.NewPostRepository(db)
	commentRepo := sqlite.NewCommentRepository(db)

	for _, repo := range []interface {
		Init(context.Context) error
	}{userRepo, postRepo, commentRepo} {
		if err := repo.Init(ctx); err != nil {
			logger.Fatalf("init repository: %v", err)
		}
	}

	if *destroy {
		for _, table := range []string{"comments", "posts", "users"} {
			if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				logger.Fatalf("clear %s: %v", table, err)
			}
		}
		logger.Info("data destroyed")
		return
	}

	users := service.NewUserService(userRepo)
	posts := service.NewPostService(postRepo)
	comments := service.NewCommentService(commentRepo, postRepo)

	admin, err := users.Register(ctx, "admin", "password123", domain.RoleAdmin)
	if err != nil {
		logger.Fatalf("seed admin: %v", err)
	}
	writer, err := users.Register(ctx, "writer", "password123", domain.RoleWriter)
	if err != nil {
		logger.Fatalf("seed writer: %v", err)
	}
	reader, err := users.Register(ctx, "reader", "password123", domain.RoleReader)
	if err != nil {
		logger.Fatalf("seed reader: %v", err)
	}

	samplePosts := []struct {
		in     service.PostInput
		author *domain.User
	}{
		{
			in: service.PostInput{
				Title:   "Welcome to the Blog!",
				Content: "This is the first post on our new platform. We are excited to have you here.",
				Tags:    "welcome, news",
				Status:  string(domain.PostStatusPublished),
			},
			author: writer,
		},
		{
			in: service.PostInput{
				Title:   "A Guide to Go Services",
				Content: "Go is a great fit for small HTTP services. This post explores a layered layout.",
				Tags:    "go, tech, backend",
				Status:  string(domain.PostStatusPublished),
			},
			author: writer,
		},
		{
			in: service.PostInput{
				Title:   "Work in Progress",
				Content: "Draft notes for an upcoming article. Not ready for readers yet.",
				Tags:    "draft",
				Status:  string(domain.PostStatusDraft),
			},
			author: admin,
		},
	}

	for _, sample := range samplePosts {
		post, err := posts.Create(ctx, sample.author, sample.in)
		if err != nil {
			logger.Fatalf("seed post %q: %v", sample.in.Title, err)
		}
		if post.Status != domain.PostStatusPublished {
			continue
		}
		if _, err := comments.Add(ctx, reader, post.ID, "Great read, thanks for sharing!"); err != nil {
			logger.Fatalf("seed comment on %q: %v", post.Title, err)
		}
	}

	logger.Infof("seeded %d users and %d posts", 3, len(samplePosts))
}
