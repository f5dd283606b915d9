package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"time"

	"community-board/internal/apperr"
	"community-board/internal/entity"
	"community-board/internal/repo/persistent"
	"community-board/internal/usecase"
	"community-board/pkg/config"
	"community-board/pkg/database"
	"community-board/pkg/jwt"
	"community-board/pkg/logger"
	"community-board/pkg/s3"
	"community-board/pkg/storage"
)

const seedPassword = "password123"

var seedUsers = []struct {
	email    string
	nickname string
}{
	{"alice@test.com", "alice"},
	{"bob@test.com", "bob"},
	{"charlie@test.com", "charlie"},
	{"diana@test.com", "diana"},
	{"eve@test.com", "eve"},
}

type seeder struct {
	users    persistent.UserRepository
	auth     usecase.AuthUseCase
	posts    usecase.PostUseCase
	comments usecase.CommentUseCase
	http     *http.Client
	cats     bool
	log      *logger.Logger
}

func main() {
	var (
		postsPerUser = flag.Int("posts", 3, "posts created per user")
		cats         = flag.Bool("cats", false, "attach a cat picture from cataas.com to every other post")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.NewWithOptions(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "seed"})
	db, err := database.NewPostgresDB(cfg, log)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}
	if err := persistent.Migrate(db); err != nil {
		log.Error("Failed to migrate: %v", err)
		panic(err)
	}

	var store storage.Storage
	if cfg.StorageDriver == config.StorageS3 {
		store, err = s3.NewClient(cfg)
	} else {
		store, err = storage.NewLocal(cfg.UploadDir, cfg.PublicURLPrefix)
	}
	if err != nil {
		log.Error("Failed to create storage: %v", err)
		panic(err)
	}

	userRepo := persistent.NewUserRepository(db)
	postRepo := persistent.NewPostRepository(db)
	upload := usecase.UploadPolicy{MaxBytes: cfg.MaxUploadBytes}

	// Signup never issues a credential, so any implementation will do here.
	credentials := usecase.NewTokenCredentials(jwt.NewService(cfg.JWTSecret, cfg.JWTTTL))

	s := &seeder{
		users:    userRepo,
		auth:     usecase.NewAuthUseCase(userRepo, credentials, cfg.DefaultProfileImageURL, log),
		posts:    usecase.NewPostUseCase(postRepo, store, nil, usecase.PostOptions{MaxPageSize: cfg.MaxPageSize, Upload: upload}, log),
		comments: usecase.NewCommentUseCase(postRepo, persistent.NewCommentRepository(db), nil, log),
		http:     &http.Client{Timeout: 30 * time.Second},
		cats:     *cats,
		log:      log,
	}

	if err := s.run(context.Background(), *postsPerUser); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

func (s *seeder) run(ctx context.Context, postsPerUser int) error {
	identities := make([]entity.Identity, 0, len(seedUsers))
	for _, u := range seedUsers {
		id, err := s.ensureUser(ctx, u.email, u.nickname)
		if err != nil {
			return err
		}
		identities = append(identities, id)
	}

	var postIDs []uint
	for _, author := range identities {
		for i := 0; i < postsPerUser; i++ {
			in := usecase.PostInput{
				Title:   fmt.Sprintf("Post #%d by %s", i+1, author.Nickname()),
				Content: fmt.Sprintf("Hello from %s. This is post number %d.", author.Nickname(), i+1),
			}
			if s.cats && i%2 == 0 {
				url, err := s.catImage(ctx, author.Nickname())
				if err != nil {
					s.log.Warn("Skipping image for %s: %v", in.Title, err)
				} else {
					in.ImageURL = url
				}
			}

			post, err := s.posts.Create(ctx, in, author)
			if err != nil {
				return fmt.Errorf("create post for %s: %w", author.Nickname(), err)
			}
			s.log.Info("Created post: %s", post.Title)
			postIDs = append(postIDs, post.ID)
		}
	}

	for n, postID := range postIDs {
		for k, reader := range identities {
			if (n+k)%2 != 0 {
				continue
			}
			if _, err := s.posts.Like(ctx, postID, reader); err != nil && !errors.Is(err, apperr.ErrAlreadyLiked) {
				return fmt.Errorf("like post %d: %w", postID, err)
			}
			content := fmt.Sprintf("%s was here", reader.Nickname())
			if _, err := s.comments.Create(ctx, postID, content, reader); err != nil {
				return fmt.Errorf("comment on post %d: %w", postID, err)
			}
		}
	}
	s.log.Info("Created likes and comments on %d posts", len(postIDs))
	return nil
}

// ensureUser signs the user up, or loads it when a previous run already did.
func (s *seeder) ensureUser(ctx context.Context, email, nickname string) (entity.Identity, error) {
	user, err := s.auth.Signup(ctx, usecase.SignupInput{
		Email:    email,
		Password: seedPassword,
		Nickname: nickname,
	})
	switch {
	case err == nil:
		s.log.Info("Created user: %s (%s)", nickname, email)
	case errors.Is(err, apperr.ErrEmailExists), errors.Is(err, apperr.ErrNicknameExists):
		s.log.Info("User %s already exists, skipping", nickname)
		user, err = s.users.GetByEmail(ctx, email)
		if err != nil {
			return entity.Identity{}, fmt.Errorf("load user %s: %w", email, err)
		}
	default:
		return entity.Identity{}, fmt.Errorf("signup %s: %w", email, err)
	}
	return entity.NewIdentity(user), nil
}

func (s *seeder) catImage(ctx context.Context, nickname string) (string, error) {
	url := fmt.Sprintf("https://cataas.com/cat/says/Hello%%20from%%20%s", nickname)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "image/jpeg")

	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch cat image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("cataas returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}

	return s.posts.UploadImage(ctx, usecase.Upload{
		Filename: "cat.jpg",
		Size:     int64(len(data)),
		Body:     bytes.NewReader(data),
	})
}
