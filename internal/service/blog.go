package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/safar/armigera-store/internal/logkey"
	"github.com/safar/armigera-store/internal/models"
	"github.com/safar/armigera-store/internal/store"
)

type PostInput struct {
	Title         string `validate:"required"`
	Excerpt       string `validate:"max=500"`
	Content       string `validate:"required"`
	Category      string
	Author        string            `validate:"required"`
	Status        models.PostStatus `validate:"omitempty,oneof=draft published"`
	Tags          []string          `validate:"dive,required"`
	FeaturedImage string
}

type BlogService struct {
	db  *store.DB
	log *slog.Logger
}

func NewBlogService(db *store.DB, log *slog.Logger) *BlogService {
	return &BlogService{db: db, log: log}
}

// Create stores a post. Posts are drafts unless in says otherwise.
func (s *BlogService) Create(ctx context.Context, in PostInput) (models.BlogPost, error) {
	if err := check(in); err != nil {
		return models.BlogPost{}, err
	}
	if in.Status == "" {
		in.Status = models.PostDraft
	}

	post, err := s.db.BlogPosts().Create(ctx, models.BlogPost{
		Title:         in.Title,
		Excerpt:       in.Excerpt,
		Content:       in.Content,
		Category:      in.Category,
		Author:        in.Author,
		Status:        in.Status,
		Tags:          append([]string{}, in.Tags...),
		FeaturedImage: in.FeaturedImage,
	})
	if err != nil {
		return models.BlogPost{}, fmt.Errorf("create post: %w", err)
	}

	s.log.Info("post created", slog.String(logkey.ID, post.ID), slog.String("status", string(post.Status)))
	return post, nil
}

func (s *BlogService) Publish(ctx context.Context, id string) (models.BlogPost, error) {
	now := s.db.Now()
	status := models.PostPublished
	post, err := s.db.BlogPosts().Update(ctx, id, models.BlogPostPatch{Status: &status, UpdatedAt: &now})
	if err != nil {
		return models.BlogPost{}, fmt.Errorf("publish post %s: %w", id, err)
	}
	return post, nil
}

// Published returns the published posts, newest first.
func (s *BlogService) Published(ctx context.Context) ([]models.BlogPost, error) {
	all, err := s.db.BlogPosts().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	out := make([]models.BlogPost, 0, len(all))
	for _, p := range all {
		if p.Status == models.PostPublished {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b models.BlogPost) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}
