package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cppla/dollarblog/models"
	"github.com/cppla/dollarblog/utils"
)

const (
	// DefaultListLimit is how many posts the public list returns.
	DefaultListLimit = 20
	maxListLimit     = 100
)

// PostService is the content store.
type PostService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewPostService(db *gorm.DB, log *zap.Logger) *PostService {
	return &PostService{db: db, log: log}
}

// Publish creates a post with both counters at zero.
func (s *PostService) Publish(ctx context.Context, authorID uint, title, story, cover string) (models.Post, error) {
	title = utils.StripTags(title)
	story = utils.Sanitize(story)
	if authorID == 0 {
		return models.Post{}, utils.NewAppError(utils.ErrUnauthorized, "unauthorized", nil)
	}
	if title == "" || story == "" {
		return models.Post{}, utils.NewValidationError("title and story are required")
	}
	if strings.TrimSpace(cover) == "" {
		return models.Post{}, utils.NewValidationError("cover file is required")
	}

	post := models.Post{UserID: authorID, Title: title, Story: story, Cover: cover}
	db := s.db.WithContext(ctx)
	if err := db.Create(&post).Error; err != nil {
		return models.Post{}, utils.NewInternalError("failed to create post", err)
	}

	authors, err := loadAuthors(db, []uint{authorID})
	if err != nil {
		return models.Post{}, err
	}
	if a, ok := authors[authorID]; ok {
		post.Author = &a
	}
	s.log.Info("post published", zap.Uint("post_id", post.ID), zap.Uint("user_id", authorID))
	return post, nil
}

// List returns up to limit posts, newest first, with author names.
func (s *PostService) List(ctx context.Context, limit int) ([]models.Post, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	db := s.db.WithContext(ctx)
	posts := []models.Post{}
	if err := db.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&posts).Error; err != nil {
		return nil, utils.NewInternalError("failed to list posts", err)
	}

	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.UserID)
	}
	authors, err := loadAuthors(db, ids)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if a, ok := authors[posts[i].UserID]; ok {
			a := a
			posts[i].Author = &a
		}
	}
	return posts, nil
}

// Get loads one post.
func (s *PostService) Get(ctx context.Context, id uint) (models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Post{}, utils.NewNotFoundError("Blog not found")
	}
	if err != nil {
		return models.Post{}, utils.NewInternalError("failed to load post", err)
	}
	return post, nil
}

// Count returns the number of posts.
func (s *PostService) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Post{}).Count(&n).Error; err != nil {
		return 0, utils.NewInternalError("failed to count posts", err)
	}
	return n, nil
}

func loadAuthors(db *gorm.DB, ids []uint) (map[uint]models.AuthorSummary, error) {
	out := map[uint]models.AuthorSummary{}
	ids = utils.Unique(ids)
	if len(ids) == 0 {
		return out, nil
	}
	var users []models.User
	if err := db.Select("id", "full_name").Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, utils.NewInternalError("failed to load authors", err)
	}
	for _, u := range users {
		out[u.ID] = models.AuthorSummary{ID: u.ID, FullName: u.FullName}
	}
	return out, nil
}
