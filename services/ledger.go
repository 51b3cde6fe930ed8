package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/dollarblog/models"
	"github.com/cppla/dollarblog/utils"
)

const (
	defaultCommentPageSize = 10
	maxCommentPageSize     = 100
)

var errPostMissing = errors.New("post missing")

// ClapResult is returned by AddClap.
type ClapResult struct {
	ClapCount int64       `json:"clapCount"`
	Clap      models.Clap `json:"clap"`
}

// Ledger records comments and claps. Every write to either table changes the
// owning post's counter in the same transaction.
type Ledger struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewLedger(db *gorm.DB, log *zap.Logger) *Ledger {
	return &Ledger{db: db, log: log}
}

// AddComment stores a comment and bumps comment_count. It returns the comment
// and the post's new comment count.
func (l *Ledger) AddComment(ctx context.Context, authorID, postID uint, text string) (models.Comment, int64, error) {
	if authorID == 0 {
		return models.Comment{}, 0, utils.NewValidationError("User ID is required")
	}
	text = utils.StripTags(text)
	if postID == 0 || strings.TrimSpace(text) == "" {
		return models.Comment{}, 0, utils.NewValidationError("Comment text and blog ID are required")
	}

	comment := models.Comment{PostID: postID, UserID: authorID, Text: text}
	var count int64
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errPostMissing
		}
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Select("comment_count").Where("id = ?", postID).Scan(&count).Error
	})
	if errors.Is(err, errPostMissing) {
		return models.Comment{}, 0, utils.NewNotFoundError("Blog not found")
	}
	if err != nil {
		return models.Comment{}, 0, utils.NewInternalError("failed to create comment", err)
	}

	authors, err := loadAuthors(l.db.WithContext(ctx), []uint{authorID})
	if err != nil {
		return models.Comment{}, 0, err
	}
	if a, ok := authors[authorID]; ok {
		comment.Author = &a
	}
	l.log.Debug("comment added", zap.Uint("post_id", postID), zap.Uint("user_id", authorID), zap.Int64("comment_count", count))
	return comment, count, nil
}

// ListComments returns one page of a post's comments, newest first.
func (l *Ledger) ListComments(ctx context.Context, postID uint, page, pageSize int) ([]models.Comment, error) {
	if postID == 0 {
		return nil, utils.NewValidationError("Blog ID is required")
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultCommentPageSize
	}
	if pageSize > maxCommentPageSize {
		pageSize = maxCommentPageSize
	}

	db := l.db.WithContext(ctx)
	comments := []models.Comment{}
	err := db.Where("post_id = ?", postID).
		Order("created_at DESC").Order("id DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&comments).Error
	if err != nil {
		return nil, utils.NewInternalError("failed to list comments", err)
	}

	ids := make([]uint, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.UserID)
	}
	authors, err := loadAuthors(db, ids)
	if err != nil {
		return nil, err
	}
	for i := range comments {
		if a, ok := authors[comments[i].UserID]; ok {
			a := a
			comments[i].Author = &a
		}
	}
	return comments, nil
}

// CountComments tallies comment rows for a post.
func (l *Ledger) CountComments(ctx context.Context, postID uint) (int64, error) {
	if postID == 0 {
		return 0, utils.NewValidationError("Blog ID is required")
	}
	var n int64
	if err := l.db.WithContext(ctx).Model(&models.Comment{}).Where("post_id = ?", postID).Count(&n).Error; err != nil {
		return 0, utils.NewInternalError("failed to count comments", err)
	}
	return n, nil
}

// AddClap records userID's clap on postID and bumps clap_count.
// A second clap by the same user is a CONFLICT and changes nothing.
func (l *Ledger) AddClap(ctx context.Context, userID, postID uint) (ClapResult, error) {
	if userID == 0 {
		return ClapResult{}, utils.NewValidationError("User ID is required")
	}
	if postID == 0 {
		return ClapResult{}, utils.NewValidationError("Blog ID is required")
	}

	db := l.db.WithContext(ctx)
	var existing int64
	if err := db.Model(&models.Clap{}).Where("user_id = ? AND post_id = ?", userID, postID).Count(&existing).Error; err != nil {
		return ClapResult{}, utils.NewInternalError("failed to check clap", err)
	}
	if existing > 0 {
		return ClapResult{}, alreadyClapped()
	}

	clap := models.Clap{UserID: userID, PostID: postID}
	var count int64
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&clap)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrDuplicatedKey
		}
		upd := tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("clap_count", gorm.Expr("clap_count + 1"))
		if upd.Error != nil {
			return upd.Error
		}
		if upd.RowsAffected == 0 {
			return errPostMissing
		}
		return tx.Model(&models.Post{}).Select("clap_count").Where("id = ?", postID).Scan(&count).Error
	})
	switch {
	case errors.Is(err, errPostMissing):
		return ClapResult{}, utils.NewNotFoundError("Blog not found")
	case isDuplicateKey(err):
		return ClapResult{}, alreadyClapped()
	case err != nil:
		return ClapResult{}, utils.NewInternalError("failed to add clap", err)
	}

	l.log.Debug("clap added", zap.Uint("post_id", postID), zap.Uint("user_id", userID), zap.Int64("clap_count", count))
	return ClapResult{ClapCount: count, Clap: clap}, nil
}

// RemoveClap deletes userID's clap on postID and decrements clap_count, never below zero.
func (l *Ledger) RemoveClap(ctx context.Context, userID, postID uint) (int64, error) {
	if userID == 0 {
		return 0, utils.NewValidationError("User ID is required")
	}
	if postID == 0 {
		return 0, utils.NewValidationError("Blog ID is required")
	}

	var count int64
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Clap{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		err := tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("clap_count", gorm.Expr("CASE WHEN clap_count > 0 THEN clap_count - 1 ELSE 0 END")).Error
		if err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Select("clap_count").Where("id = ?", postID).Scan(&count).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, utils.NewNotFoundError("Clap not found")
	}
	if err != nil {
		return 0, utils.NewInternalError("failed to remove clap", err)
	}
	return count, nil
}

// CountClaps tallies clap rows for a post.
func (l *Ledger) CountClaps(ctx context.Context, postID uint) (int64, error) {
	if postID == 0 {
		return 0, utils.NewValidationError("Blog ID is required")
	}
	var n int64
	if err := l.db.WithContext(ctx).Model(&models.Clap{}).Where("post_id = ?", postID).Count(&n).Error; err != nil {
		return 0, utils.NewInternalError("failed to count claps", err)
	}
	return n, nil
}

// ListClapsByUser returns every clap by userID with the post title attached.
func (l *Ledger) ListClapsByUser(ctx context.Context, userID uint) ([]models.Clap, error) {
	if userID == 0 {
		return nil, utils.NewValidationError("User ID is required")
	}
	db := l.db.WithContext(ctx)
	claps := []models.Clap{}
	if err := db.Where("user_id = ?", userID).Order("created_at DESC").Order("id DESC").Find(&claps).Error; err != nil {
		return nil, utils.NewInternalError("failed to list claps", err)
	}
	if len(claps) == 0 {
		return claps, nil
	}

	ids := make([]uint, 0, len(claps))
	for _, c := range claps {
		ids = append(ids, c.PostID)
	}
	var posts []models.Post
	if err := db.Select("id", "title").Where("id IN ?", utils.Unique(ids)).Find(&posts).Error; err != nil {
		return nil, utils.NewInternalError("failed to load clapped posts", err)
	}
	titles := make(map[uint]string, len(posts))
	for _, p := range posts {
		titles[p.ID] = p.Title
	}
	for i := range claps {
		if title, ok := titles[claps[i].PostID]; ok {
			claps[i].Blog = &models.PostSummary{ID: claps[i].PostID, Title: title}
		}
	}
	return claps, nil
}

// TotalComments and TotalClaps back the stats endpoint.
func (l *Ledger) TotalComments(ctx context.Context) (int64, error) {
	var n int64
	if err := l.db.WithContext(ctx).Model(&models.Comment{}).Count(&n).Error; err != nil {
		return 0, utils.NewInternalError("failed to count comments", err)
	}
	return n, nil
}

func (l *Ledger) TotalClaps(ctx context.Context) (int64, error) {
	var n int64
	if err := l.db.WithContext(ctx).Model(&models.Clap{}).Count(&n).Error; err != nil {
		return 0, utils.NewInternalError("failed to count claps", err)
	}
	return n, nil
}

// ReconcileCounters rewrites comment_count and clap_count from the child
// tables for every post that drifted. It returns how many posts changed.
func (l *Ledger) ReconcileCounters(ctx context.Context) (int64, error) {
	res := l.db.WithContext(ctx).Exec(`UPDATE posts SET
		comment_count = (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id),
		clap_count = (SELECT COUNT(*) FROM claps WHERE claps.post_id = posts.id)
	WHERE comment_count <> (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id)
		OR clap_count <> (SELECT COUNT(*) FROM claps WHERE claps.post_id = posts.id)`)
	if res.Error != nil {
		return 0, utils.NewInternalError("failed to reconcile counters", res.Error)
	}
	if res.RowsAffected > 0 {
		l.log.Warn("post counters drifted and were rewritten", zap.Int64("posts", res.RowsAffected))
	}
	return res.RowsAffected, nil
}

func alreadyClapped() *utils.AppError {
	return utils.NewConflictError("You have already clapped for this blog")
}
