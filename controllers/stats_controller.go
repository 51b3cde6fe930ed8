package controllers

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Counter returns a single aggregate.
type Counter func(ctx context.Context) (int64, error)

// StatsController provides blog statistics.
type StatsController struct {
	users, posts, comments, claps Counter
	log                           *zap.Logger
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(users, posts, comments, claps Counter, log *zap.Logger) *StatsController {
	return &StatsController{users: users, posts: posts, comments: comments, claps: claps, log: log}
}

// GetStats returns aggregate counts. A failing count is reported as 0.
func (s *StatsController) GetStats(ctx *gin.Context) {
	reqCtx := ctx.Request.Context()
	get := func(name string, fn Counter) int64 {
		n, err := fn(reqCtx)
		if err != nil {
			// Fallback to 0 instead of failing the whole endpoint
			s.log.Warn("stats count failed", zap.String("count", name), zap.Error(err))
			return 0
		}
		return n
	}

	ctx.JSON(200, gin.H{
		"userCount":    get("users", s.users),
		"postCount":    get("posts", s.posts),
		"commentCount": get("comments", s.comments),
		"clapCount":    get("claps", s.claps),
	})
}
