package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/dollarblog/models"
	"github.com/cppla/dollarblog/utils"
)

const defaultCommentPageSize = 10

// CommentLedger is the comment half of the engagement ledger.
type CommentLedger interface {
	AddComment(ctx context.Context, authorID, postID uint, text string) (models.Comment, int64, error)
	ListComments(ctx context.Context, postID uint, page, pageSize int) ([]models.Comment, error)
	CountComments(ctx context.Context, postID uint) (int64, error)
}

// CommentController serves comment endpoints.
type CommentController struct {
	ledger CommentLedger
	cache  *utils.Cache
	log    *zap.Logger
}

func NewCommentController(ledger CommentLedger, cache *utils.Cache, log *zap.Logger) *CommentController {
	return &CommentController{ledger: ledger, cache: cache, log: log}
}

type createCommentRequest struct {
	Comment string `json:"comment" binding:"required,notblank,max=5000"`
	BlogID  uint   `json:"blogId" binding:"required"`
}

// CreateComment adds a comment as the token's user.
func (c *CommentController) CreateComment(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	var req createCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "Comment and blogId are required")
		return
	}

	comment, count, err := c.ledger.AddComment(ctx.Request.Context(), identity.UserID, req.BlogID, req.Comment)
	if err != nil {
		utils.RespondError(ctx, c.log, err)
		return
	}

	c.cache.InvalidatePrefix(ctx.Request.Context(), PostListCachePrefix)
	utils.Created(ctx, gin.H{
		"message":             "Comment created successfully",
		"comment":             comment,
		"updatedCommentCount": count,
	})
}

// ListComments returns ?page and ?limit (default 10) of a post's comments.
func (c *CommentController) ListComments(ctx *gin.Context) {
	postID, ok := parseID(ctx.Param("blogId"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, "Blog ID is required")
		return
	}
	page, limit := parsePagination(ctx.Query("page"), ctx.Query("limit"), defaultCommentPageSize)

	comments, err := c.ledger.ListComments(ctx.Request.Context(), postID, page, limit)
	if err != nil {
		utils.RespondError(ctx, c.log, err)
		return
	}
	utils.Success(ctx, comments)
}

// CountComments returns the live comment tally for a post.
func (c *CommentController) CountComments(ctx *gin.Context) {
	postID, ok := parseID(ctx.Param("blogId"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, "Blog ID is required")
		return
	}
	n, err := c.ledger.CountComments(ctx.Request.Context(), postID)
	if err != nil {
		utils.RespondError(ctx, c.log, err)
		return
	}
	utils.Success(ctx, gin.H{"commentCount": n})
}
