package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/dollarblog/models"
	"github.com/cppla/dollarblog/services"
	"github.com/cppla/dollarblog/utils"
)

// ClapLedger is the clap half of the engagement ledger.
type ClapLedger interface {
	AddClap(ctx context.Context, userID, postID uint) (services.ClapResult, error)
	RemoveClap(ctx context.Context, userID, postID uint) (int64, error)
	CountClaps(ctx context.Context, postID uint) (int64, error)
	ListClapsByUser(ctx context.Context, userID uint) ([]models.Clap, error)
}

// ClapController serves clap endpoints.
type ClapController struct {
	ledger ClapLedger
	cache  *utils.Cache
	log    *zap.Logger
}

func NewClapController(ledger ClapLedger, cache *utils.Cache, log *zap.Logger) *ClapController {
	return &ClapController{ledger: ledger, cache: cache, log: log}
}

type clapRequest struct {
	BlogID uint `json:"blogId" binding:"required"`
}

func (c *ClapController) AddClap(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	var req clapRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "Blog ID is required")
		return
	}

	res, err := c.ledger.AddClap(ctx.Request.Context(), identity.UserID, req.BlogID)
	if err != nil {
		utils.RespondError(ctx, c.log, err)
		return
	}

	c.cache.InvalidatePrefix(ctx.Request.Context(), PostListCachePrefix)
	utils.Created(ctx, gin.H{
		"message":   "Clap added successfully",
		"clapCount": res.ClapCount,
		"clap":      res.Clap,
	})
}

func (c *ClapController) RemoveClap(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	var req clapRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "Blog ID is required")
		return
	}

	count, err := c.ledger.RemoveClap(ctx.Request.Context(), identity.UserID, req.BlogID)
	if err != nil {
		utils.RespondError(ctx, c.log, err)
		return
	}

	c.cache.InvalidatePrefix(ctx.Request.Context(), PostListCachePrefix)
	utils.Success(ctx, gin.H{"message": "Clap removed successfully", "clapCount": count})
}

// CountClaps returns the live clap tally for a post.
func (c *ClapController) CountClaps(ctx *gin.Context) {
	postID, ok := parseID(ctx.Param("blogId"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, "Blog ID is required")
		return
	}
	n, err := c.ledger.CountClaps(ctx.Request.Context(), postID)
	if err != nil {
		utils.RespondError(ctx, c.log, err)
		return
	}
	utils.Success(ctx, gin.H{"blogId": postID, "totalClaps": n})
}

// ListUserClaps returns every clap by the token's user.
func (c *ClapController) ListUserClaps(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	claps, err := c.ledger.ListClapsByUser(ctx.Request.Context(), identity.UserID)
	if err != nil {
		utils.RespondError(ctx, c.log, err)
		return
	}
	utils.Success(ctx, claps)
}
