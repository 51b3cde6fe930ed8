package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/dollarblog/models"
	"github.com/cppla/dollarblog/services"
	"github.com/cppla/dollarblog/utils"
)

// PostListCachePrefix prefixes every cached post list.
const PostListCachePrefix = utils.PostListCachePrefix

// postListTTL bounds how long a list read before a concurrent write can be served.
const postListTTL = time.Minute

// PostStore is the content store used by PostController.
type PostStore interface {
	Publish(ctx context.Context, authorID uint, title, story, cover string) (models.Post, error)
	List(ctx context.Context, limit int) ([]models.Post, error)
}

// PostController publishes and lists posts.
type PostController struct {
	posts     PostStore
	storage   utils.CoverStorage
	cache     *utils.Cache
	maxUpload int64
	log       *zap.Logger
}

// multipartOverhead allows for the title, story and part headers next to the cover.
const multipartOverhead = 1 << 20

// NewPostController creates a new PostController instance. Publish requests
// with a body over maxUpload bytes (plus form overhead) are cut off while reading.
func NewPostController(posts PostStore, storage utils.CoverStorage, cache *utils.Cache, maxUpload int64, log *zap.Logger) *PostController {
	return &PostController{posts: posts, storage: storage, cache: cache, maxUpload: maxUpload, log: log}
}

// CreatePost stores the uploaded cover and creates the post. The cover is
// removed again when the post cannot be created.
func (p *PostController) CreatePost(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}

	if p.maxUpload > 0 {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, p.maxUpload+multipartOverhead)
	}
	if _, err := ctx.MultipartForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.RespondError(ctx, p.log, utils.CoverTooLarge(p.maxUpload))
			return
		}
		utils.Error(ctx, http.StatusBadRequest, "title, story and cover file are required")
		return
	}

	title := strings.TrimSpace(ctx.PostForm("title"))
	story := strings.TrimSpace(ctx.PostForm("story"))
	if title == "" || story == "" {
		utils.Error(ctx, http.StatusBadRequest, "title and story are required")
		return
	}
	header, err := ctx.FormFile("file")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, "cover file is required")
		return
	}

	reqCtx := ctx.Request.Context()
	cover, err := p.storage.Save(reqCtx, header)
	if err != nil {
		utils.RespondError(ctx, p.log, err)
		return
	}

	post, err := p.posts.Publish(reqCtx, identity.UserID, title, story, cover.URL)
	if err != nil {
		if rmErr := p.storage.Remove(context.WithoutCancel(reqCtx), cover.Key); rmErr != nil {
			p.log.Warn("orphaned cover not removed", zap.String("key", cover.Key), zap.Error(rmErr))
		}
		utils.RespondError(ctx, p.log, err)
		return
	}

	p.cache.InvalidatePrefix(reqCtx, PostListCachePrefix)
	utils.Success(ctx, post)
}

// ListPosts returns the latest posts with author names and counters.
func (p *PostController) ListPosts(ctx *gin.Context) {
	reqCtx := ctx.Request.Context()
	cacheKey := fmt.Sprintf("%slimit=%d", PostListCachePrefix, services.DefaultListLimit)
	if b, ok := p.cache.GetBytes(reqCtx, cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", b)
		return
	}

	posts, err := p.posts.List(reqCtx, services.DefaultListLimit)
	if err != nil {
		utils.RespondError(ctx, p.log, err)
		return
	}

	p.cache.SetJSON(reqCtx, cacheKey, posts, postListTTL)
	utils.Success(ctx, posts)
}
