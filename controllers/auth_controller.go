package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/dollarblog/middleware"
	"github.com/cppla/dollarblog/models"
	"github.com/cppla/dollarblog/utils"
)

// UserStore is the credential store used by AuthController.
type UserStore interface {
	Register(ctx context.Context, fullName, username, password string) (models.UserSummary, error)
	Authenticate(ctx context.Context, fullName, username, password string) (utils.Identity, error)
}

// AuthController handles registration, login and the session cookie.
type AuthController struct {
	users        UserStore
	tokens       *utils.TokenManager
	blacklist    *utils.TokenBlacklist
	cookieSecure bool
	log          *zap.Logger
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(users UserStore, tokens *utils.TokenManager, blacklist *utils.TokenBlacklist, cookieSecure bool, log *zap.Logger) *AuthController {
	return &AuthController{users: users, tokens: tokens, blacklist: blacklist, cookieSecure: cookieSecure, log: log}
}

type credentialsRequest struct {
	FullName string `json:"fullName" binding:"required,notblank,max=128"`
	Username string `json:"username" binding:"required,notblank,max=64"`
	Password string `json:"password" binding:"required,max=72"`
}

// Register handles local account registration with bcrypt hashing.
func (a *AuthController) Register(ctx *gin.Context) {
	var req credentialsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "All fields are required: fullName, username, and password")
		return
	}

	user, err := a.users.Register(ctx.Request.Context(), req.FullName, req.Username, req.Password)
	if err != nil {
		utils.RespondError(ctx, a.log, err)
		return
	}
	utils.Created(ctx, user)
}

// Login verifies user credentials and issues a token as cookie and in the body.
func (a *AuthController) Login(ctx *gin.Context) {
	var req credentialsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "All fields are required: fullName, username, and password")
		return
	}

	identity, err := a.users.Authenticate(ctx.Request.Context(), req.FullName, req.Username, req.Password)
	if err != nil {
		// every credential failure is a 400 on this endpoint
		var appErr *utils.AppError
		if errors.As(err, &appErr) && appErr.Code != utils.ErrInternal {
			utils.Error(ctx, http.StatusBadRequest, appErr.Message)
			return
		}
		utils.RespondError(ctx, a.log, err)
		return
	}

	token, expiresAt, err := a.tokens.Issue(identity)
	if err != nil {
		a.log.Error("token signing failed", zap.Uint("user_id", identity.UserID), zap.Error(err))
		utils.Error(ctx, http.StatusInternalServerError, "Error generating token")
		return
	}

	a.setTokenCookie(ctx, token, int(time.Until(expiresAt).Seconds()))
	utils.Success(ctx, gin.H{
		"message": "ok",
		"token":   token,
		"user":    identity,
	})
}

// Logout revokes the presented token until its expiry and clears the cookie.
func (a *AuthController) Logout(ctx *gin.Context) {
	token, expiresAt := middleware.CurrentToken(ctx)
	if err := a.blacklist.Revoke(ctx.Request.Context(), token, expiresAt); err != nil {
		utils.RespondError(ctx, a.log, utils.NewInternalError("failed to revoke token", err))
		return
	}
	a.setTokenCookie(ctx, "", -1)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Profile returns the identity embedded in the session token.
func (a *AuthController) Profile(ctx *gin.Context) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "Access denied. No token provided.")
		return
	}
	utils.Success(ctx, identity)
}

func (a *AuthController) setTokenCookie(ctx *gin.Context, value string, maxAge int) {
	if a.cookieSecure {
		ctx.SetSameSite(http.SameSiteNoneMode)
	} else {
		ctx.SetSameSite(http.SameSiteLaxMode)
	}
	ctx.SetCookie(middleware.TokenCookieName, value, maxAge, "/", "", a.cookieSecure, true)
}
