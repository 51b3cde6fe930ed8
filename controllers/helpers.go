package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/dollarblog/middleware"
	"github.com/cppla/dollarblog/utils"
)

// parseID reads a positive numeric path parameter.
func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func parsePagination(pageStr, sizeStr string, defaultSize int) (int, int) {
	page := 1
	pageSize := defaultSize
	if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
		page = p
	}
	// the store caps oversized pages
	if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 {
		pageSize = s
	}
	return page, pageSize
}

// requireIdentity aborts with 401 when AuthRequired did not run.
func requireIdentity(ctx *gin.Context) (utils.Identity, bool) {
	id, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "Access denied. No token provided.")
	}
	return id, ok
}
