package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/techpress/newsfeed/core"
	"github.com/techpress/newsfeed/search"
	"github.com/techpress/newsfeed/storage"
)

const (
	defaultListLimit   = 20
	maxListLimit       = 100
	defaultSearchLimit = 10
	maxSearchLimit     = 100
)

// Handler serves the newsfeed HTTP API.
type Handler struct {
	repository storage.ArticleRepository
	searcher   *search.Searcher
	logger     *slog.Logger
}

// NewHandler creates a handler over the record store and the searcher.
func NewHandler(repository storage.ArticleRepository, searcher *search.Searcher, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		repository: repository,
		searcher:   searcher,
		logger:     logger.With("component", "api"),
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) GetArticle(c *gin.Context) {
	id := c.Param("id")

	article, err := h.repository.Get(c.Request.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed to get article", "id", id, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, toArticleResponse(article))
}

func (h *Handler) ListArticles(c *gin.Context) {
	var category core.Category
	if raw := c.Query("category"); raw != "" {
		parsed, err := core.ParseCategory(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category: " + raw})
			return
		}
		category = parsed
	}

	limit, ok := parseBoundedInt(c, "limit", defaultListLimit, maxListLimit)
	if !ok {
		return
	}
	offset, ok := parseNonNegativeInt(c, "offset", 0)
	if !ok {
		return
	}

	articles, err := h.repository.List(c.Request.Context(), category, limit, offset)
	if err != nil {
		h.logger.Error("failed to list articles", "category", category, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, ListResponse{
		Articles: toArticleResponses(articles),
		Count:    len(articles),
		Limit:    limit,
		Offset:   offset,
	})
}

func (h *Handler) SearchArticles(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing query parameter"})
		return
	}

	limit, ok := parseBoundedInt(c, "limit", defaultSearchLimit, maxSearchLimit)
	if !ok {
		return
	}

	results, err := h.searcher.Search(c.Request.Context(), query, limit)
	if errors.Is(err, search.ErrEmptyQuery) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing query parameter"})
		return
	}
	if err != nil {
		h.logger.Error("search failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, SearchResponse{
		Query:   query,
		Results: toArticleResponses(results),
		Count:   len(results),
	})
}

// parseBoundedInt reads a positive integer query parameter, applying a
// default and an upper cap. Responds 400 and returns false on a malformed
// value.
func parseBoundedInt(c *gin.Context, name string, def, max int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " parameter"})
		return 0, false
	}
	if value > max {
		value = max
	}
	return value, true
}

func parseNonNegativeInt(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " parameter"})
		return 0, false
	}
	return value, true
}
