package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"portfolio/internal/blog"
)

// 文章详情附带的相关文章数量
const relatedLimit = 3

// PostResponse 文章详情
type PostResponse struct {
	Post    *blog.Post             `json:"post"`
	Related []*blog.Post           `json:"related"`
	Series  *blog.SeriesNavigation `json:"series,omitempty"`
}

// ListPosts 文章列表
func (h *Handler) ListPosts(c echo.Context) error {
	posts, err := h.posts.List()
	if err != nil {
		slog.Error("读取文章列表失败", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch posts"})
	}
	return c.JSON(http.StatusOK, posts)
}

// GetPost 文章详情，包含相关文章和系列导航
func (h *Handler) GetPost(c echo.Context) error {
	slug := c.Param("slug")

	post, err := h.posts.Get(slug)
	if errors.Is(err, blog.ErrPostNotFound) {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "Post not found"})
	}
	if err != nil {
		slog.Error("读取文章失败", "slug", slug, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch post"})
	}

	related, err := h.posts.Related(slug, relatedLimit)
	if err != nil {
		slog.Warn("计算相关文章失败", "slug", slug, "error", err)
		related = []*blog.Post{}
	}
	nav, err := h.posts.Navigation(slug)
	if err != nil {
		slog.Warn("读取系列导航失败", "slug", slug, "error", err)
		nav = nil
	}

	return c.JSON(http.StatusOK, PostResponse{
		Post:    post,
		Related: related,
		Series:  nav,
	})
}

// ListTags 所有标签
func (h *Handler) ListTags(c echo.Context) error {
	tags, err := h.posts.Tags()
	if err != nil {
		slog.Error("读取标签失败", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch tags"})
	}
	return c.JSON(http.StatusOK, tags)
}

// ListSeries 所有系列
func (h *Handler) ListSeries(c echo.Context) error {
	series, err := h.posts.Series()
	if err != nil {
		slog.Error("读取系列失败", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch series"})
	}
	return c.JSON(http.StatusOK, series)
}
