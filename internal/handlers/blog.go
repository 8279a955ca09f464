package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/greenshop/storefront/internal/logging"
	"github.com/greenshop/storefront/internal/models"
	"github.com/greenshop/storefront/internal/util"
)

type BlogHandler struct {
	DB *gorm.DB
}

type blogRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

func (h *BlogHandler) CreatePost(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "create.blog")

	var req blogRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "title and content required")
	}

	post := models.BlogPost{
		UserID:  currentUserID(c),
		Title:   req.Title,
		Content: req.Content,
	}
	if err := h.DB.WithContext(ctx).Create(&post).Error; err != nil {
		l.Error("create_blog_error", "status", 500, "error", err)
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusCreated, post)
}

func (h *BlogHandler) ListPosts(c echo.Context) error {
	ctx := c.Request().Context()

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	var posts []models.BlogPost
	if err := h.DB.WithContext(ctx).Order("id DESC").Offset(offset).Limit(limit).Find(&posts).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, posts)
}

func (h *BlogHandler) GetPost(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return errorResponse(c, http.StatusBadRequest, "invalid id")
	}

	var post models.BlogPost
	if err := h.DB.WithContext(c.Request().Context()).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, "post not found")
		}
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePost removes a post owned by the caller.
func (h *BlogHandler) DeletePost(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return errorResponse(c, http.StatusBadRequest, "invalid id")
	}

	res := h.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, currentUserID(c)).Delete(&models.BlogPost{})
	if res.Error != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}
	if res.RowsAffected == 0 {
		return errorResponse(c, http.StatusNotFound, "post not found")
	}
	return c.NoContent(http.StatusNoContent)
}
