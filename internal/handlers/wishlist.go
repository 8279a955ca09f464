package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/greenshop/storefront/internal/logging"
	"github.com/greenshop/storefront/internal/models"
	"github.com/greenshop/storefront/internal/mykafka"
	"github.com/greenshop/storefront/internal/session"
	"github.com/greenshop/storefront/internal/wishlist"
)

type WishlistHandler struct {
	DB        *gorm.DB
	Wishlist  *wishlist.Synchronizer
	Producer  mykafka.Publisher
	JWTSecret []byte
}

// Toggle runs outside the login-required group: an anonymous like must
// answer 401 so the client can show its login prompt, without mutating
// anything.
func (h *WishlistHandler) Toggle(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "toggle.wishlist")

	var userID uint
	if s, err := session.FromRequest(c, h.JWTSecret); err == nil {
		userID = s.UserID
	}

	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil || productID <= 0 {
		return errorResponse(c, http.StatusBadRequest, "invalid id")
	}

	var product models.Product
	if err := h.DB.WithContext(ctx).First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, "product not found")
		}
		l.Error("toggle_wishlist_error", "status", 500, "error", err)
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	added, list, err := h.Wishlist.Toggle(ctx, userID, product)
	if err != nil {
		if errors.Is(err, session.ErrUnauthenticated) {
			return errorResponse(c, http.StatusUnauthorized, "login required")
		}
		l.Error("toggle_wishlist_error", "status", 500, "error", err)
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	publishEvent(c, h.Producer, "wishlist_events", fmt.Sprint(userID), map[string]any{
		"type":      "wishlist_toggled",
		"userID":    userID,
		"productID": product.ID,
		"added":     added,
	})

	l.Info("wishlist toggled", "product_id", product.ID, "added", added)
	return c.JSON(http.StatusOK, map[string]any{
		"added":    added,
		"wishlist": list,
	})
}

func (h *WishlistHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "list.wishlist")

	list, err := h.Wishlist.List(ctx, currentUserID(c))
	if err != nil {
		l.Error("list_wishlist_error", "status", 500, "error", err)
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, list)
}

func (h *WishlistHandler) Contains(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil || productID <= 0 {
		return errorResponse(c, http.StatusBadRequest, "invalid id")
	}

	member, err := h.Wishlist.Contains(ctx, currentUserID(c), uint(productID))
	if err != nil {
		logging.FromContext(ctx).Error("contains_wishlist_error", "error", err)
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, map[string]bool{"member": member})
}
