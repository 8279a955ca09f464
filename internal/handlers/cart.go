package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/greenshop/storefront/internal/cart"
	"github.com/greenshop/storefront/internal/logging"
	"github.com/greenshop/storefront/internal/models"
	"github.com/greenshop/storefront/internal/mykafka"
)

type CartHandler struct {
	DB       *gorm.DB
	Carts    *cart.Manager
	Producer mykafka.Publisher
}

type cartResponse struct {
	Items  []cart.LineItem `json:"items"`
	Totals TotalsResponse  `json:"totals"`
}

func (h *CartHandler) respond(c echo.Context, code int, userCart *cart.Cart) error {
	return c.JSON(code, cartResponse{
		Items:  userCart.Items(),
		Totals: totalsResponse(userCart.Totals(), userCart.CouponPercent()),
	})
}

func (h *CartHandler) GetCart(c echo.Context) error {
	userCart := h.Carts.Get(currentUserID(c))
	return h.respond(c, http.StatusOK, userCart)
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "add.cart")
	userID := currentUserID(c)

	var req struct {
		ProductID uint `json:"product_id"`
		Quantity  uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return errorResponse(c, http.StatusBadRequest, "invalid body")
	}
	if req.ProductID == 0 {
		return errorResponse(c, http.StatusBadRequest, "product_id required")
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	var product models.Product
	if err := h.DB.WithContext(ctx).First(&product, req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, "product not found")
		}
		l.Error("add_to_cart_error", "status", 500, "error", err)
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	unitPrice := product.Price
	if product.Discount && product.DiscountPrice.IsPositive() {
		unitPrice = product.DiscountPrice
	}

	userCart := h.Carts.Get(userID)
	item := userCart.Add(cart.LineItem{
		ProductID: product.ID,
		Title:     product.Title,
		MainImage: product.MainImage,
		UnitPrice: unitPrice,
		Quantity:  req.Quantity,
	})

	publishEvent(c, h.Producer, "cart_events", fmt.Sprint(userID), map[string]any{
		"type":       "cart_item_added",
		"userID":     userID,
		"productID":  item.ProductID,
		"quantity":   item.Quantity,
	})

	l.Info("item added to cart", "product_id", item.ProductID, "quantity", item.Quantity)
	return h.respond(c, http.StatusOK, userCart)
}

func (h *CartHandler) SetQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "set.cart.quantity")
	userID := currentUserID(c)

	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil || productID <= 0 {
		return errorResponse(c, http.StatusBadRequest, "invalid id")
	}

	var req struct {
		Quantity uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid body")
	}

	userCart := h.Carts.Get(userID)
	if _, ok := userCart.SetQuantity(uint(productID), req.Quantity); !ok {
		return errorResponse(c, http.StatusNotFound, "item not found")
	}

	publishEvent(c, h.Producer, "cart_events", fmt.Sprint(userID), map[string]any{
		"type":         "cart_quantity_changed",
		"userID":       userID,
		"productID":    productID,
		"new_quantity": req.Quantity,
	})

	l.Info("cart quantity changed", "product_id", productID, "quantity", req.Quantity)
	return h.respond(c, http.StatusOK, userCart)
}

func (h *CartHandler) DeleteFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delete.cart")
	userID := currentUserID(c)

	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil || productID <= 0 {
		return errorResponse(c, http.StatusBadRequest, "invalid id")
	}

	userCart := h.Carts.Get(userID)
	if !userCart.Remove(uint(productID)) {
		return errorResponse(c, http.StatusNotFound, "item not found")
	}

	publishEvent(c, h.Producer, "cart_events", fmt.Sprint(userID), map[string]any{
		"type":         "cart_item_deleted",
		"userID":       userID,
		"deleted_item": productID,
	})

	l.Info("item deleted from cart", "product_id", productID)
	return h.respond(c, http.StatusOK, userCart)
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	userID := currentUserID(c)

	userCart := h.Carts.Get(userID)
	userCart.Clear()

	publishEvent(c, h.Producer, "cart_events", fmt.Sprint(userID), map[string]any{
		"type":   "cart_cleared",
		"userID": userID,
	})

	return h.respond(c, http.StatusOK, userCart)
}
