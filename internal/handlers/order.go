package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/greenshop/storefront/internal/cart"
	"github.com/greenshop/storefront/internal/logging"
	"github.com/greenshop/storefront/internal/models"
	"github.com/greenshop/storefront/internal/mykafka"
)

type OrderHandler struct {
	DB       *gorm.DB
	Carts    *cart.Manager
	Producer mykafka.Publisher
}

type checkoutRequest struct {
	FirstName     string `json:"firstname" validate:"required"`
	LastName      string `json:"lastname"`
	Address       string `json:"address"`
	Town          string `json:"town"`
	Phone         string `json:"phone"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=cash-on-delivery card paypal"`
}

type orderResponse struct {
	OrderID  string             `json:"order_id"`
	Status   string             `json:"status"`
	Totals   TotalsResponse     `json:"totals"`
	Items    []models.OrderItem `json:"items"`
}

// Checkout snapshots the session cart into an immutable order. The cart is
// cleared only after the order row is durably created.
func (h *OrderHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout")
	userID := currentUserID(c)

	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid billing details")
	}

	userCart := h.Carts.Get(userID)
	items := userCart.Items()
	if len(items) == 0 {
		return errorResponse(c, http.StatusBadRequest, "no items in cart")
	}

	totals := userCart.Totals()

	order := models.Order{
		PublicID:       uuid.NewString(),
		UserID:         userID,
		Status:         "new",
		PaymentMethod:  req.PaymentMethod,
		Subtotal:       totals.Subtotal,
		Discount:       totals.Discount,
		Shipping:       totals.Shipping,
		Total:          totals.Total,
		BillingName:    req.FirstName,
		BillingSurname: req.LastName,
		BillingAddress: req.Address,
		BillingTown:    req.Town,
		BillingPhone:   req.Phone,
	}

	var orderItems []models.OrderItem
	txErr := h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		orderItems = make([]models.OrderItem, 0, len(items))
		for _, it := range items {
			oi := models.OrderItem{
				OrderID:   order.ID,
				ProductID: it.ProductID,
				Title:     it.Title,
				MainImage: it.MainImage,
				UnitPrice: it.UnitPrice,
				Quantity:  it.Quantity,
			}
			if err := tx.Create(&oi).Error; err != nil {
				return err
			}
			orderItems = append(orderItems, oi)
		}
		return nil
	})
	if txErr != nil {
		l.Error("checkout_error", "status", 500, "error", txErr)
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	couponPct := userCart.CouponPercent()
	userCart.Clear()

	publishEvent(c, h.Producer, "order_events", fmt.Sprint(userID), map[string]any{
		"type":    "order_created",
		"userID":  userID,
		"orderID": order.PublicID,
		"total":   order.Total.StringFixed(2),
	})

	l.Info("order placed", "order_id", order.PublicID, "total", order.Total.StringFixed(2))
	return c.JSON(http.StatusOK, orderResponse{
		OrderID: order.PublicID,
		Status:  order.Status,
		Totals:  totalsResponse(totals, couponPct),
		Items:   orderItems,
	})
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	userID := currentUserID(c)

	var orders []models.Order
	if err := h.DB.WithContext(ctx).Where("user_id = ?", userID).Order("id DESC").Find(&orders).Error; err != nil {
		logging.FromContext(ctx).Error("list_orders_error", "error", err)
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	userID := currentUserID(c)

	var order models.Order
	if err := h.DB.WithContext(ctx).Where("public_id = ? AND user_id = ?", c.Param("id"), userID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, "order not found")
		}
		logging.FromContext(ctx).Error("get_order_error", "error", err)
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	var items []models.OrderItem
	if err := h.DB.WithContext(ctx).Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
		logging.FromContext(ctx).Error("get_order_error", "error", err)
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, map[string]any{"order": order, "items": items})
}

// DeleteOrder is the administrative action: orders are never mutated after
// creation, only removed.
func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delete.order")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return errorResponse(c, http.StatusBadRequest, "invalid id")
	}

	txErr := h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, id).Error
	})
	if txErr != nil {
		l.Error("delete_order_error", "status", 500, "error", txErr)
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	publishEvent(c, h.Producer, "order_events", fmt.Sprint(id), map[string]any{
		"type":    "order_deleted",
		"orderID": id,
	})

	return c.NoContent(http.StatusNoContent)
}
