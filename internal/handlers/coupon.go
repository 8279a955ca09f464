package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/greenshop/storefront/internal/cart"
	"github.com/greenshop/storefront/internal/coupon"
	"github.com/greenshop/storefront/internal/logging"
	"github.com/greenshop/storefront/internal/mykafka"
)

type CouponHandler struct {
	Carts    *cart.Manager
	Resolver *coupon.Client
	Producer mykafka.Publisher
}

// ApplyCoupon resolves the code remotely and stores the returned percentage
// on the user's cart. A rejected or failed resolution leaves whatever
// percentage was applied before untouched.
func (h *CouponHandler) ApplyCoupon(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "apply.coupon")
	userID := currentUserID(c)

	var req struct {
		CouponCode string `json:"coupon_code"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid body")
	}

	pct, err := h.Resolver.Resolve(ctx, req.CouponCode)
	if err != nil {
		if errors.Is(err, coupon.ErrInvalidCoupon) {
			l.Warn("coupon rejected", "code", req.CouponCode)
			return errorResponse(c, http.StatusUnprocessableEntity, "invalid coupon code")
		}
		l.Error("coupon resolution failed", "error", err)
		return errorResponse(c, http.StatusBadGateway, "coupon service unavailable")
	}

	userCart := h.Carts.Get(userID)
	userCart.ApplyCoupon(pct)

	publishEvent(c, h.Producer, "cart_events", fmt.Sprint(userID), map[string]any{
		"type":    "coupon_applied",
		"userID":  userID,
		"code":    req.CouponCode,
		"percent": pct.String(),
	})

	l.Info("coupon applied", "code", req.CouponCode, "percent", pct.String())
	return c.JSON(http.StatusOK, totalsResponse(userCart.Totals(), pct))
}
