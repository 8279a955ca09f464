package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/greenshop/storefront/internal/logging"
	"github.com/greenshop/storefront/internal/mykafka"
	"github.com/greenshop/storefront/internal/pricing"
)

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func errorResponse(c echo.Context, code int, msg string) error {
	return c.JSON(code, Response{Status: "error", Message: msg})
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// currentUserID reads the session user set by the auth middleware.
func currentUserID(c echo.Context) uint {
	uid, _ := c.Get("userID").(uint)
	return uid
}

// publishEvent emits a domain event best-effort: a broker failure is logged
// and never fails the request.
func publishEvent(c echo.Context, producer mykafka.Publisher, topic, key string, event map[string]any) {
	if producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := producer.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish failed", "topic", topic, "error", err)
	}
}

// TotalsResponse is the displayed price breakdown: monetary values are
// rounded to two decimal places here and nowhere earlier.
type TotalsResponse struct {
	Subtotal      string `json:"subtotal"`
	Discount      string `json:"discount"`
	Shipping      string `json:"shipping"`
	Total         string `json:"total"`
	CouponPercent string `json:"coupon_percent"`
}

func totalsResponse(t pricing.Totals, couponPercent decimal.Decimal) TotalsResponse {
	return TotalsResponse{
		Subtotal:      t.Subtotal.StringFixed(2),
		Discount:      t.Discount.StringFixed(2),
		Shipping:      t.Shipping.StringFixed(2),
		Total:         t.Total.StringFixed(2),
		CouponPercent: couponPercent.String(),
	}
}
