package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyCouponUpdatesTotals(t *testing.T) {
	env := newTestEnv(t)
	couponH := env.couponHandler("SAVE10", 10)
	p := env.seedProduct("25.00")

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", map[string]any{"product_id": p.ID}, 1)
	require.NoError(t, env.Cart.AddToCart(c))

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart/coupon", map[string]any{
		"coupon_code": "SAVE10",
	}, 1)
	require.NoError(t, couponH.ApplyCoupon(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp totalsDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "2.50", resp.Discount)
	require.Equal(t, "38.50", resp.Total)
	require.Equal(t, "10", resp.CouponPercent)
}

func TestInvalidCouponLeavesPriorPercent(t *testing.T) {
	env := newTestEnv(t)
	couponH := env.couponHandler("SAVE10", 10)
	p := env.seedProduct("25.00")

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", map[string]any{"product_id": p.ID}, 1)
	require.NoError(t, env.Cart.AddToCart(c))

	_, c = env.doJSONRequest(http.MethodPost, "/api/v1/cart/coupon", map[string]any{"coupon_code": "SAVE10"}, 1)
	require.NoError(t, couponH.ApplyCoupon(c))

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart/coupon", map[string]any{"coupon_code": "BOGUS"}, 1)
	require.NoError(t, couponH.ApplyCoupon(c))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	require.Equal(t, "10", env.Carts.Get(1).CouponPercent().String())
	require.Equal(t, "38.50", env.Carts.Get(1).Totals().Total.StringFixed(2))
}

func TestBlankCouponRejected(t *testing.T) {
	env := newTestEnv(t)
	couponH := env.couponHandler("SAVE10", 10)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart/coupon", map[string]any{"coupon_code": "   "}, 1)
	require.NoError(t, couponH.ApplyCoupon(c))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestNewCouponOverwritesPrior(t *testing.T) {
	env := newTestEnv(t)
	first := env.couponHandler("SAVE10", 10)
	second := env.couponHandler("SAVE20", 20)
	p := env.seedProduct("10.00")

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", map[string]any{"product_id": p.ID}, 1)
	require.NoError(t, env.Cart.AddToCart(c))

	_, c = env.doJSONRequest(http.MethodPost, "/api/v1/cart/coupon", map[string]any{"coupon_code": "SAVE10"}, 1)
	require.NoError(t, first.ApplyCoupon(c))

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart/coupon", map[string]any{"coupon_code": "SAVE20"}, 1)
	require.NoError(t, second.ApplyCoupon(c))
	require.Equal(t, http.StatusOK, rec.Code)

	require.Equal(t, "20", env.Carts.Get(1).CouponPercent().String())
}
