package coupon

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidCoupon means the code was rejected, locally or by the
	// validation service. Pricing state must stay untouched.
	ErrInvalidCoupon = errors.New("invalid coupon code")

	// ErrRequestFailed covers every other remote failure.
	ErrRequestFailed = errors.New("coupon validation request failed")
)

// Client resolves coupon codes against the remote validation endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(couponServiceURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(couponServiceURL, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type validateRequest struct {
	CouponCode string `json:"coupon_code"`
}

type validateResponse struct {
	CouponCode  string          `json:"coupon_code"`
	DiscountFor decimal.Decimal `json:"discount_for"`
}

// Resolve validates a code and returns its discount percentage. Blank or
// whitespace codes are rejected locally without touching the network.
func (c *Client) Resolve(ctx context.Context, code string) (decimal.Decimal, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return decimal.Zero, ErrInvalidCoupon
	}

	body, err := json.Marshal(validateRequest{CouponCode: code})
	if err != nil {
		return decimal.Zero, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/coupon/validate",
		bytes.NewReader(body),
	)
	if err != nil {
		return decimal.Zero, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound,
		resp.StatusCode == http.StatusBadRequest,
		resp.StatusCode == http.StatusUnprocessableEntity:
		return decimal.Zero, ErrInvalidCoupon
	default:
		return decimal.Zero, fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}

	var result validateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return decimal.Zero, fmt.Errorf("%w: decode response: %v", ErrRequestFailed, err)
	}

	pct := result.DiscountFor
	if pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.Zero, ErrInvalidCoupon
	}
	return pct, nil
}
