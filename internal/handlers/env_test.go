package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/greenshop/storefront/internal/cart"
	"github.com/greenshop/storefront/internal/coupon"
	"github.com/greenshop/storefront/internal/handlers"
	"github.com/greenshop/storefront/internal/models"
	"github.com/greenshop/storefront/internal/pubsub"
	"github.com/greenshop/storefront/internal/session"
	httpserver "github.com/greenshop/storefront/internal/transport/http"
	"github.com/greenshop/storefront/internal/userstore"
	"github.com/greenshop/storefront/internal/wishlist"
)

var jwtSecret = []byte("test-secret")

type testEnv struct {
	T     *testing.T
	E     *echo.Echo
	DB    *gorm.DB
	Carts *cart.Manager
	Bus   *pubsub.Bus

	Cart     *handlers.CartHandler
	Wishlist *handlers.WishlistHandler
	Order    *handlers.OrderHandler
	Blog     *handlers.BlogHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Product{},
		&models.UserBlob{},
		&models.Order{},
		&models.OrderItem{},
		&models.BlogPost{},
	))

	e := echo.New()
	e.Validator = httpserver.NewValidator()

	carts := cart.NewManager()
	bus := pubsub.NewBus()
	store := userstore.New(db, nil)
	sync := wishlist.New(store, bus)

	return &testEnv{
		T:     t,
		E:     e,
		DB:    db,
		Carts: carts,
		Bus:   bus,

		Cart:     &handlers.CartHandler{DB: db, Carts: carts},
		Wishlist: &handlers.WishlistHandler{DB: db, Wishlist: sync, JWTSecret: jwtSecret},
		Order:    &handlers.OrderHandler{DB: db, Carts: carts},
		Blog:     &handlers.BlogHandler{DB: db},
	}
}

func (env *testEnv) couponHandler(validCode string, percent float64) *handlers.CouponHandler {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			CouponCode string `json:"coupon_code"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.CouponCode != validCode {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"coupon_code":  req.CouponCode,
			"discount_for": percent,
		})
	}))
	env.T.Cleanup(srv.Close)

	return &handlers.CouponHandler{Carts: env.Carts, Resolver: coupon.NewClient(srv.URL)}
}

// doJSONRequest builds a request/recorder pair the way the middleware
// chain would: cookies attached, user set on the context when logged in.
func (env *testEnv) doJSONRequest(method, target string, body any, userID uint, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	env.T.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	if userID != 0 {
		c.Set("userID", userID)
	}
	return rec, c
}

func accessCookie(t *testing.T, userID uint, role string) *http.Cookie {
	t.Helper()
	token, err := session.Sign(userID, role, jwtSecret, time.Now().Add(15*time.Minute).Unix())
	require.NoError(t, err)
	return &http.Cookie{Name: "accessToken", Value: token, Path: "/"}
}

func (env *testEnv) seedProduct(price string) models.Product {
	p := models.Product{
		Title:    gofakeit.ProductName(),
		Price:    decimal.RequireFromString(price),
		Category: "houseplants",
	}
	require.NoError(env.T, env.DB.Create(&p).Error)
	return p
}
