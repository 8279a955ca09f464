package httpserver

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/greenshop/storefront/internal/handlers"
	authmw "github.com/greenshop/storefront/internal/middleware/auth"
)

type Deps struct {
	JWTSecret       []byte
	ProductHandler  *handlers.ProductHandler
	CartHandler     *handlers.CartHandler
	CouponHandler   *handlers.CouponHandler
	WishlistHandler *handlers.WishlistHandler
	OrderHandler    *handlers.OrderHandler
	SearchHandler   *handlers.SearchHandler
	BlogHandler     *handlers.BlogHandler
}

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func Register(e *echo.Echo, d *Deps) {
	e.Validator = NewValidator()

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.GET("/search", d.SearchHandler.Search)

	products := v1.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)

	blog := v1.Group("/blog")
	blog.GET("", d.BlogHandler.ListPosts)
	blog.GET("/:id", d.BlogHandler.GetPost)
	blog.POST("", d.BlogHandler.CreatePost, authmw.RequireLogin(d.JWTSecret))
	blog.DELETE("/:id", d.BlogHandler.DeletePost, authmw.RequireLogin(d.JWTSecret))

	// Toggle authenticates on its own so an anonymous like answers 401
	// instead of being swallowed by the middleware.
	v1.POST("/wishlist/:id", d.WishlistHandler.Toggle)

	user := v1.Group("", authmw.RequireLogin(d.JWTSecret))

	user.GET("/wishlist", d.WishlistHandler.List)
	user.GET("/wishlist/:id", d.WishlistHandler.Contains)

	user.GET("/cart", d.CartHandler.GetCart)
	user.POST("/cart", d.CartHandler.AddToCart)
	user.PATCH("/cart/:id", d.CartHandler.SetQuantity)
	user.DELETE("/cart/:id", d.CartHandler.DeleteFromCart)
	user.DELETE("/cart", d.CartHandler.ClearCart)

	user.POST("/cart/coupon", d.CouponHandler.ApplyCoupon)

	user.POST("/checkout", d.OrderHandler.Checkout)
	user.GET("/orders", d.OrderHandler.ListOrders)
	user.GET("/orders/:id", d.OrderHandler.GetOrder)

	admin := v1.Group("/admin", authmw.AdminOnly(d.JWTSecret))
	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PATCH("/products/:id", d.ProductHandler.PatchProduct)
	admin.DELETE("/products/:id", d.ProductHandler.DeleteProduct)
	admin.DELETE("/orders/:id", d.OrderHandler.DeleteOrder)
}
