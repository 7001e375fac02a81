package mockapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Options configures the server.
type Options struct {
	JWTSecret  string
	BcryptCost int
}

// NewServer wires the handlers onto an Echo instance. All routes live
// under /api, matching the prefix the storefront client appends to
// its base URL. Protected routes go through jwtAuth; the catalog is
// public.
func NewServer(state *State, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	auth := &AuthHandler{State: state, JWTSecret: opts.JWTSecret, BcryptCost: opts.BcryptCost}
	users := &UserHandler{State: state}
	products := &ProductHandler{State: state}
	cart := &CartHandler{State: state}
	orders := &OrderHandler{State: state}
	upload := &UploadHandler{}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	api := e.Group("/api")
	api.POST("/auth/register", auth.Register)
	api.POST("/auth/login", auth.Login)

	// Public catalog.
	api.GET("/products", products.List)
	api.GET("/products/:id", products.Get)
	api.GET("/products/user/:id", products.ListByUser)
	api.GET("/categories", products.Categories)

	protected := api.Group("", jwtAuth(opts.JWTSecret))
	protected.GET("/users/profile/me", users.Me)
	protected.GET("/users/:id", users.Get)
	protected.PUT("/users/:id", users.Update)
	protected.PUT("/users/:id/become-seller", users.BecomeSeller)

	protected.POST("/products", products.Create)
	protected.PUT("/products/:id", products.Update)
	protected.DELETE("/products/:id", products.Delete)

	protected.GET("/cart", cart.List)
	protected.POST("/cart", cart.Add)
	protected.PUT("/cart/:id", cart.Update)
	protected.DELETE("/cart/:id", cart.Remove)

	protected.POST("/orders", orders.Create)
	protected.GET("/orders", orders.List)
	protected.GET("/orders/:id", orders.Get)
	protected.PUT("/orders/:id/status", orders.UpdateStatus)
	protected.POST("/orders/:id/review", orders.AddReview)

	protected.POST("/upload", upload.Upload)

	return e
}
