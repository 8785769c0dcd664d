package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"trendnest_backend/internal/auth"
	"trendnest_backend/internal/handlers/api"
	"trendnest_backend/internal/handlers/web"
	"trendnest_backend/internal/middleware"
)

// Handlers rassemble tout ce que l'enregistrement des routes consomme.
type Handlers struct {
	Sessions *auth.SessionResolver
	Tokens   *auth.TokenResolver
	Redis    *redis.Client

	APIAuth     *api.AuthHandler
	APIOAuth    *api.OAuthHandler
	APIProfile  *api.ProfileHandler
	APIProducts *api.ProductHandler
	APICats     *api.CategoryHandler
	APICart     *api.CartHandler
	APICartWS   *api.CartWS
	APIOrders   *api.OrderHandler
	APIReviews  *api.ReviewHandler
	APIWishlist *api.WishlistHandler

	WebAuth     *web.AuthHandler
	WebProducts *web.ProductHandler
	WebAdmin    *web.AdminHandler
	WebCart     *web.CartHandler
	WebCheckout *web.CheckoutHandler
	WebPayments *web.PaymentHandler
}

// RegisterRoutes branche les deux surfaces : formulaires à la racine,
// JSON sous /api (avec CORS pour le frontend).
func RegisterRoutes(r *gin.Engine, h *Handlers, frontendURL string) {
	r.Use(middleware.APIRateLimit(h.Redis))

	registerWeb(r, h)
	registerAPI(r, h, frontendURL)
}

func registerWeb(r *gin.Engine, h *Handlers) {
	sessionAuth := middleware.Authenticated(h.Sessions)

	r.GET("/", h.WebProducts.Home)
	r.GET("/products", middleware.SearchRateLimit(h.Redis), h.WebProducts.Products)

	r.GET("/register", h.WebAuth.RegisterForm)
	r.POST("/register", h.WebAuth.Register)
	r.GET("/login", h.WebAuth.LoginForm)
	r.POST("/login", h.WebAuth.Login)
	r.GET("/logout", h.WebAuth.Logout)

	admin := r.Group("/admin", sessionAuth, middleware.RequireAdmin)
	{
		admin.GET("/products", h.WebAdmin.Products)
		admin.GET("/products/add", h.WebAdmin.AddForm)
		admin.POST("/products/add", h.WebAdmin.Add)
	}

	cartWrites := middleware.CartRateLimit(h.Redis)
	cart := r.Group("/cart", sessionAuth)
	{
		cart.GET("", h.WebCart.View)
		cart.POST("", cartWrites, h.WebCart.Add)
		cart.POST("/add", cartWrites, h.WebCart.Add)
		cart.POST("/update", cartWrites, h.WebCart.Update)
		cart.POST("/clear", cartWrites, h.WebCart.Clear)
	}

	checkout := r.Group("", sessionAuth)
	{
		checkout.GET("/checkout", h.WebCheckout.View)
		checkout.POST("/checkout", h.WebCheckout.Submit)
		checkout.GET("/order_confirmation/:id", h.WebCheckout.Confirmation)
		checkout.GET("/payments/:id/complete", h.WebPayments.CompleteForm)
		checkout.POST("/payments/:id/complete", h.WebPayments.Complete)
	}
}

func registerAPI(r *gin.Engine, h *Handlers, frontendURL string) {
	tokenAuth := middleware.Authenticated(h.Tokens)

	apiGroup := r.Group("/api")
	apiGroup.Use(cors.New(cors.Config{
		AllowOrigins:     []string{frontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	apiGroup.GET("/health", api.Health)

	apiGroup.POST("/auth/register", h.APIAuth.Register)
	apiGroup.POST("/auth/login", h.APIAuth.Login)
	apiGroup.GET("/auth/:provider", h.APIOAuth.BeginAuth)
	apiGroup.GET("/auth/:provider/callback", h.APIOAuth.CallbackAuth)
	apiGroup.GET("/oauth/google/url", h.APIOAuth.AuthURL)

	apiGroup.GET("/user/profile", tokenAuth, h.APIProfile.Profile)

	apiGroup.GET("/products", middleware.SearchRateLimit(h.Redis), h.APIProducts.List)
	apiGroup.GET("/search", middleware.SearchRateLimit(h.Redis), h.APIProducts.Search)
	apiGroup.GET("/images/signed-url", h.APIProducts.ImageURL)
	apiGroup.GET("/products/:id", h.APIProducts.Get)
	apiGroup.POST("/products", tokenAuth, middleware.RequireAdmin, h.APIProducts.Create)
	apiGroup.GET("/categories", h.APICats.List)

	apiGroup.GET("/products/:id/reviews", h.APIReviews.List)
	apiGroup.POST("/products/:id/reviews", tokenAuth, h.APIReviews.Create)

	cartWrites := middleware.CartRateLimit(h.Redis)
	cartGroup := apiGroup.Group("/cart", tokenAuth)
	{
		cartGroup.GET("", h.APICart.Get)
		cartGroup.POST("", cartWrites, h.APICart.Add)
		cartGroup.PUT("", cartWrites, h.APICart.Update)
		cartGroup.DELETE("/:productId", cartWrites, h.APICart.Remove)
		cartGroup.DELETE("", cartWrites, h.APICart.Clear)
		cartGroup.GET("/ws", h.APICartWS.Handle)
	}

	ordersGroup := apiGroup.Group("/orders", tokenAuth)
	{
		ordersGroup.GET("", h.APIOrders.List)
		ordersGroup.POST("", h.APIOrders.Create)
		ordersGroup.GET("/:id", h.APIOrders.Get)
		ordersGroup.GET("/:id/transitions", h.APIOrders.Transitions)
		ordersGroup.GET("/:id/qr", h.APIOrders.QR)
		ordersGroup.GET("/:id/invoice", h.APIOrders.Invoice)
	}

	wishlistGroup := apiGroup.Group("/wishlist", tokenAuth)
	{
		wishlistGroup.GET("", h.APIWishlist.Get)
		wishlistGroup.POST("", h.APIWishlist.Add)
		wishlistGroup.GET("/check/:productId", h.APIWishlist.Check)
		wishlistGroup.DELETE("/:productId", h.APIWishlist.Remove)
	}
}
