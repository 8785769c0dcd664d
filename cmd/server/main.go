package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"

	"trendnest_backend/internal/accounts"
	"trendnest_backend/internal/auth"
	"trendnest_backend/internal/cache"
	"trendnest_backend/internal/cart"
	"trendnest_backend/internal/catalog"
	"trendnest_backend/internal/checkout"
	"trendnest_backend/internal/config"
	"trendnest_backend/internal/database"
	"trendnest_backend/internal/handlers/api"
	"trendnest_backend/internal/handlers/web"
	"trendnest_backend/internal/routes"
	"trendnest_backend/internal/service"
	"trendnest_backend/internal/services"
	"trendnest_backend/internal/store"
	"trendnest_backend/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("❌ Configuration invalide :", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("❌ Connexion aux bases de données échouée :", err)
	}
	defer db.Close()

	if err := db.Scylla.EnsureSchema(context.Background()); err != nil {
		log.Fatal("❌ Vérification du schéma échouée :", err)
	}

	// Stores Scylla
	users := store.NewScyllaUsers(db.Scylla)
	activity := store.NewScyllaActivity(db.Scylla)
	products := store.NewScyllaProducts(db.Scylla)
	carts := store.NewScyllaCarts(db.Scylla)
	orders := store.NewScyllaOrders(db.Scylla)
	payments := store.NewScyllaPayments(db.Scylla)
	reviews := store.NewScyllaReviews(db.Scylla)
	wishlists := store.NewScyllaWishlists(db.Scylla)
	transitions := store.NewScyllaTransitions(db.Scylla)

	// Services
	redisCache := cache.New(db.Redis)
	search := service.NewSearch(db.Elastic)
	images := services.NewImages(db.MinIO, cfg.MinIO)
	mailer := utils.NewMailer(cfg.SMTP, cfg.BaseURL, cfg.Frontend)

	accountsSvc := accounts.NewService(users, activity)
	catalogSvc := catalog.NewService(products, search)
	cartSvc := cart.NewService(carts, products, redisCache)

	gateway := selectGateway(cfg.Payment)
	sequencer := checkout.NewSequencer(orders, payments, products, transitions, users, cartSvc, gateway, mailer, redisCache)

	// Authentification : session pour les formulaires, bearer token pour l'API
	sessions := auth.NewSessionResolver(cfg.Session)
	tokens := auth.NewTokenResolver(cfg.JWT, users)
	auth.RegisterOAuthProviders(cfg.Session, cfg.OAuth, cfg.BaseURL)

	h := &routes.Handlers{
		Sessions: sessions,
		Tokens:   tokens,
		Redis:    db.Redis,

		APIAuth:     api.NewAuthHandler(accountsSvc, cfg.JWT),
		APIOAuth:    api.NewOAuthHandler(accountsSvc, cfg.JWT, auth.GoogleConfig(cfg.OAuth, cfg.BaseURL)),
		APIProfile:  api.NewProfileHandler(accountsSvc),
		APIProducts: api.NewProductHandler(catalogSvc, search, redisCache, images),
		APICats:     api.NewCategoryHandler(catalogSvc),
		APICart:     api.NewCartHandler(cartSvc, redisCache),
		APICartWS:   api.NewCartWS(cartSvc, redisCache),
		APIOrders:   api.NewOrderHandler(orders, sequencer, images, cfg),
		APIReviews:  api.NewReviewHandler(reviews, products, redisCache),
		APIWishlist: api.NewWishlistHandler(wishlists, products),

		WebAuth:     web.NewAuthHandler(accountsSvc, sessions),
		WebProducts: web.NewProductHandler(catalogSvc, sessions),
		WebAdmin:    web.NewAdminHandler(catalogSvc, images, sessions),
		WebCart:     web.NewCartHandler(cartSvc, sessions),
		WebCheckout: web.NewCheckoutHandler(cartSvc, sequencer, orders, sessions),
		WebPayments: web.NewPaymentHandler(payments, sequencer, sessions),
	}

	r := gin.Default()
	routes.RegisterRoutes(r, h, cfg.Frontend)

	log.Println("🚀 Serveur TrendNest lancé sur le port", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("❌ Arrêt du serveur :", err)
	}
}

// selectGateway branche la passerelle réelle uniquement sur demande explicite.
func selectGateway(cfg config.PaymentConfig) checkout.Gateway {
	if cfg.Gateway == "stripe" {
		if cfg.StripeSecretKey == "" {
			log.Fatal("❌ Impossible d'initialiser Stripe : clé manquante")
		}
		stripe.Key = cfg.StripeSecretKey
		log.Println("✅ Stripe initialisé")
		return checkout.StripeGateway{}
	}
	log.Println("💳 Passerelle de paiement simulée active")
	return checkout.SimulatedGateway{}
}
