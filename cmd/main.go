package main

import (
	"context"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"storefront/auth"
	"storefront/billplz"
	"storefront/config"
	"storefront/controllers"
	"storefront/database"
	"storefront/routes"
	"storefront/service"
	"storefront/store"
)

func main() {
	config.LoadEnv()
	cfg := config.FromEnv()

	if cfg.MongoURI == "" || cfg.DBName == "" {
		log.Fatal("MONGO_URI or DB_NAME not set")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	db, err := database.Connect(context.Background(), cfg.MongoURI, cfg.DBName)
	if err != nil {
		log.WithError(err).Fatal("mongodb connection failed")
	}
	defer db.Close(context.Background())
	log.Info("connected to mongodb")

	// The memory driver swaps only the order store; users and products stay
	// in mongo. Useful for poking at the order API locally.
	var orderStore store.OrderStore = store.NewMongoStore(db.Orders(), db.Products())
	if cfg.StoreDriver == "memory" {
		log.Warn("using in-memory order store, orders will not survive restarts")
		orderStore = store.NewMemoryStore()
	}

	gateway := billplz.New(cfg.Billplz, nil)
	orderService := service.NewOrderService(orderStore, gateway, log.StandardLogger())

	resolver := &auth.TokenResolver{
		Secret:    []byte(cfg.JWTSecret),
		Users:     db,
		Blacklist: db,
	}

	r := gin.Default()
	if err := r.SetTrustedProxies(nil); err != nil {
		log.WithError(err).Fatal("failed to configure trusted proxies")
	}
	routes.Register(r, resolver, routes.Controllers{
		Auth:    controllers.NewAuthController(db, []byte(cfg.JWTSecret)),
		Orders:  controllers.NewOrderController(orderService),
		Product: controllers.NewProductController(db.Products()),
	})

	log.WithField("port", cfg.Port).Info("starting server")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
