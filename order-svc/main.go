package main

import (
	"context"
	"time"

	"gourmet-ordering/config"
	"gourmet-ordering/middleware"
	httpapi "gourmet-ordering/order-svc/internal/api/http"
	"gourmet-ordering/order-svc/internal/cart"
	"gourmet-ordering/order-svc/internal/checkout"
	"gourmet-ordering/order-svc/internal/favorites"
	"gourmet-ordering/order-svc/internal/storage"
)

func main() {
	cfg := config.MustLoad()
	log := config.NewLogger("order-svc", cfg.LogLevel)

	var backend favorites.Storage
	switch cfg.FavoritesBackend {
	case "redis":
		rdb := config.MustInitRedis()
		defer rdb.Close()
		backend = storage.NewRedisFavorites(rdb)
	case "postgres":
		db := config.MustInitPostgres()
		defer db.Close()
		pg := storage.NewPostgresFavorites(db)
		if err := pg.EnsureSchema(context.Background()); err != nil {
			log.Fatalf("Failed to ensure schema: %v", err)
		}
		backend = pg
	default:
		log.Fatalf("Unknown FAVORITES_BACKEND %q (want postgres or redis)", cfg.FavoritesBackend)
	}

	writer := config.NewKafkaWriter(cfg.OrderEventsTopic)
	defer writer.Close()

	checkoutSvc := checkout.NewService(cfg.CheckoutDelay,
		checkout.WithLogger(log),
		checkout.WithPublisher(storage.NewKafkaPublisher(writer)),
		checkout.WithQRGenerator(checkout.DefaultQRGenerator{BaseURL: cfg.QRBaseURL}),
	)

	carts := cart.NewRegistry()
	favs := favorites.NewRegistry(backend, log)
	go middleware.ExpireSessions(context.Background(), 10*time.Minute, middleware.SessionTTL, log, carts, favs)

	handler := httpapi.NewHandler(carts, favs, checkoutSvc)
	httpapi.StartServer(":"+cfg.OrderSvcPort, httpapi.NewRouter(handler, cfg.CORSAllowedOrigins, log), log)
}
