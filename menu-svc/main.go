package main

import (
	"net/http"
	"time"

	"gourmet-ordering/config"
	httpapi "gourmet-ordering/menu-svc/internal/api/http"
	"gourmet-ordering/menu-svc/internal/normalizer"
	"gourmet-ordering/menu-svc/internal/service"
	"gourmet-ordering/menu-svc/internal/storage"
)

func main() {
	cfg := config.MustLoad()
	log := config.NewLogger("menu-svc", cfg.LogLevel)

	source := storage.NewPOSSource(cfg.POSProxyURL, &http.Client{Timeout: 30 * time.Second})
	parser := normalizer.New(cfg.MenuNestedCategoryID, log)

	opts := []service.Option{service.WithLogger(log)}
	if cfg.MenuCacheTTL > 0 {
		rdb := config.MustInitRedis()
		defer rdb.Close()
		opts = append(opts,
			service.WithCache(storage.NewRedisMenuCache(rdb, cfg.MenuCacheTTL)),
			service.WithPopularity(storage.NewRedisPopularity(rdb)),
		)
	} else {
		log.Warn("MENU_CACHE_TTL is 0: menu cache and popularity disabled")
	}

	menu := service.NewMenuService(source, parser, cfg.MenuCacheTTL, opts...)
	handler := httpapi.NewHandler(menu)

	httpapi.StartServer(":"+cfg.MenuSvcPort, httpapi.NewRouter(handler, log), log)
}
