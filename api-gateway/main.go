package main

import (
	"net/http"

	"gourmet-ordering/api-gateway/internal/gateway"
	"gourmet-ordering/config"
)

func main() {
	cfg := config.MustLoad()
	log := config.NewLogger("api-gateway", cfg.LogLevel)

	gw := gateway.NewGateway(gateway.Config{
		MenuSvcURL:  cfg.MenuSvcURL,
		OrderSvcURL: cfg.OrderSvcURL,
		FrontendDir: cfg.FrontendDir,
		POSAPIURL:   cfg.POSAPIURL,
		POSAPIToken: cfg.POSAPIToken,
	}, &http.Client{}, log)

	r := gw.SetupRoutes()

	handler := gateway.NewCORS(cfg.CORSAllowedOrigins).Handler(r)

	if cfg.POSAPIURL == "" || cfg.POSAPIToken == "" {
		log.Warn("POS_API_URL or POS_API_TOKEN not set; /api/data will answer 500")
	}

	log.Infof("API Gateway starting on port %s", cfg.GatewayPort)
	log.Fatal(http.ListenAndServe(":"+cfg.GatewayPort, handler))
}
