package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"gourmet-ordering/middleware"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	MenuSvcURL  string
	OrderSvcURL string
	FrontendDir string

	POSAPIURL   string
	POSAPIToken string
}

type Gateway struct {
	config Config
	client HTTPClient
	log    logrus.FieldLogger
}

func NewGateway(config Config, client HTTPClient, log logrus.FieldLogger) *Gateway {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Gateway{
		config: config,
		client: client,
		log:    log,
	}
}

func (g *Gateway) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status":  "healthy",
		"service": "api-gateway",
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (g *Gateway) ProxyRequest(w http.ResponseWriter, r *http.Request, targetURL string) {
	log := middleware.Logger(r).WithField("target", targetURL)
	log.Debugf("proxy %s %s", r.Method, r.URL.Path)

	url := targetURL + r.URL.Path
	if r.URL.RawQuery != "" {
		url += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, url, r.Body)
	if err != nil {
		log.WithError(err).Error("failed to create proxy request")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	for k, v := range r.Header {
		req.Header[k] = v
	}
	if id := middleware.RequestID(r); id != "" {
		req.Header.Set(middleware.RequestIDHeader, id)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		log.WithError(err).Error("backend unreachable")
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		w.Header()[k] = v
	}
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		log.WithError(err).Warn("failed to copy backend response")
	}
}

func (g *Gateway) RouteHandler(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	switch {
	case path == "/api/menu" || strings.HasPrefix(path, "/api/menu/"):
		g.ProxyRequest(w, r, g.config.MenuSvcURL)
		return
	case hasRoute(path, "/api/cart"), hasRoute(path, "/api/favorites"), hasRoute(path, "/api/checkout"):
		g.ProxyRequest(w, r, g.config.OrderSvcURL)
		return
	}

	if strings.HasPrefix(path, "/api/") {
		middleware.Logger(r).Warnf("unmatched API route: %s", path)
		http.Error(w, "API route not found", http.StatusNotFound)
		return
	}

	http.ServeFile(w, r, filepath.Join(g.config.FrontendDir, "index.html"))
}

func hasRoute(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func (g *Gateway) SetupRoutes() http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.Logging(g.log))
	r.HandleFunc("/health", g.HealthCheck).Methods("GET")
	r.HandleFunc("/api/data", g.POSData).Methods("GET", "POST")
	r.PathPrefix("/api/").HandlerFunc(g.RouteHandler)
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(g.config.FrontendDir))))
	r.PathPrefix("/").HandlerFunc(g.RouteHandler)
	return r
}

// NewCORS allows credentialed requests from the listed origins only; the
// session cookie is never accepted by browsers under a wildcard origin.
func NewCORS(origins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", middleware.SessionHeader, middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.SessionHeader, middleware.RequestIDHeader},
		AllowCredentials: true,
	})
}
