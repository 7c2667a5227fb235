package httpapi

import (
	"net/http"

	"gourmet-ordering/middleware"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

// NewRouter serves the session-scoped API. origins must be concrete: the
// session cookie is credentialed.
func NewRouter(handler *Handler, origins []string, log logrus.FieldLogger) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.Session, middleware.Logging(log))
	handler.RegisterRoutes(r)
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders:   []string{"Content-Type", middleware.SessionHeader},
		ExposedHeaders:   []string{middleware.SessionHeader},
		AllowCredentials: true,
	}).Handler(r)
}

func StartServer(addr string, handler http.Handler, log logrus.FieldLogger) {
	log.Infof("Order Service starting on %s", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
