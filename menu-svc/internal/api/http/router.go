package httpapi

import (
	"net/http"

	"gourmet-ordering/middleware"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

func NewRouter(handler *Handler, log logrus.FieldLogger) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.Logging(log))
	handler.RegisterRoutes(r)
	return cors.Default().Handler(r)
}

func StartServer(addr string, handler http.Handler, log logrus.FieldLogger) {
	log.Infof("Menu Service starting on %s", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
