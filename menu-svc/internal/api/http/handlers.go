package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gourmet-ordering/menu-svc/internal/service"
	"gourmet-ordering/middleware"

	"github.com/gorilla/mux"
)

const loadFailureHint = "check POS_API_URL / POS_API_TOKEN"

type Handler struct {
	Menu service.MenuServiceInterface
}

func NewHandler(menu service.MenuServiceInterface) *Handler {
	return &Handler{Menu: menu}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/menu/categories", h.getCategories).Methods("GET")
	r.HandleFunc("/api/menu/categories/{id}", h.getCategory).Methods("GET")
	r.HandleFunc("/api/menu/refresh", h.refresh).Methods("POST")
	r.HandleFunc("/api/menu/popular", h.getPopular).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "menu-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) getCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Menu.Categories(r.Context())
	if err != nil {
		h.loadError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Menu.Refresh(r.Context())
	if err != nil {
		h.loadError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// getCategory accepts ?sub=a&sub=b as well as ?sub=a,b.
func (h *Handler) getCategory(w http.ResponseWriter, r *http.Request) {
	var selected []string
	for _, value := range r.URL.Query()["sub"] {
		for _, sub := range strings.Split(value, ",") {
			selected = append(selected, strings.TrimSpace(sub))
		}
	}

	detail, err := h.Menu.Category(r.Context(), mux.Vars(r)["id"], selected)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			http.Error(w, "Category not found", http.StatusNotFound)
			return
		}
		h.loadError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) getPopular(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "limit must be a number", http.StatusBadRequest)
			return
		}
		limit = n
	}

	items, err := h.Menu.Popular(r.Context(), limit)
	if err != nil {
		h.loadError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) loadError(w http.ResponseWriter, r *http.Request, err error) {
	log := middleware.Logger(r).WithError(err)
	if errors.Is(err, service.ErrSuperseded) {
		log.Warn("menu refresh superseded")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	log.Error("Failed to load menu data")
	writeJSON(w, http.StatusBadGateway, map[string]string{
		"error": "Failed to load menu data",
		"hint":  loadFailureHint,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
