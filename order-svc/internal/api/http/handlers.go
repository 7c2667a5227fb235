package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"gourmet-ordering/middleware"
	"gourmet-ordering/order-svc/internal/cart"
	"gourmet-ordering/order-svc/internal/checkout"
	"gourmet-ordering/order-svc/internal/domain"
	"gourmet-ordering/order-svc/internal/favorites"

	"github.com/gorilla/mux"
)

type Handler struct {
	Carts     *cart.Registry
	Favorites *favorites.Registry
	Checkout  checkout.ServiceInterface
}

func NewHandler(carts *cart.Registry, favs *favorites.Registry, checkoutSvc checkout.ServiceInterface) *Handler {
	return &Handler{
		Carts:     carts,
		Favorites: favs,
		Checkout:  checkoutSvc,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/cart", h.getCart).Methods("GET")
	r.HandleFunc("/api/cart", h.clearCart).Methods("DELETE")
	r.HandleFunc("/api/cart/items", h.addCartItem).Methods("POST")
	r.HandleFunc("/api/cart/items/{id}", h.updateCartItem).Methods("PUT")
	r.HandleFunc("/api/cart/items/{id}", h.removeCartItem).Methods("DELETE")
	r.HandleFunc("/api/cart/open", h.openCart).Methods("POST")
	r.HandleFunc("/api/cart/close", h.closeCart).Methods("POST")

	r.HandleFunc("/api/favorites", h.getFavorites).Methods("GET")
	r.HandleFunc("/api/favorites", h.addFavorite).Methods("POST")
	r.HandleFunc("/api/favorites/toggle", h.toggleFavorite).Methods("POST")
	r.HandleFunc("/api/favorites/{id}", h.getFavorite).Methods("GET")
	r.HandleFunc("/api/favorites/{id}", h.removeFavorite).Methods("DELETE")

	r.HandleFunc("/api/checkout/quote", h.getQuote).Methods("GET")
	r.HandleFunc("/api/checkout", h.submitCheckout).Methods("POST")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "order-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) cart(r *http.Request) *cart.Cart {
	return h.Carts.Get(middleware.SessionID(r))
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.cart(r).State())
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	c := h.cart(r)
	c.Clear()
	writeJSON(w, http.StatusOK, c.State())
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var item domain.CartItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if item.ID == "" {
		http.Error(w, "Missing item id", http.StatusBadRequest)
		return
	}
	if item.Price < 0 || item.Discount < 0 || item.Discount > 100 {
		http.Error(w, "Invalid price or discount", http.StatusBadRequest)
		return
	}

	c := h.cart(r)
	c.AddItem(item)
	writeJSON(w, http.StatusOK, c.State())
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Quantity *int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if payload.Quantity == nil {
		http.Error(w, "Missing quantity", http.StatusBadRequest)
		return
	}

	c := h.cart(r)
	c.UpdateQuantity(mux.Vars(r)["id"], *payload.Quantity)
	writeJSON(w, http.StatusOK, c.State())
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	c := h.cart(r)
	c.RemoveItem(mux.Vars(r)["id"])
	writeJSON(w, http.StatusOK, c.State())
}

func (h *Handler) openCart(w http.ResponseWriter, r *http.Request) {
	c := h.cart(r)
	c.Open()
	writeJSON(w, http.StatusOK, c.State())
}

func (h *Handler) closeCart(w http.ResponseWriter, r *http.Request) {
	c := h.cart(r)
	c.Close()
	writeJSON(w, http.StatusOK, c.State())
}

func (h *Handler) favorites(w http.ResponseWriter, r *http.Request) (*favorites.Store, bool) {
	store, err := h.Favorites.Get(r.Context(), middleware.SessionID(r))
	if err != nil {
		middleware.Logger(r).WithError(err).Error("failed to open favorites")
		http.Error(w, "Failed to load favorites", http.StatusInternalServerError)
		return nil, false
	}
	return store, true
}

func (h *Handler) getFavorites(w http.ResponseWriter, r *http.Request) {
	store, ok := h.favorites(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, store.Items())
}

func (h *Handler) getFavorite(w http.ResponseWriter, r *http.Request) {
	store, ok := h.favorites(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":          id,
		"is_favorite": store.IsFavorite(id),
	})
}

func (h *Handler) addFavorite(w http.ResponseWriter, r *http.Request) {
	item, ok := decodeFavorite(w, r)
	if !ok {
		return
	}
	store, ok := h.favorites(w, r)
	if !ok {
		return
	}
	if err := store.Add(r.Context(), item); err != nil {
		h.saveError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, store.Items())
}

func (h *Handler) removeFavorite(w http.ResponseWriter, r *http.Request) {
	store, ok := h.favorites(w, r)
	if !ok {
		return
	}
	if err := store.Remove(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.saveError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, store.Items())
}

func (h *Handler) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	item, ok := decodeFavorite(w, r)
	if !ok {
		return
	}
	store, ok := h.favorites(w, r)
	if !ok {
		return
	}
	isFavorite, err := store.Toggle(r.Context(), item)
	if err != nil {
		h.saveError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":          item.ID,
		"is_favorite": isFavorite,
		"favorites":   store.Items(),
	})
}

func (h *Handler) saveError(w http.ResponseWriter, r *http.Request, err error) {
	middleware.Logger(r).WithError(err).Error("failed to save favorites")
	http.Error(w, "Failed to save favorites", http.StatusInternalServerError)
}

func decodeFavorite(w http.ResponseWriter, r *http.Request) (domain.FavoriteItem, bool) {
	var item domain.FavoriteItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return item, false
	}
	if item.ID == "" {
		http.Error(w, "Missing item id", http.StatusBadRequest)
		return item, false
	}
	return item, true
}

func (h *Handler) getQuote(w http.ResponseWriter, r *http.Request) {
	method := r.URL.Query().Get("method")
	if method == "" {
		method = domain.DeliveryMethodDelivery
	}
	writeJSON(w, http.StatusOK, h.Checkout.Quote(h.cart(r), method))
}

func (h *Handler) submitCheckout(w http.ResponseWriter, r *http.Request) {
	var req domain.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	confirmation, err := h.Checkout.Submit(r.Context(), middleware.SessionID(r), h.cart(r), req)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrInvalidCheckout):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, checkout.ErrEmptyCart), errors.Is(err, checkout.ErrCheckoutInProgress):
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		default:
			middleware.Logger(r).WithError(err).Warn("checkout did not complete")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		}
		return
	}
	writeJSON(w, http.StatusCreated, confirmation)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
