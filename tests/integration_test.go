//go:build integration

package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests drive a running stack through the gateway, e.g.
// GATEWAY_URL=http://localhost:8080 go test -tags integration ./tests/...
func gatewayURL(t *testing.T) string {
	url := os.Getenv("GATEWAY_URL")
	if url == "" {
		t.Skip("GATEWAY_URL not set")
	}
	return url
}

type client struct {
	t       *testing.T
	base    string
	session string
	http    *http.Client
}

func newClient(t *testing.T) *client {
	return &client{
		t:       t,
		base:    gatewayURL(t),
		session: uuid.NewString(),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *client) do(method, path string, body interface{}, out interface{}) int {
	var payload bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&payload).Encode(body))
	}
	req, err := http.NewRequest(method, c.base+path, &payload)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-ID", c.session)

	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestFullOrderFlow(t *testing.T) {
	c := newClient(t)

	t.Run("Health", func(t *testing.T) {
		var health map[string]string
		assert.Equal(t, http.StatusOK, c.do("GET", "/health", nil, &health))
		assert.Equal(t, "healthy", health["status"])
	})

	var itemID string
	var price float64
	t.Run("BrowseMenu", func(t *testing.T) {
		var categories []struct {
			ID    string `json:"id"`
			Items []struct {
				ID    string  `json:"id"`
				Price float64 `json:"price"`
			} `json:"items"`
		}
		require.Equal(t, http.StatusOK, c.do("GET", "/api/menu/categories", nil, &categories))
		for _, category := range categories {
			if len(category.Items) > 0 {
				itemID, price = category.Items[0].ID, category.Items[0].Price
				break
			}
		}
		if itemID == "" {
			t.Skip("menu has no flat category with items")
		}
	})

	t.Run("FillCart", func(t *testing.T) {
		if itemID == "" {
			t.Skip("no menu item")
		}
		item := map[string]interface{}{"id": itemID, "price": price}
		require.Equal(t, http.StatusOK, c.do("POST", "/api/cart/items", item, nil))

		var cart struct {
			Count int `json:"count"`
		}
		require.Equal(t, http.StatusOK, c.do("POST", "/api/cart/items", item, &cart))
		assert.Equal(t, 2, cart.Count)
	})

	t.Run("Checkout", func(t *testing.T) {
		if itemID == "" {
			t.Skip("no menu item")
		}
		var quote struct {
			Total float64 `json:"total"`
		}
		require.Equal(t, http.StatusOK, c.do("GET", "/api/checkout/quote?method=pickup", nil, &quote))
		assert.InDelta(t, 2*price+5, quote.Total, 0.001)

		request := map[string]interface{}{
			"delivery_method": "pickup",
			"payment_method":  "cash",
			"contact": map[string]string{
				"first_name": "Integration",
				"last_name":  "Test",
				"email":      "integration@example.com",
				"phone":      "555-0100",
			},
		}
		var confirmation struct {
			OrderRef string `json:"order_ref"`
		}
		require.Equal(t, http.StatusCreated, c.do("POST", "/api/checkout", request, &confirmation))
		assert.NotEmpty(t, confirmation.OrderRef)

		var cart struct {
			Count int `json:"count"`
		}
		require.Equal(t, http.StatusOK, c.do("GET", "/api/cart", nil, &cart))
		assert.Zero(t, cart.Count)
	})
}

func TestFavoritesSurviveAcrossRequests(t *testing.T) {
	c := newClient(t)

	var toggled struct {
		IsFavorite bool `json:"is_favorite"`
	}
	require.Equal(t, http.StatusOK, c.do("POST", "/api/favorites/toggle", map[string]string{"id": "integration-item"}, &toggled))
	assert.True(t, toggled.IsFavorite)

	var status struct {
		IsFavorite bool `json:"is_favorite"`
	}
	require.Equal(t, http.StatusOK, c.do("GET", "/api/favorites/integration-item", nil, &status))
	assert.True(t, status.IsFavorite)

	require.Equal(t, http.StatusOK, c.do("DELETE", "/api/favorites/integration-item", nil, nil))
}
