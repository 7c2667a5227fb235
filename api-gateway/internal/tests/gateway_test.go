package tests

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gourmet-ordering/api-gateway/internal/gateway"
	"gourmet-ordering/api-gateway/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestGateway_HealthCheck(t *testing.T) {
	gw := gateway.NewGateway(gateway.Config{}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	gw.HealthCheck(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var body map[string]string
	json.NewDecoder(rr.Body).Decode(&body)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "api-gateway", body["service"])
}

func TestGateway_RouteHandler_Backends(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		wantTarget string
	}{
		{name: "menu categories", method: http.MethodGet, path: "/api/menu/categories", wantTarget: "http://menu-svc/api/menu/categories"},
		{name: "menu detail with query", method: http.MethodGet, path: "/api/menu/categories/2?sub=Hot", wantTarget: "http://menu-svc/api/menu/categories/2?sub=Hot"},
		{name: "cart", method: http.MethodGet, path: "/api/cart", wantTarget: "http://order-svc/api/cart"},
		{name: "cart item", method: http.MethodPut, path: "/api/cart/items/10", wantTarget: "http://order-svc/api/cart/items/10"},
		{name: "favorites toggle", method: http.MethodPost, path: "/api/favorites/toggle", wantTarget: "http://order-svc/api/favorites/toggle"},
		{name: "checkout", method: http.MethodPost, path: "/api/checkout", wantTarget: "http://order-svc/api/checkout"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			mockClient := mocks.NewHTTPClient(t)
			gw := gateway.NewGateway(gateway.Config{
				MenuSvcURL:  "http://menu-svc",
				OrderSvcURL: "http://order-svc",
			}, mockClient, nil)

			mockResp := &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader(`{"ok":true}`)),
				Header:     make(http.Header),
			}
			mockResp.Header.Set("Content-Type", "application/json")

			mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
				return req.Method == testCase.method && req.URL.String() == testCase.wantTarget
			})).Return(mockResp, nil).Once()

			req := httptest.NewRequest(testCase.method, testCase.path, nil)
			rr := httptest.NewRecorder()

			gw.RouteHandler(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		})
	}
}

func TestGateway_RouteHandler_UnknownAPI(t *testing.T) {
	gw := gateway.NewGateway(gateway.Config{}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	rr := httptest.NewRecorder()

	gw.RouteHandler(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGateway_RouteHandler_PrefixLookalike(t *testing.T) {
	gw := gateway.NewGateway(gateway.Config{}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/cartography", nil)
	rr := httptest.NewRecorder()

	gw.RouteHandler(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGateway_RouteHandler_ProxyError(t *testing.T) {
	mockClient := mocks.NewHTTPClient(t)
	gw := gateway.NewGateway(gateway.Config{
		OrderSvcURL: "http://invalid",
	}, mockClient, nil)

	mockClient.On("Do", mock.Anything).Return(nil, errors.New("connection failed")).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	rr := httptest.NewRecorder()

	gw.RouteHandler(rr, req)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestGateway_ProxyRequest_RelaysSessionHeaders(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "abc", r.Header.Get("X-Session-ID"))
		w.Header().Set("X-Session-ID", "abc")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"items":[]}`))
	}))
	defer backend.Close()

	gw := gateway.NewGateway(gateway.Config{OrderSvcURL: backend.URL}, &http.Client{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(`{"id":"1"}`))
	req.Header.Set("X-Session-ID", "abc")
	rr := httptest.NewRecorder()

	gw.SetupRoutes().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "abc", rr.Header().Get("X-Session-ID"))
	assert.JSONEq(t, `{"items":[]}`, rr.Body.String())
}

func TestNewCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := gateway.NewCORS([]string{"http://localhost:3000"}).Handler(next)

	tests := []struct {
		name       string
		origin     string
		wantOrigin string
	}{
		{name: "listed origin", origin: "http://localhost:3000", wantOrigin: "http://localhost:3000"},
		{name: "unlisted origin", origin: "https://other.example.com", wantOrigin: ""},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
			req.Header.Set("Origin", testCase.origin)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, testCase.wantOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
			assert.NotEqual(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
			if testCase.wantOrigin != "" {
				assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
			}
		})
	}
}
