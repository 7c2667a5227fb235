package tests

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	httpapi "gourmet-ordering/menu-svc/internal/api/http"
	"gourmet-ordering/menu-svc/internal/domain"
	"gourmet-ordering/menu-svc/internal/mocks"
	"gourmet-ordering/menu-svc/internal/service"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func serveMenu(menu service.MenuServiceInterface, method, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	httpapi.NewHandler(menu).RegisterRoutes(r)

	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetCategoriesHandler(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(*mocks.MenuServiceInterface)
		wantCode  int
		wantError string
	}{
		{
			name: "success",
			setupMock: func(m *mocks.MenuServiceInterface) {
				m.On("Categories", mock.Anything).Return([]domain.Category{{ID: "1", Name: "Pizza"}}, nil).Once()
			},
			wantCode: http.StatusOK,
		},
		{
			name: "upstream failure",
			setupMock: func(m *mocks.MenuServiceInterface) {
				m.On("Categories", mock.Anything).Return(nil, errors.New("connection refused")).Once()
			},
			wantCode:  http.StatusBadGateway,
			wantError: "Failed to load menu data",
		},
		{
			name: "superseded",
			setupMock: func(m *mocks.MenuServiceInterface) {
				m.On("Categories", mock.Anything).Return(nil, service.ErrSuperseded).Once()
			},
			wantCode:  http.StatusServiceUnavailable,
			wantError: service.ErrSuperseded.Error(),
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			menu := mocks.NewMenuServiceInterface(t)
			testCase.setupMock(menu)

			w := serveMenu(menu, "GET", "/api/menu/categories")

			assert.Equal(t, testCase.wantCode, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			if testCase.wantError != "" {
				var body map[string]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, testCase.wantError, body["error"])
			}
		})
	}
}

func TestLoadFailureCarriesHint(t *testing.T) {
	menu := mocks.NewMenuServiceInterface(t)
	menu.On("Refresh", mock.Anything).Return(nil, errors.New("unexpected HTTP status: 500")).Once()

	w := serveMenu(menu, "POST", "/api/menu/refresh")

	assert.Equal(t, http.StatusBadGateway, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "check POS_API_URL / POS_API_TOKEN", body["hint"])
}

func TestGetCategoryHandler(t *testing.T) {
	tests := []struct {
		name         string
		target       string
		wantSelected []string
		mockErr      error
		wantCode     int
	}{
		{
			name:         "no filter",
			target:       "/api/menu/categories/1",
			wantSelected: nil,
			wantCode:     http.StatusOK,
		},
		{
			name:         "repeated sub params",
			target:       "/api/menu/categories/1?sub=tea&sub=coffee",
			wantSelected: []string{"tea", "coffee"},
			wantCode:     http.StatusOK,
		},
		{
			name:         "comma separated",
			target:       "/api/menu/categories/1?sub=tea,%20coffee",
			wantSelected: []string{"tea", "coffee"},
			wantCode:     http.StatusOK,
		},
		{
			name:         "not found",
			target:       "/api/menu/categories/1",
			wantSelected: nil,
			mockErr:      service.ErrCategoryNotFound,
			wantCode:     http.StatusNotFound,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			menu := mocks.NewMenuServiceInterface(t)
			var detail *domain.CategoryDetail
			if testCase.mockErr == nil {
				detail = &domain.CategoryDetail{Category: domain.Category{ID: "1"}}
			}
			menu.On("Category", mock.Anything, "1", testCase.wantSelected).Return(detail, testCase.mockErr).Once()

			w := serveMenu(menu, "GET", testCase.target)
			assert.Equal(t, testCase.wantCode, w.Code)
		})
	}
}

func TestGetPopularHandler(t *testing.T) {
	t.Run("limit forwarded", func(t *testing.T) {
		menu := mocks.NewMenuServiceInterface(t)
		menu.On("Popular", mock.Anything, 3).Return([]domain.MenuItem{{ID: "10"}}, nil).Once()

		w := serveMenu(menu, "GET", "/api/menu/popular?limit=3")
		assert.Equal(t, http.StatusOK, w.Code)

		var items []domain.MenuItem
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
		assert.Len(t, items, 1)
	})

	t.Run("bad limit", func(t *testing.T) {
		menu := mocks.NewMenuServiceInterface(t)

		w := serveMenu(menu, "GET", "/api/menu/popular?limit=lots")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestMenuHealthCheck(t *testing.T) {
	w := serveMenu(mocks.NewMenuServiceInterface(t), "GET", "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "menu-svc", body["service"])
}
