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
	"github.com/stretchr/testify/require"
)

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestNormalizePOSURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "pos.example.com/api", want: "https://pos.example.com/api"},
		{in: "  pos.example.com  ", want: "https://pos.example.com"},
		{in: "http://pos.local:9000", want: "http://pos.local:9000"},
		{in: "HTTPS://POS.EXAMPLE.COM", want: "HTTPS://POS.EXAMPLE.COM"},
		{in: "   ", want: ""},
	}
	for _, testCase := range tests {
		assert.Equal(t, testCase.want, gateway.NormalizePOSURL(testCase.in), testCase.in)
	}
}

func TestPOSData_NotConfigured(t *testing.T) {
	configs := map[string]gateway.Config{
		"missing token": {POSAPIURL: "pos.example.com"},
		"missing url":   {POSAPIToken: "secret"},
		"blank url":     {POSAPIURL: "   ", POSAPIToken: "secret"},
	}

	for name, cfg := range configs {
		for _, method := range []string{http.MethodGet, http.MethodPost} {
			t.Run(name+" "+method, func(t *testing.T) {
				gw := gateway.NewGateway(cfg, nil, nil)

				req := httptest.NewRequest(method, "/api/data", nil)
				rr := httptest.NewRecorder()
				gw.SetupRoutes().ServeHTTP(rr, req)

				assert.Equal(t, http.StatusInternalServerError, rr.Code)
				body := decodeEnvelope(t, rr)
				assert.Contains(t, body["error"], "POS API not configured")
			})
		}
	}
}

func TestPOSData_SendsDownloadForm(t *testing.T) {
	payload := `{"table":[[{"id":"2","name":"Pizza"}]]}`
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "secret", r.PostForm.Get("token"))
		assert.Equal(t, "download", r.PostForm.Get("action"))
		assert.Equal(t, "posmenu", r.PostForm.Get("type"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer upstream.Close()

	gw := gateway.NewGateway(gateway.Config{POSAPIURL: upstream.URL, POSAPIToken: "secret"}, &http.Client{}, nil)

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		req := httptest.NewRequest(method, "/api/data", nil)
		rr := httptest.NewRecorder()
		gw.SetupRoutes().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		assert.Equal(t, payload, rr.Body.String())
	}
}

func TestPOSData_UpstreamResponses(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantCode   int
		wantError  string
		wantStatus float64
		wantRaw    string
	}{
		{
			name:     "json success relayed verbatim",
			status:   http.StatusOK,
			body:     `[{"id":1,"name":"Drinks"}]`,
			wantCode: http.StatusOK,
			wantRaw:  `[{"id":1,"name":"Drinks"}]`,
		},
		{
			name:     "text success labelled as json",
			status:   http.StatusOK,
			body:     `not json at all`,
			wantCode: http.StatusOK,
			wantRaw:  `not json at all`,
		},
		{
			name:       "json upstream error",
			status:     http.StatusUnauthorized,
			body:       `{"message":"bad token"}`,
			wantCode:   http.StatusBadGateway,
			wantError:  "Upstream error",
			wantStatus: 401,
		},
		{
			name:       "non-json upstream error",
			status:     http.StatusInternalServerError,
			body:       `<html>oops</html>`,
			wantCode:   http.StatusBadGateway,
			wantError:  "Upstream non-JSON response",
			wantStatus: 500,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			mockClient := mocks.NewHTTPClient(t)
			mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
				return req.URL.String() == "https://pos.example.com/api"
			})).Return(&http.Response{
				StatusCode: testCase.status,
				Body:       io.NopCloser(strings.NewReader(testCase.body)),
				Header:     make(http.Header),
			}, nil).Once()

			gw := gateway.NewGateway(gateway.Config{POSAPIURL: "pos.example.com/api", POSAPIToken: "secret"}, mockClient, nil)

			req := httptest.NewRequest(http.MethodGet, "/api/data", nil)
			rr := httptest.NewRecorder()
			gw.POSData(rr, req)

			assert.Equal(t, testCase.wantCode, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			if testCase.wantRaw != "" {
				assert.Equal(t, testCase.wantRaw, rr.Body.String())
				return
			}

			body := decodeEnvelope(t, rr)
			assert.Equal(t, testCase.wantError, body["error"])
			assert.Equal(t, testCase.wantStatus, body["status"])
			if testCase.wantCode == http.StatusBadGateway && testCase.wantError == "Upstream error" {
				assert.Equal(t, map[string]interface{}{"message": "bad token"}, body["data"])
			} else {
				assert.Equal(t, testCase.body, body["body"])
			}
		})
	}
}

func TestPOSData_Unreachable(t *testing.T) {
	mockClient := mocks.NewHTTPClient(t)
	mockClient.On("Do", mock.Anything).Return(nil, errors.New("dial tcp: connection refused")).Once()

	gw := gateway.NewGateway(gateway.Config{POSAPIURL: "pos.example.com", POSAPIToken: "secret"}, mockClient, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/data", nil)
	rr := httptest.NewRecorder()
	gw.POSData(rr, req)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	body := decodeEnvelope(t, rr)
	assert.Equal(t, "Failed to reach POS API: dial tcp: connection refused", body["error"])
	assert.Equal(t, "https://pos.example.com", body["url"])
}
