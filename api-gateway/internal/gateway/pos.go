package gateway

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"gourmet-ordering/middleware"
)

const posNotConfigured = "POS API not configured. Please set POS_API_URL and POS_API_TOKEN in .env"

var schemePattern = regexp.MustCompile(`(?i)^https?://`)

// NormalizePOSURL trims the configured POS address and defaults it to https.
func NormalizePOSURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return ""
	}
	if !schemePattern.MatchString(u) {
		u = "https://" + u
	}
	return u
}

// POSData serves GET|POST /api/data: one form POST to the POS system asking
// for the menu download, relayed back without touching the payload.
func (g *Gateway) POSData(w http.ResponseWriter, r *http.Request) {
	log := middleware.Logger(r)

	target := NormalizePOSURL(g.config.POSAPIURL)
	token := g.config.POSAPIToken
	if target == "" || token == "" {
		log.Error("POS proxy called without POS_API_URL/POS_API_TOKEN")
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"error": posNotConfigured})
		return
	}

	form := url.Values{}
	form.Set("token", token)
	form.Set("action", "download")
	form.Set("type", "posmenu")

	req, err := http.NewRequestWithContext(r.Context(), http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		log.WithError(err).Error("failed to build POS request")
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"error": err.Error()})
		return
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Cache-Control", "no-store")

	upstream, err := g.client.Do(req)
	if err != nil {
		log.WithError(err).WithField("url", target).Error("POS API unreachable")
		writeJSON(w, http.StatusBadGateway, map[string]interface{}{
			"error": fmt.Sprintf("Failed to reach POS API: %s", reachError(err)),
			"url":   target,
		})
		return
	}
	defer upstream.Body.Close()

	body, err := io.ReadAll(upstream.Body)
	if err != nil {
		log.WithError(err).Error("failed to read POS response")
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"error": err.Error()})
		return
	}

	ok := upstream.StatusCode >= 200 && upstream.StatusCode < 300
	if json.Valid(body) {
		if !ok {
			log.WithField("status", upstream.StatusCode).Warn("POS API returned an error")
			writeJSON(w, http.StatusBadGateway, map[string]interface{}{
				"error":  "Upstream error",
				"status": upstream.StatusCode,
				"data":   json.RawMessage(body),
			})
			return
		}
		writeRaw(w, http.StatusOK, body)
		return
	}

	if !ok {
		log.WithField("status", upstream.StatusCode).Warn("POS API returned a non-JSON error")
		writeJSON(w, http.StatusBadGateway, map[string]interface{}{
			"error":  "Upstream non-JSON response",
			"status": upstream.StatusCode,
			"body":   string(body),
		})
		return
	}
	writeRaw(w, http.StatusOK, body)
}

func reachError(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "network error"
}

func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
