package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gourmet-ordering/menu-svc/internal/domain"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nestedMenu = `{"table":[[{"id":"1","name":"Drinks","level2":[{"id":"5","name":"Hot","but_mast_id":1,"items":[{"id":"50","name":"Tea","price":10}]}]}]]}`

func execute(t *testing.T, stdin string, args ...string) ([]domain.Category, error) {
	t.Helper()
	var out, errOut bytes.Buffer

	cmd := newRootCmd(viper.New())
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	if err := cmd.Execute(); err != nil {
		return nil, err
	}

	var categories []domain.Category
	require.NoError(t, json.Unmarshal(out.Bytes(), &categories))
	return categories, nil
}

func TestNormalizeFromStdin(t *testing.T) {
	categories, err := execute(t, nestedMenu, "normalize")
	require.NoError(t, err)
	require.Len(t, categories, 1)
	require.Len(t, categories[0].Level2Categories, 1)
	assert.Equal(t, "Hot", categories[0].Level2Categories[0].Items[0].Subcategory)
	assert.Equal(t, "1", categories[0].Level2Categories[0].ParentID)
}

func TestNormalizeFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.json")
	require.NoError(t, os.WriteFile(path, []byte(nestedMenu), 0o644))

	categories, err := execute(t, "", "normalize", path, "--nested-category-id", "9")
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.False(t, categories[0].Nested())
	assert.Equal(t, "5", categories[0].Items[0].ID)
}

func TestNormalizeUnrecognized(t *testing.T) {
	_, err := execute(t, `{"menu":[]}`, "normalize", "-")
	assert.Error(t, err)

	categories, err := execute(t, `{"menu":[]}`, "normalize", "-", "--soft")
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(nestedMenu))
	}))
	defer server.Close()

	categories, err := execute(t, "", "fetch", "--url", server.URL)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Drinks", categories[0].Name)
}

func TestFetchUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := execute(t, "", "fetch", "--url", server.URL)
	assert.ErrorContains(t, err, "500")

	categories, err := execute(t, "", "fetch", "--url", server.URL, "--soft")
	require.NoError(t, err)
	assert.Empty(t, categories)
}
