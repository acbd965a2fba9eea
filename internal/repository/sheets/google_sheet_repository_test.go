package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/mamadbah2/inventory-dashboard/internal/config"
)

func newTestRepository(t *testing.T, handler http.HandlerFunc) *GoogleSheetRepository {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	repo, err := NewGoogleSheetRepository(context.Background(),
		config.SheetsConfig{SpreadsheetID: "sheet-123"},
		nil,
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)
	return repo
}

func TestAppendRows(t *testing.T) {
	var gotPath, gotQuery string
	var gotBody struct {
		Values [][]interface{} `json:"values"`
	}

	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-123","updates":{"updatedRows":2}}`))
	})

	err := repo.AppendRows(context.Background(), "Metrics!A:H", [][]interface{}{
		{"alice", "bolts", 5},
		{"alice", "nuts", 40},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(gotPath, "/v4/spreadsheets/sheet-123/values/"), gotPath)
	assert.True(t, strings.HasSuffix(gotPath, ":append"), gotPath)
	assert.Contains(t, gotQuery, "valueInputOption=USER_ENTERED")
	assert.Contains(t, gotQuery, "insertDataOption=INSERT_ROWS")
	require.Len(t, gotBody.Values, 2)
	assert.Equal(t, "nuts", gotBody.Values[1][1])
}

func TestAppendRows_Errors(t *testing.T) {
	calls := 0
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"denied"}}`))
	})

	t.Run("empty range", func(t *testing.T) {
		err := repo.AppendRows(context.Background(), "", [][]interface{}{{"x"}})
		assert.ErrorIs(t, err, ErrEmptyRange)
	})

	t.Run("no rows is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.AppendRows(context.Background(), "Metrics!A:H", nil))
		assert.Equal(t, 0, calls)
	})

	t.Run("api error is wrapped", func(t *testing.T) {
		err := repo.AppendRows(context.Background(), "Metrics!A:H", [][]interface{}{{"x"}})
		assert.ErrorContains(t, err, "append rows into range Metrics!A:H")
		assert.Equal(t, 1, calls)
	})
}
