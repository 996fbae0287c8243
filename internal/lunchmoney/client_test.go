package lunchmoney

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetsFetchesAndCaches(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/v1/assets", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"assets": [{"id": 1, "name": "Amazon Card", "display_name": "", "currency": "usd"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token")

	assets, err := client.Assets(context.Background())
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, "Amazon Card", assets[0].Label())

	// second call is served from the run cache
	_, err = client.Assets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestAssetLabelPrefersDisplayName(t *testing.T) {
	assert.Equal(t, "Chase Checking", Asset{Name: "chase", DisplayName: "Chase Checking"}.Label())
	assert.Equal(t, "chase", Asset{Name: "chase"}.Label())
}

func TestCreateCategoryInvalidatesCache(t *testing.T) {
	catalogCalls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/v1/categories":
			catalogCalls++
			_, _ = w.Write([]byte(`{"categories": [{"id": 5, "name": "Reading", "is_group": false}]}`))
		case r.Method == http.MethodPost && r.URL.Path == "/v1/categories":
			var req CategoryRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "Transport", req.Name)
			_, _ = w.Write([]byte(`{"category_id": 9}`))
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token")

	_, err := client.Categories(context.Background())
	require.NoError(t, err)

	id, err := client.CreateCategory(context.Background(), CategoryRequest{Name: "Transport"})
	require.NoError(t, err)
	assert.Equal(t, int64(9), id)

	// the creation invalidated the catalog cache
	_, err = client.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, catalogCalls)
}

func TestInsertTransactionsPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/transactions", r.URL.Path)

		var body struct {
			Transactions      []DraftTransaction `json:"transactions"`
			ApplyRules        bool               `json:"apply_rules"`
			CheckForRecurring bool               `json:"check_for_recurring"`
			DebitAsNegative   bool               `json:"debit_as_negative"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Len(t, body.Transactions, 2)
		assert.False(t, body.ApplyRules)
		assert.True(t, body.CheckForRecurring)
		assert.True(t, body.DebitAsNegative)

		_, _ = w.Write([]byte(`{"ids": [100, 101]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token")
	result, err := client.InsertTransactions(context.Background(), []DraftTransaction{
		{Date: "2021-10-02", Amount: "-16.11", ExternalID: "MINT-0"},
		{Date: "2021-10-03", Amount: "3.00", ExternalID: "MINT-1"},
	}, InsertOptions{CheckForRecurring: true, DebitAsNegative: true})

	require.NoError(t, err)
	assert.Equal(t, []int64{100, 101}, result.IDs)
}

func TestAPIErrorInBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": "budget not found"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token")
	_, err := client.Assets(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "budget not found")
}

func TestAPIErrorList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": ["bad date", "bad amount"]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token")
	_, err := client.InsertTransactions(context.Background(), nil, InsertOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad date")
}

func TestHTTPErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": "invalid token"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad-token")
	_, err := client.Assets(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestNewClientDefaultBaseURL(t *testing.T) {
	client := NewClient("", "token")
	assert.Equal(t, DefaultBaseURL, client.baseURL)
}
