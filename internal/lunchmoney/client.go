// Package lunchmoney is a minimal client for the Lunch Money developer
// API, covering the asset, category and transaction endpoints the
// migration needs. Catalog fetches are cached for the run; creating a
// category or group invalidates the category cache.
package lunchmoney

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/chintans1/mint-lunchmoney/internal/config"
	"github.com/sirupsen/logrus"
)

// DefaultBaseURL is the public Lunch Money API host.
const DefaultBaseURL = "https://dev.lunchmoney.app"

var log = config.Logger

// SetLogger allows setting a configured logger.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Asset is a manually-managed Lunch Money account.
type Asset struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	DisplayName     string `json:"display_name"`
	TypeName        string `json:"type_name"`
	Balance         string `json:"balance"`
	Currency        string `json:"currency"`
	InstitutionName string `json:"institution_name"`
}

// Label returns the name shown in the Lunch Money UI, preferring the
// display name when set.
func (a Asset) Label() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.Name
}

// Category is a Lunch Money category or category group.
type Category struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	IsGroup           bool   `json:"is_group"`
	IsIncome          bool   `json:"is_income"`
	ExcludeFromBudget bool   `json:"exclude_from_budget"`
	ExcludeFromTotals bool   `json:"exclude_from_totals"`
	GroupID           int64  `json:"group_id"`
}

// AssetRequest is the payload for creating an asset.
type AssetRequest struct {
	Name            string `json:"name"`
	TypeName        string `json:"type_name"`
	Balance         string `json:"balance"`
	Currency        string `json:"currency"`
	InstitutionName string `json:"institution_name"`
}

// CategoryRequest is the payload for creating a leaf category.
type CategoryRequest struct {
	Name              string `json:"name"`
	IsIncome          bool   `json:"is_income"`
	ExcludeFromBudget bool   `json:"exclude_from_budget"`
	ExcludeFromTotals bool   `json:"exclude_from_totals"`
	GroupID           int64  `json:"group_id,omitempty"`
}

// CategoryGroupRequest is the payload for creating a category group.
type CategoryGroupRequest struct {
	Name              string `json:"name"`
	IsIncome          bool   `json:"is_income"`
	ExcludeFromBudget bool   `json:"exclude_from_budget"`
	ExcludeFromTotals bool   `json:"exclude_from_totals"`
}

// DraftTransaction is one transaction in an insert batch.
type DraftTransaction struct {
	Date       string   `json:"date"`
	Amount     string   `json:"amount"`
	Payee      string   `json:"payee,omitempty"`
	CategoryID int64    `json:"category_id,omitempty"`
	Notes      string   `json:"notes,omitempty"`
	AssetID    int64    `json:"asset_id,omitempty"`
	Currency   string   `json:"currency,omitempty"`
	Status     string   `json:"status,omitempty"`
	ExternalID string   `json:"external_id,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// InsertOptions control how Lunch Money treats an insert batch.
type InsertOptions struct {
	ApplyRules        bool `json:"apply_rules"`
	CheckForRecurring bool `json:"check_for_recurring"`
	DebitAsNegative   bool `json:"debit_as_negative"`
}

// InsertResult reports the ids assigned to an accepted batch.
type InsertResult struct {
	IDs []int64 `json:"ids"`
}

// Client talks to the Lunch Money API with a bearer token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client

	// per-run catalog caches, fetched once and reused
	assets     []Asset
	categories []Category
}

// NewClient creates a client for the given API host and token.
func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Assets fetches the manually-managed assets, cached for the run.
func (c *Client) Assets(ctx context.Context) ([]Asset, error) {
	if c.assets != nil {
		return c.assets, nil
	}

	var resp struct {
		Assets []Asset `json:"assets"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/assets", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch assets: %w", err)
	}

	c.assets = resp.Assets
	log.WithField("count", len(c.assets)).Debug("Fetched Lunch Money assets")
	return c.assets, nil
}

// Categories fetches the category catalog (groups and leaves), cached for
// the run.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	if c.categories != nil {
		return c.categories, nil
	}

	var resp struct {
		Categories []Category `json:"categories"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/categories", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}

	c.categories = resp.Categories
	log.WithField("count", len(c.categories)).Debug("Fetched Lunch Money categories")
	return c.categories, nil
}

// CreateAsset creates a manually-managed asset.
func (c *Client) CreateAsset(ctx context.Context, req AssetRequest) error {
	if err := c.do(ctx, http.MethodPost, "/v1/assets", req, nil); err != nil {
		return fmt.Errorf("failed to create asset '%s': %w", req.Name, err)
	}
	c.assets = nil
	return nil
}

// CreateCategory creates a leaf category and returns its id.
func (c *Client) CreateCategory(ctx context.Context, req CategoryRequest) (int64, error) {
	var resp struct {
		CategoryID int64 `json:"category_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/categories", req, &resp); err != nil {
		return 0, fmt.Errorf("failed to create category '%s': %w", req.Name, err)
	}
	c.categories = nil
	return resp.CategoryID, nil
}

// CreateCategoryGroup creates a category group and returns its id.
func (c *Client) CreateCategoryGroup(ctx context.Context, req CategoryGroupRequest) (int64, error) {
	var resp struct {
		CategoryID int64 `json:"category_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/categories/group", req, &resp); err != nil {
		return 0, fmt.Errorf("failed to create category group '%s': %w", req.Name, err)
	}
	c.categories = nil
	return resp.CategoryID, nil
}

// InsertTransactions submits one batch of transactions.
func (c *Client) InsertTransactions(ctx context.Context, transactions []DraftTransaction, opts InsertOptions) (InsertResult, error) {
	body := struct {
		Transactions      []DraftTransaction `json:"transactions"`
		ApplyRules        bool               `json:"apply_rules"`
		CheckForRecurring bool               `json:"check_for_recurring"`
		DebitAsNegative   bool               `json:"debit_as_negative"`
	}{
		Transactions:      transactions,
		ApplyRules:        opts.ApplyRules,
		CheckForRecurring: opts.CheckForRecurring,
		DebitAsNegative:   opts.DebitAsNegative,
	}

	var result InsertResult
	if err := c.do(ctx, http.MethodPost, "/v1/transactions", body, &result); err != nil {
		return InsertResult{}, fmt.Errorf("failed to insert transactions: %w", err)
	}
	return result, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.WithError(err).Warn("Failed to close response body")
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("got status %d: %s", resp.StatusCode, string(data))
	}

	if apiErr := parseAPIError(data); apiErr != "" {
		return fmt.Errorf("API error: %s", apiErr)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// parseAPIError extracts the "error" field Lunch Money returns with a 200
// status on partial failures. It is either a string or a list of strings.
func parseAPIError(data []byte) string {
	var single struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &single); err == nil && single.Error != "" {
		return single.Error
	}

	var multi struct {
		Error []string `json:"error"`
	}
	if err := json.Unmarshal(data, &multi); err == nil && len(multi.Error) > 0 {
		return fmt.Sprintf("%v", multi.Error)
	}
	return ""
}
