package syncer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/hb-platform/guidesync/internal/store"
)

// TokenProvider supplies the bearer token for API requests. An empty token
// (or a provider error) sends the request without an Authorization header;
// the remote side owns rejecting unauthenticated calls.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenProvider returning a fixed token. Empty means
// unauthenticated.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }

// Journal records sync job submissions for auditing. Implemented by
// *store.Store. A nil journal disables recording; journal failures are
// logged, never surfaced to the sync caller.
type Journal interface {
	AppendSyncJob(ctx context.Context, resource, projectID string) (string, error)
	FinishSyncJob(ctx context.Context, id, status, errText string) error
}

// StatusError reports a non-2xx response from the remote API.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string // excerpt, for diagnostics
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
}

// Config configures a Client.
type Config struct {
	// BaseURL is the remote API root, e.g. "https://api.example.com".
	BaseURL string

	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client

	// Tokens supplies bearer tokens. Nil sends unauthenticated requests.
	Tokens TokenProvider

	// Journal records sync jobs. Nil disables journaling.
	Journal Journal

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// Client is the data sync façade. Construct with New; the zero value is
// not usable.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenProvider
	journal Journal
	logger  *slog.Logger
	cache   *tagCache
}

// New builds a Client and validates the invalidation table, so a resource
// kind that would silently invalidate nothing fails construction instead.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("syncer: base URL is required")
	}
	if err := validateInvalidationTable(invalidationTable); err != nil {
		return nil, fmt.Errorf("syncer: %w", err)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
		tokens:  cfg.Tokens,
		journal: cfg.Journal,
		logger:  logger,
		cache:   newTagCache(),
	}, nil
}

// Projects returns the global project list.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	return getCached[[]Project](ctx, c, "projects", "/projects", nil,
		[]Tag{{Type: TagProjects}})
}

// Commitments returns the commitments for a project.
func (c *Client) Commitments(ctx context.Context, projectID string) ([]Commitment, error) {
	query := url.Values{"projectId": {projectID}}
	return getCached[[]Commitment](ctx, c, "commitments:"+projectID, "/commitments", query,
		[]Tag{{Type: TagCommitments, ID: projectID}})
}

// BuyoutData returns buyout progress for a commitment. Entries are tagged
// by project, so one invalidation drops every commitment's buyout read for
// that project.
func (c *Client) BuyoutData(ctx context.Context, projectID, commitmentID string) ([]BuyoutRecord, error) {
	query := url.Values{"projectId": {projectID}, "commitmentId": {commitmentID}}
	key := "buyout-data:" + projectID + ":" + commitmentID
	return getCached[[]BuyoutRecord](ctx, c, key, "/buyout-data", query,
		[]Tag{{Type: TagBuyoutData, ID: projectID}})
}

// BudgetDetailsByProject returns the budget breakdown for a project.
func (c *Client) BudgetDetailsByProject(ctx context.Context, projectID string) ([]BudgetDetail, error) {
	query := url.Values{"projectId": {projectID}}
	return getCached[[]BudgetDetail](ctx, c, "budget-details/project:"+projectID, "/budget-details/project", query,
		[]Tag{{Type: TagBudgetDetails, ID: projectID}})
}

// BudgetDetailByRow returns a single budget row. Row reads are tagged by
// row id; a budget sync invalidates the whole BudgetDetail type since the
// affected rows are not known client-side.
func (c *Client) BudgetDetailByRow(ctx context.Context, rowID string) (BudgetDetail, error) {
	query := url.Values{"budgetRowId": {rowID}}
	return getCached[BudgetDetail](ctx, c, "budget-details/row:"+rowID, "/budget-details/row", query,
		[]Tag{{Type: TagBudgetDetail, ID: rowID}})
}

// BudgetLineItems returns budget line items for a project, dropping rows
// that lack a level-3 cost code or an external id. A data-quality gate,
// not an error: malformed rows are counted and logged at debug.
func (c *Client) BudgetLineItems(ctx context.Context, projectID string) ([]BudgetLineItem, error) {
	query := url.Values{"projectId": {projectID}}
	raw, err := getCached[[]BudgetLineItem](ctx, c, "budget-line-items:"+projectID, "/budget-line-items", query,
		[]Tag{{Type: TagBudgetLineItems, ID: projectID}})
	if err != nil {
		return nil, err
	}
	items := make([]BudgetLineItem, 0, len(raw))
	dropped := 0
	for _, item := range raw {
		if item.CostCodeLevel3 == nil || item.ExtID == nil {
			dropped++
			continue
		}
		items = append(items, item)
	}
	if dropped > 0 {
		c.logger.Debug("budget line items filtered", "project", projectID, "dropped", dropped, "kept", len(items))
	}
	return items, nil
}

// SyncResource requests a server-side synchronization of the given
// resource kind and, only on success, invalidates the mapped cache tags.
func (c *Client) SyncResource(ctx context.Context, resource, projectID string) error {
	tags, err := tagsFor(resource, projectID)
	if err != nil {
		return err
	}

	jobID := c.journalStart(ctx, resource, projectID)
	body := map[string]string{"resource": resource, "projectId": projectID}
	if err := c.postJSON(ctx, "/api/sync", body, nil); err != nil {
		c.journalFinish(ctx, jobID, store.SyncStatusFailed, err)
		return err
	}
	c.journalFinish(ctx, jobID, store.SyncStatusSucceeded, nil)

	dropped := c.cache.invalidate(tags...)
	c.logger.Info("resource synced", "resource", resource, "project", projectID, "invalidated", dropped)
	return nil
}

// UpsertBuyout creates or updates a buyout record and invalidates the
// commitment and buyout caches for its project. Journaled like a sync job,
// under the resource kind "buyout".
func (c *Client) UpsertBuyout(ctx context.Context, record BuyoutRecord) error {
	jobID := c.journalStart(ctx, "buyout", record.ProjectID)
	if err := c.postJSON(ctx, "/buyout", record, nil); err != nil {
		c.journalFinish(ctx, jobID, store.SyncStatusFailed, err)
		return err
	}
	c.journalFinish(ctx, jobID, store.SyncStatusSucceeded, nil)

	dropped := c.cache.invalidate(
		Tag{Type: TagCommitments, ID: record.ProjectID},
		Tag{Type: TagBuyoutData, ID: record.ProjectID},
	)
	c.logger.Info("buyout upserted", "project", record.ProjectID, "commitment", record.CommitmentID, "invalidated", dropped)
	return nil
}

// CachedEntries reports the current cache size. Diagnostic only.
func (c *Client) CachedEntries() int {
	return c.cache.len()
}

// getCached is the shared read path: cache lookup, de-duplicated fetch,
// tag binding.
func getCached[T any](ctx context.Context, c *Client, key, path string, query url.Values, tags []Tag) (T, error) {
	payload, err := c.cache.getOrFetch(ctx, key, func(fctx context.Context) (any, []Tag, error) {
		var out T
		if err := c.getJSON(fctx, path, query, &out); err != nil {
			return nil, nil, err
		}
		return out, tags, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return payload.(T), nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{
			Method:     req.Method,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Body:       string(excerpt),
		}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

// authorize attaches the bearer token when one is available. A missing
// token is not an error here - the request proceeds unauthenticated.
func (c *Client) authorize(req *http.Request) {
	if c.tokens == nil {
		return
	}
	token, err := c.tokens.Token(req.Context())
	if err != nil {
		c.logger.Warn("token provider failed, sending unauthenticated request", "error", err)
		return
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func (c *Client) journalStart(ctx context.Context, resource, projectID string) string {
	if c.journal == nil {
		return ""
	}
	id, err := c.journal.AppendSyncJob(ctx, resource, projectID)
	if err != nil {
		c.logger.Warn("sync journal append failed", "resource", resource, "error", err)
		return ""
	}
	return id
}

func (c *Client) journalFinish(ctx context.Context, jobID, status string, cause error) {
	if c.journal == nil || jobID == "" {
		return
	}
	errText := ""
	if cause != nil {
		errText = cause.Error()
	}
	if err := c.journal.FinishSyncJob(ctx, jobID, status, errText); err != nil {
		c.logger.Warn("sync journal finish failed", "job", jobID, "error", err)
	}
}
