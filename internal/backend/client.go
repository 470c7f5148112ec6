package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/DanyGuerra/business-manager-frontend-sub001/internal/catalog"
	"github.com/DanyGuerra/business-manager-frontend-sub001/internal/orders"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/config"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/enums"
	pkgerrors "github.com/DanyGuerra/business-manager-frontend-sub001/pkg/errors"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/logger"
	"github.com/DanyGuerra/business-manager-frontend-sub001/pkg/pagination"
)

// CredentialSource supplies the current bearer token. The client treats it
// as opaque; rotation happens behind this interface.
type CredentialSource interface {
	Token() string
}

// Client talks to the backend order service over its JSON HTTP contract.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      CredentialSource
	logg       *logger.Logger
}

// NewClient validates the configuration and builds the backend client.
func NewClient(cfg config.BackendConfig, creds CredentialSource, logg *logger.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("backend base url is required")
	}
	if creds == nil {
		return nil, fmt.Errorf("credential source required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: timeout},
		creds:      creds,
		logg:       logg,
	}, nil
}

type listResponse struct {
	Data       []orders.Order `json:"data"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	Total      int            `json:"total"`
	TotalPages int            `json:"totalPages"`
}

// ListOrders performs the filtered/paginated fetch.
func (c *Client) ListOrders(ctx context.Context, query orders.ListQuery) (orders.FetchResult, error) {
	if query.BusinessID == "" {
		return orders.FetchResult{}, pkgerrors.New(pkgerrors.CodeValidation, "business id required")
	}

	endpoint := fmt.Sprintf("%s/api/v1/businesses/%s/orders", c.baseURL, url.PathEscape(query.BusinessID))
	params := url.Values{}
	params.Set("page", strconv.Itoa(pagination.NormalizePage(query.Page)))
	params.Set("limit", strconv.Itoa(pagination.NormalizeLimit(query.Limit)))
	encodeFilters(params, query.Filters)

	var decoded listResponse
	if err := c.do(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil, &decoded); err != nil {
		return orders.FetchResult{}, err
	}

	return orders.FetchResult{
		Orders: decoded.Data,
		Meta: pagination.Meta{
			Page:       decoded.Page,
			Limit:      decoded.Limit,
			Total:      decoded.Total,
			TotalPages: decoded.TotalPages,
		},
	}, nil
}

// GetCatalog fetches the product/option catalog of a business and returns an
// indexed snapshot.
func (c *Client) GetCatalog(ctx context.Context, businessID string) (*catalog.Snapshot, error) {
	if businessID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "business id required")
	}

	endpoint := fmt.Sprintf("%s/api/v1/businesses/%s/catalog", c.baseURL, url.PathEscape(businessID))
	var payload catalog.Payload
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &payload); err != nil {
		return nil, err
	}
	if payload.BusinessID == "" {
		payload.BusinessID = businessID
	}
	return catalog.NewSnapshot(payload), nil
}

// SubmissionItem is one cart line reduced to backend vocabulary: local ids
// are dropped, only product/option ids and quantity travel.
type SubmissionItem struct {
	ProductID string   `json:"product_id"`
	Quantity  int      `json:"quantity"`
	OptionIDs []string `json:"option_ids"`
}

// SubmissionGroup mirrors a cart group; sequence order is preserved.
type SubmissionGroup struct {
	Name  string           `json:"name"`
	Items []SubmissionItem `json:"items"`
}

// Submission is the order-creation payload.
type Submission struct {
	BusinessID      string            `json:"business_id"`
	ConsumptionType string            `json:"consumption_type"`
	CustomerName    string            `json:"customer_name"`
	Groups          []SubmissionGroup `json:"groups"`
}

// SubmitOrder posts a composed cart. The created order is not returned here:
// it arrives through the realtime channel as an order-created event.
func (c *Client) SubmitOrder(ctx context.Context, submission Submission) error {
	if submission.BusinessID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "business id required")
	}
	if len(submission.Groups) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "submission must contain at least one group")
	}

	endpoint := fmt.Sprintf("%s/api/v1/businesses/%s/orders", c.baseURL, url.PathEscape(submission.BusinessID))
	return c.do(ctx, http.MethodPost, endpoint, submission, nil)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding request body")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.creds.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.Canceled {
			return pkgerrors.Wrap(pkgerrors.CodeCancelled, err, "request superseded")
		}
		return pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "backend request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.errorFromStatus(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding backend response")
	}
	return nil
}

func (c *Client) errorFromStatus(resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	message := strings.TrimSpace(string(snippet))
	if message == "" {
		message = resp.Status
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "backend rejected credential")
	case http.StatusNotFound:
		return pkgerrors.New(pkgerrors.CodeNotFound, "backend resource not found")
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return pkgerrors.New(pkgerrors.CodeValidation, message)
	default:
		return pkgerrors.New(pkgerrors.CodeDependency, message)
	}
}

func encodeFilters(params url.Values, filters orders.Filters) {
	if filters.Status != "" {
		params.Set("status", filters.Status.String())
	}
	if filters.ConsumptionType != "" {
		params.Set("consumption_type", filters.ConsumptionType.String())
	}
	if filters.Sort != "" {
		params.Set("sort", filters.Sort.String())
	}
	if filters.StartDate != nil {
		params.Set("start_date", filters.StartDate.UTC().Format(time.RFC3339))
	}
	if filters.EndDate != nil {
		params.Set("end_date", filters.EndDate.UTC().Format(time.RFC3339))
	}
	if filters.CustomerName != "" {
		params.Set("customer_name", filters.CustomerName)
	}
	switch filters.Paid {
	case enums.PaidFilterPaid:
		params.Set("paid", "true")
	case enums.PaidFilterUnpaid:
		params.Set("paid", "false")
	}
}
