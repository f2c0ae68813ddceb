package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	api "github.com/brandworks/asset-qc/api/v1alpha1"
	"github.com/brandworks/asset-qc/internal/auth"
	"github.com/brandworks/asset-qc/pkg/requestid"
	"github.com/oapi-codegen/runtime"
)

// Client talks to the /api/v1/assets endpoints of a QC API server.
type Client struct {
	server string
	token  string
	role   string
	userID uint
	http   *http.Client
}

// APIError is returned for every non 2xx response.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
	if e.RequestID != "" {
		msg += fmt.Sprintf(" (request id %s)", e.RequestID)
	}
	return msg
}

// listAssetsQuery styles the parameters the same way the server binds them.
func listAssetsQuery(params *api.ListAssetsParams) (url.Values, error) {
	queryValues := url.Values{}
	if params == nil {
		return queryValues, nil
	}

	add := func(name string, value any) error {
		queryFrag, err := runtime.StyleParamWithLocation("form", true, name, runtime.ParamLocationQuery, value)
		if err != nil {
			return err
		}
		parsed, err := url.ParseQuery(queryFrag)
		if err != nil {
			return err
		}
		for k, v := range parsed {
			for _, v2 := range v {
				queryValues.Add(k, v2)
			}
		}
		return nil
	}

	if params.WorkflowStage != nil {
		if err := add("workflow_stage", *params.WorkflowStage); err != nil {
			return nil, err
		}
	}
	if params.QcStatus != nil {
		if err := add("qc_status", *params.QcStatus); err != nil {
			return nil, err
		}
	}
	if params.LinkingActive != nil {
		if err := add("linking_active", *params.LinkingActive); err != nil {
			return nil, err
		}
	}
	if params.CreatedBy != nil {
		if err := add("created_by", *params.CreatedBy); err != nil {
			return nil, err
		}
	}
	if params.Limit != nil {
		if err := add("limit", *params.Limit); err != nil {
			return nil, err
		}
	}
	if params.Offset != nil {
		if err := add("offset", *params.Offset); err != nil {
			return nil, err
		}
	}
	return queryValues, nil
}

// Export is a downloaded review history.
type Export struct {
	Filename    string
	ContentType string
	Content     []byte
}

func (c *Client) ListAssets(ctx context.Context, params *api.ListAssetsParams) (api.AssetList, error) {
	query, err := listAssetsQuery(params)
	if err != nil {
		return nil, fmt.Errorf("styling query: %w", err)
	}

	var assets api.AssetList
	if err := c.do(ctx, http.MethodGet, "/api/v1/assets", query, nil, &assets); err != nil {
		return nil, err
	}
	return assets, nil
}

func (c *Client) CreateAsset(ctx context.Context, form api.AssetCreate) (*api.Asset, error) {
	asset := &api.Asset{}
	if err := c.do(ctx, http.MethodPost, "/api/v1/assets", nil, form, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

func (c *Client) GetAsset(ctx context.Context, id uint) (*api.Asset, error) {
	return c.assetCall(ctx, http.MethodGet, id, "", nil)
}

func (c *Client) StartWork(ctx context.Context, id uint) (*api.Asset, error) {
	return c.assetCall(ctx, http.MethodPost, id, "/start", nil)
}

func (c *Client) SubmitForReview(ctx context.Context, id uint) (*api.Asset, error) {
	return c.assetCall(ctx, http.MethodPost, id, "/submit-qc", nil)
}

func (c *Client) ReviewAsset(ctx context.Context, id uint, req api.QCReviewRequest) (*api.Asset, error) {
	return c.assetCall(ctx, http.MethodPost, id, "/qc-review", req)
}

func (c *Client) ListReviews(ctx context.Context, id uint) (api.QCReviewList, error) {
	path, err := assetPath(id, "/qc-reviews")
	if err != nil {
		return nil, err
	}

	var reviews api.QCReviewList
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// ExportReviews downloads the review history of an asset as csv or xlsx.
func (c *Client) ExportReviews(ctx context.Context, id uint, format string) (*Export, error) {
	path, err := assetPath(id, "/qc-reviews")
	if err != nil {
		return nil, err
	}

	resp, err := c.send(ctx, http.MethodGet, path, url.Values{"format": {format}}, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}

	export := &Export{
		Filename:    fmt.Sprintf("asset-%d-qc-reviews.%s", id, format),
		ContentType: resp.Header.Get("Content-Type"),
		Content:     content,
	}
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		export.Filename = params["filename"]
	}
	return export, nil
}

func (c *Client) assetCall(ctx context.Context, method string, id uint, suffix string, body any) (*api.Asset, error) {
	path, err := assetPath(id, suffix)
	if err != nil {
		return nil, err
	}

	asset := &api.Asset{}
	if err := c.do(ctx, method, path, nil, body, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	resp, err := c.send(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// send returns the response only when the server answered with a 2xx status.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	u := strings.TrimRight(c.server, "/") + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.editRequest(ctx, req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()
	return nil, readAPIError(resp)
}

func (c *Client) editRequest(ctx context.Context, req *http.Request) {
	reqID := requestid.FromContext(ctx)
	if reqID == "" {
		reqID = requestid.Generate()
	}
	req.Header.Set(requestid.Header, reqID)

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.role != "" {
		req.Header.Set(auth.RoleHeader, c.role)
	}
	if c.userID > 0 {
		req.Header.Set(auth.UserIDHeader, strconv.FormatUint(uint64(c.userID), 10))
	}
}

func readAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, RequestID: resp.Header.Get(requestid.Header)}

	var body api.Error
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		apiErr.Message = body.Message
		if body.RequestId != nil {
			apiErr.RequestID = *body.RequestId
		}
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}

func assetPath(id uint, suffix string) (string, error) {
	pathParam0, err := runtime.StyleParamWithLocation("simple", false, "id", runtime.ParamLocationPath, id)
	if err != nil {
		return "", fmt.Errorf("styling asset id: %w", err)
	}
	return fmt.Sprintf("/api/v1/assets/%s%s", pathParam0, suffix), nil
}
