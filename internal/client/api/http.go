package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/certapply/certapply/internal/client/models"
	"github.com/certapply/certapply/internal/common"
)

// HTTPClient implements Client against the certification service's REST API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	token   TokenSource
}

// NewHTTPClient builds an HTTPClient for the given base URL. tokens may be
// nil when the client is only used for unauthenticated calls.
func NewHTTPClient(baseURL string, timeout time.Duration, tokens TokenSource) *HTTPClient {
	if tokens == nil {
		tokens = func() string { return "" }
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		token:   tokens,
	}
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// mapStatus converts an HTTP response code to a sentinel error.
func mapStatus(code int) error {
	switch {
	case code < 400:
		return nil
	case code == http.StatusUnauthorized:
		return common.ErrAuthentication
	case code == http.StatusForbidden:
		return common.ErrAuthorization
	case code == http.StatusNotFound:
		return common.ErrNotFound
	case code == http.StatusConflict:
		return common.ErrInvalidTransition
	case code == http.StatusBadRequest || code == http.StatusUnprocessableEntity:
		return common.ErrValidation
	case code >= 500:
		return common.ErrUnavailable
	default:
		return fmt.Errorf("unexpected status %d", code)
	}
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// send executes the request. Transport-level failures map to
// common.ErrUnavailable; a canceled context comes back as the bare context
// error. The caller owns the response body.
func (c *HTTPClient) send(req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	return resp, nil
}

// do executes the request and decodes a JSON body into out (when non-nil).
func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := mapStatus(resp.StatusCode); err != nil {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if len(msg) > 0 {
			return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(msg)))
		}
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body, out any) error {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(b)
	}
	req, err := c.newRequest(ctx, method, path, r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

// loginResponse tolerates both response shapes the service is known to
// produce: a flat record, or the principal nested under "user" with the
// token alongside.
type loginResponse struct {
	models.Principal
	User  *models.Principal `json:"user"`
	Token string            `json:"token"`
}

func (c *HTTPClient) Login(ctx context.Context, creds Credentials) (*models.Principal, error) {
	var resp loginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/user/login", creds, &resp); err != nil {
		return nil, err
	}

	p := resp.Principal
	if resp.User != nil {
		p = *resp.User
	}
	if resp.Token != "" {
		p.Credential = resp.Token
	}

	if _, err := models.ParseRole(string(p.Role)); err != nil {
		return nil, fmt.Errorf("login response: %w", err)
	}
	if p.Credential == "" {
		return nil, fmt.Errorf("login response carries no token")
	}
	return &p, nil
}

func (c *HTTPClient) Register(ctx context.Context, profile Profile) error {
	return c.doJSON(ctx, http.MethodPost, "/user/register", profile, nil)
}

func (c *HTTPClient) AddReviewer(ctx context.Context, profile Profile) error {
	return c.doJSON(ctx, http.MethodPost, "/user/addReviewer", profile, nil)
}

func (c *HTTPClient) ListUsers(ctx context.Context, page, size int) (*models.UserPage, error) {
	path := fmt.Sprintf("/user/get?page=%d&size=%d", page, size)
	var out models.UserPage
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UsersByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	var out []models.User
	if err := c.doJSON(ctx, http.MethodGet, "/user/role/"+url.PathEscape(string(role)), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, userID int64, profile Profile) (*models.User, error) {
	var out models.User
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/user/%d/profile", userID), profile, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ApplicationStatus calls the plain-text status endpoint and normalizes the
// result, including the NOT_SUBMITTED sentinel.
func (c *HTTPClient) ApplicationStatus(ctx context.Context, userID int64) (models.Status, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/application/%d/application-status", userID), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.send(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := mapStatus(resp.StatusCode); err != nil {
		return "", err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	return models.ParseStatus(string(body))
}

func (c *HTTPClient) ApplicationByID(ctx context.Context, id int64) (*models.Application, error) {
	var out models.Application
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/application/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ApplicationByUser(ctx context.Context, userID int64) (*models.Application, error) {
	var out models.Application
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/application/dashboard/%d", userID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) SubmitApplication(ctx context.Context, userID int64, fields models.Fields) (*models.Application, error) {
	var out models.Application
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/application/submit/%d", userID), fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateApplication(ctx context.Context, id int64, fields models.Fields) (*models.Application, error) {
	var out models.Application
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/application/%d", id), fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type decisionRequest struct {
	Status          models.Status `json:"status"`
	RejectionReason string        `json:"rejectionReason,omitempty"`
}

func (c *HTTPClient) SetDecision(ctx context.Context, id int64, outcome models.Status, reason string) error {
	body := decisionRequest{Status: outcome, RejectionReason: reason}
	return c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/application/%d/status", id), body, nil)
}

func (c *HTTPClient) PendingApplications(ctx context.Context) ([]models.Application, error) {
	var out []models.Application
	if err := c.doJSON(ctx, http.MethodGet, "/application/pending", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ApplicationsByStatus(ctx context.Context, status models.Status) ([]models.Application, error) {
	path := "/application/filterByStatus?status=" + url.QueryEscape(string(status))
	var out []models.Application
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) StatusCounts(ctx context.Context) (*models.StatusCounts, error) {
	var out models.StatusCounts
	if err := c.doJSON(ctx, http.MethodGet, "/application/status-counts", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UploadDocuments(ctx context.Context, applicationID int64, uploads []models.Upload) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, u := range uploads {
		part, err := w.CreateFormFile("files", u.FileName)
		if err != nil {
			return err
		}
		if _, err := part.Write(u.Content); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodPost, fmt.Sprintf("/documents/upload/%d", applicationID), &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(req, nil)
}

// DownloadDocument fetches the document body and its content type.
func (c *HTTPClient) DownloadDocument(ctx context.Context, documentID int64) ([]byte, string, error) {
	return c.fetchDocument(ctx, fmt.Sprintf("/documents/download/%d", documentID))
}

// ViewDocument fetches the document through the inline view endpoint; same
// payload as DownloadDocument, served without an attachment disposition.
func (c *HTTPClient) ViewDocument(ctx context.Context, documentID int64) ([]byte, string, error) {
	return c.fetchDocument(ctx, fmt.Sprintf("/documents/view/%d", documentID))
}

func (c *HTTPClient) fetchDocument(ctx context.Context, path string) ([]byte, string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := c.send(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if err := mapStatus(resp.StatusCode); err != nil {
		return nil, "", err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

func (c *HTTPClient) Notifications(ctx context.Context, recipientID int64) ([]models.Event, error) {
	var out []models.Event
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/notification/user/%d", recipientID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
