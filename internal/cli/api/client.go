package api

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// CredentialSource supplies the bearer token for outbound requests and is
// told to discard it when the backend rejects it. It is read on every
// request rather than cached, so out-of-band invalidation takes effect
// immediately.
type CredentialSource interface {
	// Token returns the current bearer token, or "" when absent.
	Token(serverURL string) (string, error)
	// Clear removes the stored credential pair.
	Clear(serverURL string) error
}

// Client represents an HTTP client for the ID verification API.
//
// Every authorized call goes through a single pipeline: the token is loaded
// from the credential source and attached as a bearer header before
// dispatch, and an unauthorized response clears the stored credentials and
// fires the OnUnauthorized callback before the error reaches the caller.
// The pipeline never retries and never touches success payloads.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	creds          CredentialSource
	onUnauthorized func()
}

// New creates a new API client
func New(baseURL string, creds CredentialSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetHTTPClient sets a custom HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// SetInsecure skips TLS verification, for self-hosted deployments behind
// self-signed certificates.
func (c *Client) SetInsecure() {
	c.httpClient.Transport = &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: true,
		},
	}
}

// OnUnauthorized registers the single callback fired when a stored
// credential is rejected. This is the only edge from the request pipeline
// back into session state.
func (c *Client) OnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

// BaseURL returns the server this client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// send dispatches a request. When authorized is true the current token is
// read from the credential source and attached; a 401 response then
// invalidates the stored credentials before the response is returned, so no
// caller can observe the rejection while the session still looks live.
func (c *Client) send(req *http.Request, authorized bool) (*http.Response, error) {
	attached := false
	if authorized && c.creds != nil {
		token, err := c.creds.Token(c.baseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to load credentials: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
			attached = true
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport errors pass through untouched; they must not log
		// the user out.
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized && attached {
		// Clearing is best effort; the in-memory invalidation runs either way.
		_ = c.creds.Clear(c.baseURL)
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
	}

	return resp, nil
}

// Login exchanges credentials for a bearer token. The backend expects an
// OAuth2 password form with "username" carrying the email address.
func (c *Client) Login(email, password string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/auth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.send(req, false)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var tokenResp TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &tokenResp, nil
}

// Me fetches the profile for an explicit token. Used during login, before
// the token has been persisted.
func (c *Client) Me(token string) (*User, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/auth/me", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.send(req, false)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &user, nil
}

// Register submits a new police account request. It never affects the
// current session; the account needs admin approval before it can log in.
func (c *Client) Register(reg RegisterRequest) (*User, error) {
	reg.Role = RolePolice

	jsonData, err := json.Marshal(reg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/auth/register", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.send(req, false)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, decodeError(resp)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &user, nil
}

// Verify uploads an ID document image for OCR verification
func (c *Client) Verify(filename string, file io.Reader, opts VerifyOptions) (*VerificationResponse, error) {
	if opts.PSM == 0 {
		opts.PSM = 6
	}
	if opts.OEM == 0 {
		opts.OEM = 3
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	if err := writer.WriteField("psm", strconv.Itoa(opts.PSM)); err != nil {
		return nil, fmt.Errorf("failed to write form field: %w", err)
	}
	if err := writer.WriteField("oem", strconv.Itoa(opts.OEM)); err != nil {
		return nil, fmt.Errorf("failed to write form field: %w", err)
	}
	if len(opts.Metadata) > 0 {
		metaJSON, err := json.Marshal(opts.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		if err := writer.WriteField("metadata", string(metaJSON)); err != nil {
			return nil, fmt.Errorf("failed to write form field: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize upload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/verify/", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.send(req, true)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var result VerificationResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// Logs returns the caller's own verification logs
func (c *Client) Logs(limit, offset int) ([]LogRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))

	return c.getLogs("/logs/", query)
}

// AdminLogs returns all verification logs, with optional filters (admin only)
func (c *Client) AdminLogs(filter LogFilter) ([]LogRecord, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(filter.Limit))
	query.Set("offset", strconv.Itoa(filter.Offset))
	if filter.UserID != "" {
		query.Set("user_id", filter.UserID)
	}
	if filter.VerificationResult != "" {
		query.Set("verification_result", filter.VerificationResult)
	}
	if !filter.StartDate.IsZero() {
		query.Set("start_date", filter.StartDate.Format(time.RFC3339))
	}
	if !filter.EndDate.IsZero() {
		query.Set("end_date", filter.EndDate.Format(time.RFC3339))
	}

	return c.getLogs("/admin/logs", query)
}

func (c *Client) getLogs(path string, query url.Values) ([]LogRecord, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.send(req, true)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var logs []LogRecord
	if err := json.NewDecoder(resp.Body).Decode(&logs); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return logs, nil
}

// UnapprovedPolice lists police accounts awaiting approval (admin only)
func (c *Client) UnapprovedPolice() ([]User, error) {
	return c.getUsers("/admin/police-unapproved")
}

// Users lists all user accounts (admin only)
func (c *Client) Users() ([]User, error) {
	return c.getUsers("/admin/users")
}

func (c *Client) getUsers(path string) ([]User, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.send(req, true)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var users []User
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return users, nil
}

// ApprovePolice approves a pending police account (admin only)
func (c *Client) ApprovePolice(userID string) (*User, error) {
	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/admin/approve-police/"+userID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.send(req, true)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &user, nil
}

// RejectPolice rejects a pending police account (admin only)
func (c *Client) RejectPolice(userID string) error {
	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/admin/reject-police/"+userID, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.send(req, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}

	return nil
}
