// Package client talks to the PropNest API on behalf of a signed-in user.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/sudo-init-do/propnest/internal/auth"
	"github.com/sudo-init-do/propnest/internal/listing"
	"github.com/sudo-init-do/propnest/internal/messaging"
)

// ErrAuthRequired is returned before any request is made when the call needs a
// session and there is none.
var ErrAuthRequired = errors.New("login required")

// APIError carries the server's message for a non-success response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

type Client struct {
	baseURL string
	http    *http.Client
	session *Session
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New returns a client for the API at baseURL.
func New(baseURL string, session *Session, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		session: session,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Session() *Session { return c.session }

// BaseURL is the API origin uploads are resolved against.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, token string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// do sends req and returns the body of a 2xx response.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp.StatusCode, body)
	}
	return body, nil
}

func newAPIError(status int, body []byte) *APIError {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := http.StatusText(status)
	if json.Unmarshal(body, &payload) == nil {
		switch {
		case payload.Message != "":
			msg = payload.Message
		case payload.Error != "":
			msg = payload.Error
		}
	} else if text := strings.TrimSpace(string(body)); text != "" {
		msg = text
	}
	return &APIError{Status: status, Message: msg}
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any, token string) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := c.newRequest(ctx, method, path, body, token)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	raw, err := c.do(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// FetchProperties returns every listing view in server order. An element that
// breaks the view contract fails the whole call rather than being dropped.
func (c *Client) FetchProperties(ctx context.Context) ([]listing.View, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/properties", nil, "")
	if err != nil {
		return nil, err
	}
	raw, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode properties: %w", err)
	}
	views := make([]listing.View, 0, len(items))
	for i, item := range items {
		if err := ValidateView(item); err != nil {
			return nil, fmt.Errorf("property %d: %w", i, err)
		}
		var v listing.View
		if err := json.Unmarshal(item, &v); err != nil {
			return nil, fmt.Errorf("decode property %d: %w", i, err)
		}
		views = append(views, v)
	}
	return views, nil
}

// Image is one file attached to a new listing.
type Image struct {
	Name string
	Data io.Reader
}

// AddPropertyForm is the add-listing form. Numeric fields stay strings so the
// server does the parsing and reports errors in one place.
type AddPropertyForm struct {
	listing.CreateInput
	Images []Image
}

func (f AddPropertyForm) fields() [][2]string {
	in := f.CreateInput
	return [][2]string{
		{"title", in.Title}, {"type", in.Type}, {"description", in.Description},
		{"price", in.Price}, {"squareFeet", in.SquareFeet},
		{"bedrooms", in.Bedrooms}, {"bathrooms", in.Bathrooms},
		{"lat", in.Lat}, {"lng", in.Lng},
		{"address", in.Address}, {"city", in.City}, {"state", in.State},
	}
}

// AddProperty uploads a new listing as the signed-in owner.
func (c *Client) AddProperty(ctx context.Context, form AddPropertyForm) (*listing.Listing, error) {
	token := c.session.Token()
	if token == "" {
		return nil, ErrAuthRequired
	}
	if len(form.Images) > listing.MaxImages {
		return nil, fmt.Errorf("at most %d images are allowed", listing.MaxImages)
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, kv := range form.fields() {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return nil, err
		}
	}
	for _, img := range form.Images {
		part, err := w.CreateFormFile("images", img.Name)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, img.Data); err != nil {
			return nil, fmt.Errorf("attach %s: %w", img.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/properties/add", &body, token)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	raw, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Message  string          `json:"message"`
		Property listing.Listing `json:"property"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &resp.Property, nil
}

// SendResult is the reply to a contact request.
type SendResult struct {
	Success bool              `json:"success"`
	Message messaging.Enquiry `json:"message"`
}

// SendMessage posts an enquiry with the given bearer token. A reply without
// success=true is an error.
func (c *Client) SendMessage(ctx context.Context, in messaging.SendInput, token string) (*SendResult, error) {
	if token == "" {
		return nil, ErrAuthRequired
	}
	var res SendResult
	if err := c.doJSON(ctx, http.MethodPost, "/messages", in, &res, token); err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, errors.New("message was not sent")
	}
	return &res, nil
}

// Inbox lists the enquiries addressed to the signed-in owner.
func (c *Client) Inbox(ctx context.Context) ([]messaging.Enquiry, error) {
	token := c.session.Token()
	if token == "" {
		return nil, ErrAuthRequired
	}
	var res struct {
		Messages []messaging.Enquiry `json:"messages"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/messages", nil, &res, token); err != nil {
		return nil, err
	}
	return res.Messages, nil
}

// Login signs in and persists the session.
func (c *Client) Login(ctx context.Context, email, password string) (*auth.AuthResponse, error) {
	var res auth.AuthResponse
	in := auth.LoginRequest{Email: email, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/login", in, &res, ""); err != nil {
		return nil, err
	}
	if err := c.session.Set(res.Token, res.User); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &res, nil
}

// Signup creates an account and persists the session.
func (c *Client) Signup(ctx context.Context, in auth.SignupRequest) (*auth.AuthResponse, error) {
	var res auth.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/signup", in, &res, ""); err != nil {
		return nil, err
	}
	if err := c.session.Set(res.Token, res.User); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &res, nil
}

// Logout clears the persisted session.
func (c *Client) Logout() error {
	return c.session.Clear()
}
