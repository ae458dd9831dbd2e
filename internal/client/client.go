// Package client is a small HTTP client for the Barefoot Nomad API, used by nomadctl.
package client

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	json "github.com/json-iterator/go"

	"github.com/Mastel22/boondocks-bn-backend/internal/dto"
	"github.com/Mastel22/boondocks-bn-backend/internal/models"
)

const userAgent = "nomadctl/0.1.0"

// Logger receives request tracing; charmbracelet's *log.Logger satisfies it
type Logger interface {
	Debug(msg interface{}, keyvals ...interface{})
}

// Client calls the /api/v1 endpoints
type Client struct {
	http *resty.Client
}

// New creates a client for baseURL
func New(baseURL string, timeout time.Duration, log Logger) *Client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json")

	if log != nil {
		rc.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
			log.Debug("HTTP request", "method", req.Method, "url", req.URL)
			return nil
		})
		rc.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
			log.Debug("HTTP response", "status", resp.StatusCode(), "duration", resp.Time())
			return nil
		})
	}
	return &Client{http: rc}
}

// SetToken authenticates later requests with an access token; empty clears it
func (c *Client) SetToken(token string) {
	c.http.SetAuthToken(token)
}

// envelope is the success body every endpoint returns
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// do sends a request and decodes the data field of a success response into out
func (c *Client) do(method, path string, body, out interface{}) (string, error) {
	req := c.http.R()
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return "", err
		}
		req.SetHeader("Content-Type", "application/json").SetBody(raw)
	}

	resp, err := req.Execute(method, path)
	if err := checkResponse(resp, err); err != nil {
		return "", err
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return "", fmt.Errorf("unexpected response body: %w", err)
	}
	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return "", fmt.Errorf("failed to decode %s response: %w", path, err)
		}
	}
	return env.Message, nil
}

// Signin authenticates with email and password. When 2FA is on, the result carries
// TwoFARequired and a TwoFAToken for CompleteTwoFA.
func (c *Client) Signin(email, password string) (*dto.SigninResponse, error) {
	var out dto.SigninResponse
	_, err := c.do(resty.MethodPost, "/api/v1/auth/signin", dto.SigninRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CompleteTwoFA exchanges a pending 2FA token and a TOTP code for an access token
func (c *Client) CompleteTwoFA(twoFAToken, code string) (*dto.SigninResponse, error) {
	var out dto.SigninResponse
	_, err := c.do(resty.MethodPost, "/api/v1/auth/2fa/signin", dto.TwoFASigninRequest{TwoFAToken: twoFAToken, Token: code}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the signed-in user's profile
func (c *Client) Me() (*dto.UserResponse, error) {
	var out dto.UserResponse
	if _, err := c.do(resty.MethodGet, "/api/v1/users/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TwoFAStatus returns the signed-in user's 2FA configuration
func (c *Client) TwoFAStatus() (*dto.TwoFAResponse, error) {
	var out dto.TwoFAResponse
	if _, err := c.do(resty.MethodGet, "/api/v1/auth/2fa", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListBookings returns the signed-in user's bookings
func (c *Client) ListBookings() ([]models.Booking, error) {
	var out []models.Booking
	if _, err := c.do(resty.MethodGet, "/api/v1/booking", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateBooking books rooms of a hotel for a stay
func (c *Client) CreateBooking(req dto.BookingRequest) (*dto.BookingResponse, error) {
	var out dto.BookingResponse
	if _, err := c.do(resty.MethodPost, "/api/v1/booking", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
