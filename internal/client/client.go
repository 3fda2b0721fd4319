// Package client talks to the signup API over HTTP and implements the
// booking endpoint used by the grid engine.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/BruksfildServices01/weekly-signup/internal/domain/booking"
	"github.com/BruksfildServices01/weekly-signup/internal/dto"
	"github.com/BruksfildServices01/weekly-signup/internal/httperr"
)

// Client is an HTTP booking.Endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) List(ctx context.Context, weekStart civil.Date) ([]booking.Booking, error) {
	var resp dto.WeekResponse
	if err := c.do(ctx, "list", http.MethodGet, "/api/bookings?week="+url.QueryEscape(weekStart.String()), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Bookings, nil
}

// Grid fetches the server-side merged view of the week.
func (c *Client) Grid(ctx context.Context, weekStart civil.Date, actor string) (dto.GridResponse, error) {
	q := url.Values{}
	q.Set("week", weekStart.String())
	if actor != "" {
		q.Set("actor", actor)
	}

	var resp dto.GridResponse
	err := c.do(ctx, "grid", http.MethodGet, "/api/bookings/grid?"+q.Encode(), nil, &resp)
	return resp, err
}

func (c *Client) Create(ctx context.Context, date civil.Date, slotIndex int, owner string) (booking.Booking, error) {
	req := dto.CreateBookingRequest{
		Date:      date.String(),
		SlotIndex: &slotIndex,
		Owner:     owner,
	}

	var b booking.Booking
	if err := c.do(ctx, "create", http.MethodPost, "/api/bookings", req, &b); err != nil {
		return booking.Booking{}, err
	}
	return b, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, "delete", http.MethodDelete, "/api/bookings/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return &booking.TransportError{Op: op, Err: fmt.Errorf("marshal request: %w", err)}
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &booking.TransportError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	if in != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &booking.TransportError{Op: op, Err: fmt.Errorf("send request: %w", err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &booking.TransportError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode >= 400 {
		return statusError(op, resp.StatusCode, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &booking.TransportError{Op: op, Err: fmt.Errorf("unmarshal response: %w", err)}
	}
	return nil
}

// StatusError is an unexpected HTTP status, wrapped in a TransportError.
type StatusError struct {
	Status int
	Code   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Code)
}

// statusError turns an error response back into the booking error taxonomy.
func statusError(op string, status int, body []byte) error {
	var apiErr httperr.HTTPError
	_ = json.Unmarshal(body, &apiErr)

	switch status {
	case http.StatusConflict:
		return booking.ErrConflict
	case http.StatusNotFound:
		return booking.ErrNotFound
	case http.StatusBadRequest:
		field, ok := strings.CutPrefix(apiErr.Code, "invalid_")
		if !ok {
			field = "request"
		}
		return &booking.ValidationError{Field: field, Reason: apiErr.Message}
	}

	code := apiErr.Code
	if code == "" {
		code = strings.TrimSpace(string(body))
	}
	return &booking.TransportError{Op: op, Err: &StatusError{Status: status, Code: code}}
}

// IsRateLimited reports whether err came from a 429 response.
func IsRateLimited(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == http.StatusTooManyRequests
}

var _ booking.Endpoint = (*Client)(nil)
