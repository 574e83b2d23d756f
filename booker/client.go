package booker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/retailqa/storefront-contract-tests/framework"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// RequestExecutor issues a single HTTP request. The harness does not own the
// transport; *http.Client satisfies this, and tests substitute their own.
type RequestExecutor interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a typed client for the bookings REST API. It maps domain verbs onto the
// service's wire contract and performs no local validation of booking data: the
// service is the single source of truth for field constraints.
//
// A Client holds no mutable state, but by convention each scenario constructs its own
// instance so that nothing is shared across scenario boundaries.
type Client struct {
	baseURL  string
	executor RequestExecutor
	logger   framework.Logger
}

func NewClient(baseURL string, executor RequestExecutor, logger framework.Logger) *Client {
	if executor == nil {
		executor = http.DefaultClient
	}
	if logger == nil {
		logger = framework.NullLogger()
	}
	return &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		executor: executor,
		logger:   logger,
	}
}

// HealthCheck issues a reachability probe against the ping resource. It returns true
// only when the service answers with its specific liveness status (201); transport
// failures and any other status produce false, never an error.
func (c *Client) HealthCheck(ctx context.Context) bool {
	resp, err := c.do(ctx, "GET", "/ping", nil, "")
	if err != nil {
		c.logger.Printf("health check failed: %s", err)
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusCreated
}

// Authenticate exchanges credentials for a token. A credential mismatch is not an
// HTTP error on this service: it comes back as a success status with a reason field
// in the payload. Callers must therefore inspect the returned AuthResult, not rely on
// the absence of an error.
func (c *Client) Authenticate(ctx context.Context, username, password string) (AuthResult, error) {
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return AuthResult{}, err
	}
	resp, err := c.do(ctx, "POST", "/auth", body, "")
	if err != nil {
		return AuthResult{}, err
	}
	data, err := readBody(resp)
	if err != nil {
		return AuthResult{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return AuthResult{}, fmt.Errorf("unexpected response status %d from POST /auth: %s", resp.StatusCode, string(data))
	}

	payload := ldvalue.Parse(data)
	if token := payload.GetByKey("token").StringValue(); token != "" {
		return AuthResult{Token: AuthToken(token)}, nil
	}
	if reason := payload.GetByKey("reason").StringValue(); reason != "" {
		return AuthResult{FailureReason: reason}, nil
	}
	return AuthResult{}, AuthenticationError{Body: string(data)}
}

// CreateBooking creates a booking and returns the server-assigned id along with the
// stored representation.
func (c *Client) CreateBooking(ctx context.Context, booking Booking) (BookingResult, error) {
	body, err := json.Marshal(booking)
	if err != nil {
		return BookingResult{}, err
	}
	resp, err := c.do(ctx, "POST", "/booking", body, "")
	if err != nil {
		return BookingResult{}, err
	}
	var result BookingResult
	if err := decodeResponse(resp, "POST /booking", &result); err != nil {
		return BookingResult{}, err
	}
	return result, nil
}

// GetBooking retrieves a booking by id.
func (c *Client) GetBooking(ctx context.Context, id int) (Booking, error) {
	resp, err := c.do(ctx, "GET", fmt.Sprintf("/booking/%d", id), nil, "")
	if err != nil {
		return Booking{}, err
	}
	if resp.StatusCode == http.StatusNotFound {
		drain(resp)
		return Booking{}, NotFoundError{ID: id}
	}
	var booking Booking
	if err := decodeResponse(resp, fmt.Sprintf("GET /booking/%d", id), &booking); err != nil {
		return Booking{}, err
	}
	return booking, nil
}

// ListBookingIDs returns the ids of bookings matching the filter, or of every booking
// when the filter is empty.
func (c *Client) ListBookingIDs(ctx context.Context, filter BookingFilter) ([]int, error) {
	path := "/booking"
	query := url.Values{}
	if filter.FirstName != "" {
		query.Set("firstname", filter.FirstName)
	}
	if filter.LastName != "" {
		query.Set("lastname", filter.LastName)
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	resp, err := c.do(ctx, "GET", path, nil, "")
	if err != nil {
		return nil, err
	}
	var items []struct {
		ID int `json:"bookingid"`
	}
	if err := decodeResponse(resp, "GET /booking", &items); err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids, nil
}

// UpdateBooking replaces a booking in full. Requires a valid token.
func (c *Client) UpdateBooking(ctx context.Context, id int, booking Booking, token AuthToken) (Booking, error) {
	body, err := json.Marshal(booking)
	if err != nil {
		return Booking{}, err
	}
	return c.mutateBooking(ctx, "PUT", "update", id, body, token)
}

// PatchBooking merges only the fields defined in the patch; the service leaves every
// omitted field unchanged. Requires a valid token.
func (c *Client) PatchBooking(ctx context.Context, id int, patch BookingPatch, token AuthToken) (Booking, error) {
	body, err := json.Marshal(patch)
	if err != nil {
		return Booking{}, err
	}
	return c.mutateBooking(ctx, "PATCH", "patch", id, body, token)
}

func (c *Client) mutateBooking(ctx context.Context, method, verb string, id int, body []byte, token AuthToken) (Booking, error) {
	path := fmt.Sprintf("/booking/%d", id)
	resp, err := c.do(ctx, method, path, body, token)
	if err != nil {
		return Booking{}, err
	}
	switch resp.StatusCode {
	case http.StatusForbidden, http.StatusUnauthorized:
		drain(resp)
		return Booking{}, AuthorizationError{Operation: verb, ID: id}
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		// The live service answers 405 for a mutation of an absent id.
		drain(resp)
		return Booking{}, NotFoundError{ID: id}
	}
	var booking Booking
	if err := decodeResponse(resp, method+" "+path, &booking); err != nil {
		return Booking{}, err
	}
	return booking, nil
}

// DeleteBooking removes a booking. Deleting an id that no longer exists reports
// NotFoundError rather than succeeding, so cleanup logic must treat that outcome as
// non-fatal.
func (c *Client) DeleteBooking(ctx context.Context, id int, token AuthToken) error {
	path := fmt.Sprintf("/booking/%d", id)
	resp, err := c.do(ctx, "DELETE", path, nil, token)
	if err != nil {
		return err
	}
	drain(resp)
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		// The live service answers 201 here.
		return nil
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
		return AuthorizationError{Operation: "delete", ID: id}
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusMethodNotAllowed:
		return NotFoundError{ID: id}
	default:
		return fmt.Errorf("unexpected response status %d from DELETE %s", resp.StatusCode, path)
	}
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, token AuthToken) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Cookie", "token="+string(token))
	}

	if body != nil {
		c.logger.Printf("%s %s: %s", method, path, string(body))
	} else {
		c.logger.Printf("%s %s", method, path)
	}
	resp, err := c.executor.Do(req)
	if err != nil {
		return nil, TransportUnavailableError{URL: c.baseURL + path, Err: err}
	}
	c.logger.Printf("%s %s -> %d", method, path, resp.StatusCode)
	return resp, nil
}

func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func decodeResponse(resp *http.Response, operation string, out interface{}) error {
	data, err := readBody(resp)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected response status %d from %s: %s", resp.StatusCode, operation, string(data))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("malformed response from %s: %s", operation, string(data))
	}
	return nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
