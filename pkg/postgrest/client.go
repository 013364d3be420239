// Package postgrest is a thin client for a PostgREST-compatible data service.
// The provisioning flow only ever inserts single rows, so that is all the
// client implements.
package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/pkg/errors"
)

const (
	restPath = "/rest/v1"

	headerAPIKey = "apikey"
	headerPrefer = "Prefer"

	// returnRepresentation asks the data service to send the inserted row back.
	// singleObject makes it come back as a bare object instead of a one-element array.
	returnRepresentation = "return=representation"
	singleObject         = "application/vnd.pgrst.object+json"

	defaultTimeout = 20 * time.Second
)

type httpClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Client performs privileged writes against the data service using a service
// role key, bypassing row level security.
type Client struct {
	options clientOptions
}

type clientOptions struct {
	server     string
	serviceKey string
	httpClient httpClient
}

func WithServer(server string) func(options *clientOptions) {
	return func(options *clientOptions) {
		options.server = strings.TrimRight(server, "/")
	}
}

func WithServiceKey(key string) func(options *clientOptions) {
	return func(options *clientOptions) {
		options.serviceKey = key
	}
}

func WithHTTPClient(client httpClient) func(options *clientOptions) {
	return func(options *clientOptions) {
		options.httpClient = client
	}
}

// NewClient returns a client instance for the data service. Server address and
// service role key are required.
func NewClient(optionFuncs ...func(*clientOptions)) (*Client, error) {
	c := cleanhttp.DefaultPooledClient()
	c.Timeout = defaultTimeout
	options := &clientOptions{httpClient: c}

	for _, optionFunc := range optionFuncs {
		optionFunc(options)
	}

	if options.server == "" {
		return nil, errors.New("data service address required")
	}
	if options.serviceKey == "" {
		return nil, errors.New("data service key required")
	}

	return &Client{options: *options}, nil
}

// Insert adds a single record to a table and decodes the row the data service
// sends back into `into`, unless `into` is nil.
func (c *Client) Insert(ctx context.Context, table string, record interface{}, into interface{}) error {
	body, err := json.Marshal(record)
	if err != nil {
		return errors.WithStack(err)
	}

	r, err := http.NewRequestWithContext(
		ctx, http.MethodPost, fmt.Sprintf("%s%s/%s", c.options.server, restPath, table), bytes.NewReader(body))
	if err != nil {
		return errors.WithStack(err)
	}

	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Accept", singleObject)
	r.Header.Set(headerPrefer, returnRepresentation)
	r.Header.Set(headerAPIKey, c.options.serviceKey)
	r.Header.Set("Authorization", "Bearer "+c.options.serviceKey)

	resp, err := c.options.httpClient.Do(r)
	if err != nil {
		return errors.WithStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp)
	}

	if into == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// APIError is a rejection coming from the data service itself, e.g. a
// constraint violation.
type APIError struct {
	Code    int
	Message string
	Details string
	Hint    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("data service error (%v): %s", e.Code, e.Message)
}

// errorBody is the standard PostgREST error shape.
type errorBody struct {
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Code: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return apiErr
	}
	if body.Message != "" {
		apiErr.Message = body.Message
	}
	apiErr.Details = body.Details
	apiErr.Hint = body.Hint
	return apiErr
}
