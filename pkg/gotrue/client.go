// Package gotrue is a minimal client for the administrative side of a
// GoTrue-compatible identity service. It only covers the calls the account
// provisioning flow needs: creating a user with a pre-confirmed email and
// deleting a user again.
package gotrue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/pkg/errors"
)

const (
	adminUsersPath = "/auth/v1/admin/users"

	headerAPIKey = "apikey"

	defaultTimeout = 20 * time.Second
)

type httpClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Client talks to the identity service using a service role key. Every call
// it makes is privileged, so it must never be driven by end-user input beyond
// the fields explicitly passed in.
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

// NewClient returns a client instance for the identity service. Server address
// and service role key are required.
func NewClient(optionFuncs ...func(*clientOptions)) (*Client, error) {
	c := cleanhttp.DefaultPooledClient()
	c.Timeout = defaultTimeout
	options := &clientOptions{httpClient: c}

	for _, optionFunc := range optionFuncs {
		optionFunc(options)
	}

	if options.server == "" {
		return nil, errors.New("identity service address required")
	}
	if options.serviceKey == "" {
		return nil, errors.New("identity service key required")
	}

	return &Client{options: *options}, nil
}

// CreateUser registers a new user through the admin API. With
// params.EmailConfirm set, no verification email is sent and the user can
// sign in right away.
func (c *Client) CreateUser(ctx context.Context, params CreateUserParams) (*User, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	r, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.options.server+adminUsersPath, bytes.NewReader(body))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	r.Header.Set("Content-Type", "application/json")

	resp, err := c.do(r)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, decodeAPIError(resp)
	}

	var u User
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, errors.WithStack(err)
	}
	return &u, nil
}

// DeleteUser removes a user through the admin API.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	r, err := http.NewRequestWithContext(
		ctx, http.MethodDelete, fmt.Sprintf("%s%s/%s", c.options.server, adminUsersPath, id), nil)
	if err != nil {
		return errors.WithStack(err)
	}

	resp, err := c.do(r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) do(r *http.Request) (*http.Response, error) {
	r.Header.Set("Accept", "application/json")
	r.Header.Set(headerAPIKey, c.options.serviceKey)
	r.Header.Set("Authorization", "Bearer "+c.options.serviceKey)

	resp, err := c.options.httpClient.Do(r)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return resp, nil
}
