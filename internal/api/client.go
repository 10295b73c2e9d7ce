// Package api is the HTTP client for the platform's REST backend.
package api

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

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/ytget/social-client/internal/logging"
	"github.com/ytget/social-client/internal/model"
)

const (
	maxBodyBytes   = 4 << 20
	deleteSuccess  = "Success"
	defaultBurst   = 5
	contentTypeKey = "Content-Type"
	contentJSON    = "application/json"
)

// Config configures the client
type Config struct {
	BaseURL           string
	Timeout           time.Duration // zero means no client-side timeout
	RequestsPerSecond int           // zero disables pacing
	Burst             int
}

// Client talks to the REST backend
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	log     *logrus.Entry
}

// New creates a client for cfg.BaseURL
func New(cfg Config, log *logrus.Entry) *Client {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = defaultBurst
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: limiter,
		log:     logging.OrDiscard(log),
	}
}

type tokenRequest struct {
	Token string `json:"token"`
}

type searchRequest struct {
	SearchTerm string `json:"searchTerm"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CheckToken asks the backend whether token is still a valid session
func (c *Client) CheckToken(ctx context.Context, token string) (bool, error) {
	body, err := c.do(ctx, "check token", http.MethodPost, "/checkToken", tokenRequest{Token: token})
	if err != nil {
		return false, err
	}
	return Truthy(body), nil
}

// Login exchanges credentials for a session identity
func (c *Client) Login(ctx context.Context, username, password string) (model.Identity, error) {
	body, err := c.do(ctx, "login", http.MethodPost, "/login", loginRequest{Username: username, Password: password})
	if err != nil {
		return model.Identity{}, err
	}
	if !Truthy(body) {
		return model.Identity{}, ErrInvalidCredentials
	}

	fields := gjson.GetManyBytes(body, "token", "username", "avatar")
	identity := model.Identity{
		Token:       fields[0].String(),
		DisplayName: fields[1].String(),
		AvatarURL:   fields[2].String(),
	}
	if identity.Token == "" {
		return model.Identity{}, ErrInvalidCredentials
	}
	return identity, nil
}

// HomeFeed returns the latest posts from the accounts the user follows
func (c *Client) HomeFeed(ctx context.Context, token string) ([]model.Post, error) {
	body, err := c.do(ctx, "home feed", http.MethodPost, "/getHomeFeed", tokenRequest{Token: token})
	if err != nil {
		return nil, err
	}
	var posts []model.Post
	if err := decodeList(body, &posts); err != nil {
		return nil, &TransportError{Op: "home feed", Err: err}
	}
	return posts, nil
}

// Post returns a single post, or ErrNotFound
func (c *Client) Post(ctx context.Context, id string) (model.Post, error) {
	op := "post " + id
	body, err := c.do(ctx, op, http.MethodGet, "/post/"+url.PathEscape(id), nil)
	if err != nil {
		return model.Post{}, err
	}
	if !Truthy(body) {
		return model.Post{}, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	var post model.Post
	if err := json.Unmarshal(body, &post); err != nil {
		return model.Post{}, &TransportError{Op: op, Err: err}
	}
	return post, nil
}

// DeletePost deletes a post owned by the token's user
func (c *Client) DeletePost(ctx context.Context, id, token string) error {
	op := "delete post " + id
	body, err := c.do(ctx, op, http.MethodDelete, "/post/"+url.PathEscape(id), tokenRequest{Token: token})
	if err != nil {
		return err
	}
	if textValue(body) != deleteSuccess {
		return fmt.Errorf("%s: %w", op, ErrRejected)
	}
	return nil
}

// Search returns posts matching term. A blank term matches nothing and
// issues no request.
func (c *Client) Search(ctx context.Context, term string) ([]model.Post, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}
	body, err := c.do(ctx, "search", http.MethodPost, "/search", searchRequest{SearchTerm: term})
	if err != nil {
		return nil, err
	}
	var posts []model.Post
	if err := decodeList(body, &posts); err != nil {
		return nil, &TransportError{Op: "search", Err: err}
	}
	return posts, nil
}

// ProfilePosts returns the posts authored by username
func (c *Client) ProfilePosts(ctx context.Context, username string) ([]model.Post, error) {
	var posts []model.Post
	if err := c.getList(ctx, username, "posts", &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// ProfileFollowers returns the accounts following username
func (c *Client) ProfileFollowers(ctx context.Context, username string) ([]model.Follower, error) {
	var followers []model.Follower
	if err := c.getList(ctx, username, "followers", &followers); err != nil {
		return nil, err
	}
	return followers, nil
}

// ProfileFollowing returns the accounts username follows
func (c *Client) ProfileFollowing(ctx context.Context, username string) ([]model.Follower, error) {
	var following []model.Follower
	if err := c.getList(ctx, username, "following", &following); err != nil {
		return nil, err
	}
	return following, nil
}

func (c *Client) getList(ctx context.Context, username, kind string, out any) error {
	op := "profile " + kind
	body, err := c.do(ctx, op, http.MethodGet, "/profile/"+url.PathEscape(username)+"/"+kind, nil)
	if err != nil {
		return err
	}
	if err := decodeList(body, out); err != nil {
		return &TransportError{Op: op, Err: err}
	}
	return nil
}

// decodeList decodes a JSON array; a falsy body decodes as an empty list
func decodeList(body []byte, out any) error {
	if !Truthy(body) {
		return nil
	}
	if !gjson.ParseBytes(body).IsArray() {
		return fmt.Errorf("expected a JSON array, got %.32q", body)
	}
	return json.Unmarshal(body, out)
}

// do performs one request and returns the response body
func (c *Client) do(ctx context.Context, op, method, path string, payload any) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	if payload != nil {
		req.Header.Set(contentTypeKey, contentJSON)
	}
	req.Header.Set("Accept", contentJSON)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{Op: op, Status: resp.StatusCode, Err: err}
	}

	c.log.WithFields(logrus.Fields{
		"op":       op,
		"method":   method,
		"path":     path,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("request finished")

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	case resp.StatusCode >= http.StatusBadRequest:
		return nil, &TransportError{Op: op, Status: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
	}
	return body, nil
}
