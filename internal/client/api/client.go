// Package api is the client side of the peer-match HTTP API. It speaks the
// {status, message, data} envelope and classifies failures so views can
// tell a conflict from an outage.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"peer-match/internal/pkg/response"

	"github.com/gofiber/fiber/v3/client"
	"github.com/google/uuid"
)

const defaultTimeout = 10 * time.Second

type Candidate struct {
	CandidateID      uuid.UUID `json:"candidate_id"`
	CandidateName    string    `json:"candidate_name"`
	CandidateEmail   string    `json:"candidate_email"`
	SharedSkillCount int       `json:"shared_skill_count"`
	SharedSkillNames []string  `json:"shared_skill_names"`
}

type Connection struct {
	TargetID         uuid.UUID `json:"target_id"`
	DisplayName      string    `json:"display_name"`
	Email            string    `json:"email"`
	ConnectedAt      time.Time `json:"connected_at"`
	SharedSkillNames []string  `json:"shared_skill_names"`
}

type ConnectOutcome int

const (
	Created ConnectOutcome = iota + 1
	AlreadyExists
)

func (o ConnectOutcome) String() string {
	switch o {
	case Created:
		return "created"
	case AlreadyExists:
		return "already_exists"
	default:
		return "unknown"
	}
}

// StatusError is a non-2xx reply that carried an envelope.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// IsTransient reports whether err is a network failure or a 5xx reply,
// the cases a view answers by falling back to its cached state.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status >= http.StatusInternalServerError
	}
	return true
}

// IsNotFound reports a 404 reply.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}

type Option func(*Client)

func WithToken(token string) Option {
	return func(c *Client) { c.token = strings.TrimSpace(token) }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.SetTimeout(d)
		}
	}
}

type Client struct {
	http  *client.Client
	token string
}

func New(baseURL string, opts ...Option) *Client {
	hc := client.New()
	hc.SetBaseURL(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	hc.SetTimeout(defaultTimeout)

	c := &Client{http: hc}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Rank(ctx context.Context, userID uuid.UUID) ([]Candidate, error) {
	var out []Candidate
	if _, err := c.do(ctx, http.MethodGet, "/api/v1/matches/"+userID.String(), nil, &out); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].SharedSkillNames == nil {
			out[i].SharedSkillNames = []string{}
		}
	}
	return out, nil
}

// Connect creates owner→target. A 409 is reported as AlreadyExists, not as
// an error.
func (c *Client) Connect(ctx context.Context, ownerID, targetID uuid.UUID) (ConnectOutcome, error) {
	body := map[string]string{"user_id": ownerID.String(), "target_id": targetID.String()}
	_, err := c.do(ctx, http.MethodPost, "/api/v1/matches/connect", body, nil)
	if err == nil {
		return Created, nil
	}
	var se *StatusError
	if errors.As(err, &se) && se.Status == http.StatusConflict {
		return AlreadyExists, nil
	}
	return 0, err
}

func (c *Client) Connections(ctx context.Context, ownerID uuid.UUID) ([]Connection, error) {
	var out []Connection
	if _, err := c.do(ctx, http.MethodGet, "/api/v1/connections/"+ownerID.String(), nil, &out); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].SharedSkillNames == nil {
			out[i].SharedSkillNames = []string{}
		}
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := client.Config{Ctx: ctx, Header: map[string]string{"Accept": "application/json"}}
	if c.token != "" {
		cfg.Header["Authorization"] = "Bearer " + c.token
	}
	if body != nil {
		cfg.Body = body
	}

	var (
		resp *client.Response
		err  error
	)
	switch method {
	case http.MethodGet:
		resp, err = c.http.Get(path, cfg)
	case http.MethodPost:
		resp, err = c.http.Post(path, cfg)
	default:
		return 0, fmt.Errorf("api: unsupported method %s", method)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		return 0, fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Close()

	status := resp.StatusCode()
	env, err := response.Decode(resp.Body())
	if err != nil && status < http.StatusInternalServerError {
		return status, fmt.Errorf("api: decode %s %s: %w", method, path, err)
	}

	if status < 200 || status > 299 {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(status)
		}
		return status, &StatusError{Status: status, Message: msg}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return status, fmt.Errorf("api: decode data %s %s: %w", method, path, err)
		}
	}
	return status, nil
}
