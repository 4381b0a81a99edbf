package gql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/itiky/notes-sync/model"
)

const apiKeyHeader = "x-api-key"

type (
	// Client implements the notes backend GraphQL API.
	Client struct {
		// Config
		endpoint         string
		realtimeEndpoint string
		apiKey           string
		//
		httpClient *http.Client
		logger     *zap.Logger
	}

	// ClientOption configures the Client.
	ClientOption func(c *Client)

	Request struct {
		Query         string      `json:"query"`
		OperationName string      `json:"operationName,omitempty"`
		Variables     interface{} `json:"variables,omitempty"`
	}

	Response struct {
		Data   json.RawMessage `json:"data"`
		Errors []ErrorItem     `json:"errors,omitempty"`
	}
)

// WithApiKey sets the API key header value.
func WithApiKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithRealtimeEndpoint sets the subscription websocket endpoint (derived from the HTTP one by default).
func WithRealtimeEndpoint(url string) ClientOption {
	return func(c *Client) {
		c.realtimeEndpoint = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// String implements the stringer interface.
func (c *Client) String() string {
	return fmt.Sprintf("GraphQL client (%s)", c.endpoint)
}

// ListNotes implements the list query.
func (c *Client) ListNotes(ctx context.Context) (model.NoteList, error) {
	res := model.ListNotesResponse{}
	if err := c.Do(ctx, "ListNotes", ListNotesQuery, nil, &res); err != nil {
		return nil, err
	}

	return res.ListNotes.Items, nil
}

// CreateNote implements the create mutation.
func (c *Client) CreateNote(ctx context.Context, note model.Note) (model.Note, error) {
	req := model.CreateNoteRequest{Input: note}
	res := model.CreateNoteResponse{}
	if err := c.Do(ctx, "CreateNote", CreateNoteMutation, req, &res); err != nil {
		return model.Note{}, err
	}

	return res.CreateNote, nil
}

// DeleteNote implements the delete mutation.
func (c *Client) DeleteNote(ctx context.Context, noteId string) (string, error) {
	req := model.DeleteNoteRequest{Input: model.DeleteNoteInput{Id: noteId}}
	res := model.DeleteNoteResponse{}
	if err := c.Do(ctx, "DeleteNote", DeleteNoteMutation, req, &res); err != nil {
		return "", err
	}

	return res.DeleteNote.Id, nil
}

// UpdateNote implements the update mutation.
func (c *Client) UpdateNote(ctx context.Context, noteId string, completed bool) (model.Note, error) {
	req := model.UpdateNoteRequest{Input: model.UpdateNoteInput{Id: noteId, Completed: completed}}
	res := model.UpdateNoteResponse{}
	if err := c.Do(ctx, "UpdateNote", UpdateNoteMutation, req, &res); err != nil {
		return model.Note{}, err
	}

	return res.UpdateNote, nil
}

// Do sends a GraphQL query / mutation and decodes the response data to out.
func (c *Client) Do(ctx context.Context, opName, query string, variables, out interface{}) error {
	reqBody, err := sonic.Marshal(Request{
		Query:         query,
		OperationName: opName,
		Variables:     variables,
	})
	if err != nil {
		return fmt.Errorf("%s: request marshal: %w", opName, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("%s: building request: %w", opName, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set(apiKeyHeader, c.apiKey)
	}

	opStart := time.Now()
	httpRes, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s: http: %w", opName, err)
	}
	defer httpRes.Body.Close()

	resBody, err := io.ReadAll(httpRes.Body)
	if err != nil {
		return fmt.Errorf("%s: reading response: %w", opName, err)
	}
	c.logger.Debug("request served",
		zap.String("operation", opName),
		zap.Int("status", httpRes.StatusCode),
		zap.Duration("duration", time.Since(opStart)),
	)

	if httpRes.StatusCode < 200 || httpRes.StatusCode > 299 {
		return &StatusError{Operation: opName, StatusCode: httpRes.StatusCode, Body: string(resBody)}
	}

	res := Response{}
	if err := sonic.Unmarshal(resBody, &res); err != nil {
		return fmt.Errorf("%s: response unmarshal: %w", opName, err)
	}
	if len(res.Errors) > 0 {
		return &ResponseError{Operation: opName, Errors: res.Errors}
	}

	if out == nil || len(res.Data) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(res.Data, out); err != nil {
		return fmt.Errorf("%s: data unmarshal: %w", opName, err)
	}

	return nil
}

// NewClient creates a new Client object.
func NewClient(endpoint string, opts ...ClientOption) (*Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("%s: empty", "endpoint")
	}

	c := Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&c)
	}

	if c.realtimeEndpoint == "" {
		realtimeEndpoint, err := websocketURL(endpoint)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", "endpoint", err)
		}
		c.realtimeEndpoint = realtimeEndpoint
	}

	return &c, nil
}
