// Package apiclient calls the student records REST API.
package apiclient

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

	"github.com/stemsi/student-portal/internal/model"
)

// ErrRequestFailed is wrapped by every error the client returns. Transport
// failures, non-2xx statuses and undecodable bodies are not told apart.
var ErrRequestFailed = errors.New("student API request failed")

const studentsPath = "/api/students"

// Client maps the records API onto Go calls, one request per call.
// No retries, no client-side timeout.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for baseURL (scheme and host, optionally a path
// prefix). A nil httpClient uses a plain http.Client.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// List fetches every student.
func (c *Client) List(ctx context.Context) ([]model.Student, error) {
	var students []model.Student
	if err := c.do(ctx, http.MethodGet, studentsPath, nil, nil, &students); err != nil {
		return nil, err
	}
	return nonNil(students), nil
}

// Search fetches the students matching query. The query is sent as-is,
// URL-encoded; blank handling is up to the caller.
func (c *Client) Search(ctx context.Context, query string) ([]model.Student, error) {
	var students []model.Student
	q := url.Values{"q": []string{query}}
	if err := c.do(ctx, http.MethodGet, studentsPath+"/search", q, nil, &students); err != nil {
		return nil, err
	}
	return nonNil(students), nil
}

// Create posts in as a new student and returns the stored record.
func (c *Client) Create(ctx context.Context, in model.StudentInput) (*model.Student, error) {
	var created model.Student
	if err := c.do(ctx, http.MethodPost, studentsPath, nil, in, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update replaces the student identified by id with in.
func (c *Client) Update(ctx context.Context, id string, in model.StudentInput) (*model.Student, error) {
	var updated model.Student
	if err := c.do(ctx, http.MethodPut, studentPath(id), nil, in, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the student identified by id.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, studentPath(id), nil, nil, nil)
}

func studentPath(id string) string {
	return studentsPath + "/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: encode body: %w", ErrRequestFailed, err)
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrRequestFailed, method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrRequestFailed, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s %s: HTTP %d: %s",
			ErrRequestFailed, method, path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s %s: decode response: %w", ErrRequestFailed, method, path, err)
	}
	return nil
}

func nonNil(students []model.Student) []model.Student {
	if students == nil {
		return []model.Student{}
	}
	return students
}
