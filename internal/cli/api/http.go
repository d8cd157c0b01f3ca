package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Error — ответ сервера с кодом не из 2xx.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server status %d", e.Status)
	}
	return fmt.Sprintf("server status %d: %s", e.Status, e.Message)
}

// errorBody — JSON-ошибка сервера.
type errorBody struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

// Client — HTTP-клиент API с bearer-токеном.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// NewClient создаёт клиента для сервера baseURL.
func NewClient(baseURL, token string) *Client {
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), Token: token, HTTP: http.DefaultClient}
}

// UserPath собирает путь /api/users/<login>/repos/..., экранируя каждый сегмент.
func UserPath(login string, segments ...string) string {
	var b strings.Builder
	b.WriteString("/api/users/")
	b.WriteString(url.PathEscape(login))
	b.WriteString("/repos")
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

// Do выполняет запрос и возвращает тело ответа. Ответ не из 2xx превращается в *Error.
func (c *Client) Do(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseError(resp.StatusCode, data)
	}
	return data, nil
}

// JSON отправляет payload как JSON (nil — без тела) и раскладывает ответ в out (nil — не разбирать).
func (c *Client) JSON(ctx context.Context, method, path string, payload, out any) error {
	var (
		body        io.Reader
		contentType string
	)
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}

	data, err := c.Do(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

func parseError(status int, data []byte) error {
	var eb errorBody
	if err := json.Unmarshal(data, &eb); err == nil && eb.Error != "" {
		return &Error{Status: status, Message: eb.Error}
	}
	return &Error{Status: status, Message: strings.TrimSpace(string(data))}
}
