package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Client — общий HTTP-клиент модельных сервисов: детекторы и генераторы
// развёрнуты отдельными процессами и принимают multipart-загрузки.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient создаёт клиент сервиса по базовому URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// filePart — одна файловая часть multipart-запроса.
type filePart struct {
	field string
	name  string
	data  []byte
}

// postFile отправляет файл с дополнительными полями формы и возвращает
// тело ответа.
func (c *Client) postFile(ctx context.Context, path, fileName string, file []byte, fields map[string]string) ([]byte, error) {
	return c.postFiles(ctx, path, []filePart{{field: "file", name: fileName, data: file}}, fields)
}

// postFiles отправляет несколько файлов одной формой.
func (c *Client) postFiles(ctx context.Context, path string, files []filePart, fields map[string]string) ([]byte, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, f := range files {
		part, err := writer.CreateFormFile(f.field, f.name)
		if err != nil {
			return nil, fmt.Errorf("create form file %s: %w", f.field, err)
		}
		if _, err := part.Write(f.data); err != nil {
			return nil, fmt.Errorf("write form file %s: %w", f.field, err)
		}
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("write form field %s: %w", k, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("service returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// CheckHealth проверяет доступность модельного сервиса.
func (c *Client) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model service unhealthy: %d", resp.StatusCode)
	}
	return nil
}
