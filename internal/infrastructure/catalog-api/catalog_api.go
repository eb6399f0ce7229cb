package catalog_api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/DRSN-tech/catalog-admin/internal/domain"
	"github.com/DRSN-tech/catalog-admin/pkg/e"
	"github.com/DRSN-tech/catalog-admin/pkg/logger"
)

// maxErrorBody ограничивает объём тела ответа об ошибке, попадающего в лог
const maxErrorBody = 1 << 10

// CatalogAPI клиент REST API каталога
type CatalogAPI struct {
	baseURL string
	client  *http.Client
	logger  logger.Logger
}

func NewCatalogAPI(baseURL string, timeout time.Duration, logger logger.Logger) *CatalogAPI {
	return &CatalogAPI{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type categoryDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ListCategories запрашивает список категорий, ответ представляет собой JSON-массив объектов с id и name.
func (c *CatalogAPI) ListCategories(ctx context.Context, path string) (domain.Categories, error) {
	const op = "CatalogAPI.ListCategories"

	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer resp.Body.Close()

	var dtos []categoryDTO
	if err := json.NewDecoder(resp.Body).Decode(&dtos); err != nil {
		c.logger.Errorf(err, "%s: failed to decode categories response", op)
		return nil, e.Wrap(op, &e.RequestError{Path: path, Err: err})
	}

	categories := make(domain.Categories, 0, len(dtos))
	for _, dto := range dtos {
		categories = append(categories, domain.NewCategory(dto.ID, dto.Name))
	}

	c.logger.Debugf("%s: received %d categories", op, len(categories))

	return categories, nil
}

// Create отправляет body в формате JSON методом POST. Тело успешного ответа не используется.
func (c *CatalogAPI) Create(ctx context.Context, path string, body any) error {
	const op = "CatalogAPI.Create"

	payload, err := json.Marshal(body)
	if err != nil {
		return e.Wrap(op, err)
	}

	resp, err := c.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}

// do выполняет запрос и превращает сетевые ошибки и ответы не 2xx в *e.RequestError.
func (c *CatalogAPI) do(ctx context.Context, method, path string, payload []byte) (*http.Response, error) {
	url := c.baseURL + path

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, &e.RequestError{Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debugf("%s %s", method, url)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warnf("request %s %s failed: %v", method, url, err)
		return nil, &e.RequestError{Path: path, Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		defer resp.Body.Close()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warnf("request %s %s returned status %d: %s", method, url, resp.StatusCode, snippet)
		return nil, &e.RequestError{Path: path, StatusCode: resp.StatusCode}
	}

	return resp, nil
}
