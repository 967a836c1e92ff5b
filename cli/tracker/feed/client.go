package feed

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/daniil11ru/tracker/cli/tracker/types"
	log "github.com/sirupsen/logrus"
)

var ErrUnexpectedFormat = errors.New("неожиданный формат ответа источника")

// Client забирает последнее местоположение машины с удаленного HTTP-источника.
type Client struct {
	url        string
	httpClient *http.Client
}

func NewClient(url string, timeout time.Duration, insecureSkipVerify bool) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if insecureSkipVerify {
		log.WithField("url", url).Warn("Проверка TLS-сертификата источника отключена (insecure_skip_verify)")
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// Fetch выполняет один GET. Ответ должен быть JSON-массивом объектов, иначе
// возвращается ErrUnexpectedFormat.
func (c *Client) Fetch(ctx context.Context) ([]types.VehicleRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("источник вернул HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	log.WithField("body", string(body)).Debug("Ответ источника")

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedFormat, err)
	}

	items, ok := payload.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: ожидался массив, получено %T", ErrUnexpectedFormat, payload)
	}

	records := make([]types.VehicleRecord, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: элемент %d имеет тип %T", ErrUnexpectedFormat, i, item)
		}
		records = append(records, types.VehicleRecord(obj))
	}

	return records, nil
}
