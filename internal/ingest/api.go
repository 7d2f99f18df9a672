package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mrbooshehri/folio/internal/logging"
	"github.com/mrbooshehri/folio/internal/metrics"
	"github.com/mrbooshehri/folio/internal/transform"
)

const maxAPIBody = 10 << 20

// APISource fetches a JSON:API document and maps each resource to a raw
// project record
type APISource struct {
	url         string
	client      *http.Client
	transformer *transform.Transformer
}

// NewAPISource creates a source for url. A nil transformer uses defaults.
func NewAPISource(url string, timeout time.Duration, t *transform.Transformer) *APISource {
	if t == nil {
		t = transform.New()
	}
	return &APISource{
		url:         url,
		client:      &http.Client{Timeout: timeout},
		transformer: t,
	}
}

// Name implements Source
func (s *APISource) Name() string {
	return "api"
}

// Load implements Source. 5xx and transport failures are retryable.
func (s *APISource) Load(ctx context.Context) ([]any, error) {
	if s.url == "" {
		return nil, permanent(fmt.Errorf("api source has no url configured"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, permanent(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/vnd.api+json, application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAPIBody))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("fetch %s: status %d", s.url, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, permanent(fmt.Errorf("fetch %s: status %d", s.url, resp.StatusCode))
	}

	docs, err := transform.ParseAPIDocument(body)
	if err != nil {
		return nil, permanent(err)
	}

	records := make([]any, 0, len(docs))
	for _, doc := range docs {
		if !transform.ValidateAPIResponse(doc) {
			logging.Warnf("api resource %q skipped: missing id or title", doc.Data.ID)
			metrics.IncrementTransformFallback("from_api")
			continue
		}
		record, err := s.transformer.APIRecord(doc)
		if err != nil {
			logging.Warnf("api resource %s skipped: %v", doc.Data.ID, err)
			metrics.IncrementTransformFallback("from_api")
			continue
		}
		records = append(records, record)
	}
	return records, nil
}
