package dhus

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/kailas-cloud/sentinelsearch/internal/domain"
)

// APIError is a non-2xx answer from the catalog.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("dhus: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("dhus: HTTP %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps "Invalid key" answers and 404s to domain.ErrProductNotFound and
// everything else to domain.ErrCatalog.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound || strings.Contains(e.Message, "Invalid key") {
		return domain.ErrProductNotFound
	}
	return domain.ErrCatalog
}

// parseErrorBody extracts the message from an OData error document, falling back
// to the raw body.
func parseErrorBody(body []byte) string {
	var parsed struct {
		Error struct {
			Message struct {
				Value string `json:"value"`
			} `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Error.Message.Value != "" {
		return parsed.Error.Message.Value
	}
	return strings.TrimSpace(string(body))
}
