package mailchimp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Client defines the interface for interacting with the Mailchimp Marketing API
type Client interface {
	SubscribeMembers(ctx context.Context, batch BatchRequest) (*BatchResponse, error)
}

// maxResponseBody caps how much of an upstream answer is read
const maxResponseBody = 64 << 10

// StatusError is returned when the API answers with anything but 200.
// Body may echo the submitted email, so it is left out of Error().
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("error from Mailchimp API: status %d", e.StatusCode)
}

type clientImpl struct {
	baseURL    string
	listID     string
	username   string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new Mailchimp client for one list. A zero timeout
// leaves outbound requests without a deadline.
func NewClient(baseURL, listID, username, apiKey string, timeout time.Duration, logger *zap.Logger) Client {
	return &clientImpl{
		baseURL:    baseURL,
		listID:     listID,
		username:   username,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *clientImpl) SubscribeMembers(ctx context.Context, batch BatchRequest) (*BatchResponse, error) {
	url := fmt.Sprintf("%s/lists/%s", c.baseURL, c.listID)

	jsonPayload, err := json.Marshal(batch)
	if err != nil {
		return nil, fmt.Errorf("error creating payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	// Mailchimp accepts any user name with the API key as password
	req.SetBasicAuth(c.username, c.apiKey)
	req.Header.Add("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error subscribing members: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	// The status code alone decides success, an unreadable body only costs the summary
	var summary BatchResponse
	if err := json.Unmarshal(body, &summary); err != nil {
		c.logger.Debug("could not parse batch response", zap.Error(err))
	}
	return &summary, nil
}
