// Package insight generates AI-written sales insights for a customer
// profile via the Gemini REST API.
package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash:generateContent"

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("insight: GEMINI_API_KEY is not set")

// CustomerProfile is the slice of customer data the prompt is built from.
type CustomerProfile struct {
	Age          int     `json:"age"`
	Job          string  `json:"job"`
	Balance      int     `json:"balance"`
	POutcome     string  `json:"poutcome"`
	Campaign     int     `json:"campaign"`
	Previous     int     `json:"previous"`
	Duration     int     `json:"duration"`
	ConsPriceIdx float64 `json:"cons_price_idx"`
	ConsConfIdx  float64 `json:"cons_conf_idx"`
}

// Client calls the Gemini generateContent endpoint.
type Client struct {
	apiKey   string
	endpoint string
	http     *http.Client
}

// NewClient constructs a Client. An empty apiKey yields a client whose
// Generate always fails with ErrNotConfigured.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:   apiKey,
		endpoint: defaultEndpoint,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Generate returns insight text for the given profile.
func (c *Client) Generate(ctx context.Context, p CustomerProfile) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: buildPrompt(p)}}}},
	})
	if err != nil {
		return "", fmt.Errorf("insight: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("insight: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("insight: call model: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("insight: model returned status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("insight: decode response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("insight: empty model response")
	}

	return out.Candidates[0].Content.Parts[0].Text, nil
}

func buildPrompt(p CustomerProfile) string {
	return fmt.Sprintf(`You are an AI Insight Engine for an internal banking platform.
Analyze the customer data below and generate sharp insights that highlight business potential and deliver aggressive yet relevant promotional recommendations.

Predict insights based on the following customer data:

Age: %d
Job: %s
Balance: %d
Previous Campaign Outcome: %s
Total Campaign Contacts: %d
Total Previous Contacts: %d
Contact Duration: %d
Price Index: %g
Confidence Index: %g

The output must include:

1. Key Insight
- Highlight financial behavior and deposit potential quickly and directly.

2. Weak Points
- Use the format: "The customer is weak in ..."

3. Penetration Opportunities
- Focus on the opportunities with the highest and fastest conversion potential.

4. Marketing Recommendations
- Provide aggressive, personalized, and conversion-driven strategies.
- End with "focused on..."`,
		p.Age, p.Job, p.Balance, p.POutcome, p.Campaign, p.Previous, p.Duration,
		p.ConsPriceIdx, p.ConsConfIdx)
}
