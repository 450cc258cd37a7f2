// Package suggest asks an external text-generation API for a project
// description draft. One attempt, no retry; any failure is reported to the
// caller and shown to the user.
package suggest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gigtrack/config"
)

var ErrNotConfigured = errors.New("description suggestions are not configured")

var httpClient = &http.Client{Timeout: 15 * time.Second}

type request struct {
	Prompt string `json:"prompt"`
}

type response struct {
	Text string `json:"text"`
}

// Description generates a short project description from the given keywords.
func Description(keywords string) (string, error) {
	cfg := config.AppConfig
	if cfg.SuggestAPIURL == "" || cfg.SuggestAPIKey == "" {
		return "", ErrNotConfigured
	}

	prompt := fmt.Sprintf("Based on the following keywords, write a concise and professional project description for a freelance project tracker. The description should be suitable for a textarea in a project management app. Keywords: %q", keywords)

	body, err := json.Marshal(request{Prompt: prompt})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, cfg.SuggestAPIURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.SuggestAPIKey)

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("suggestion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("suggestion API returned status %d", resp.StatusCode)
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding suggestion response: %w", err)
	}
	return out.Text, nil
}
