package prov

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/evgsokolov/surveyflow/pkg/core/flow"
)

type Config struct {
	Url    string `mapstructure:"url"`
	ApiKey string `mapstructure:"api_key"`
}

// Results is the client of the results API, the service that permanently
// stores submitted answers. The engine only needs success or failure; it
// performs no automatic retries, so a failed call leaves the respondent in
// place to retry manually.
type Results struct {
	baseUrl string
	apiKey  string
	cl      *http.Client
}

// New creates and returns a new Results client initialized with the provided configuration.
func New(cfg Config) *Results {
	return &Results{
		baseUrl: cfg.Url,
		apiKey:  cfg.ApiKey,
		cl: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type submitSectionRequest struct {
	Respondent string       `json:"respondent"`
	Section    string       `json:"section"`
	Answers    flow.Answers `json:"answers"`
}

// SubmitSection sends one section's normalized answers to the results API.
// Returns an error on transport failure or any non-success status.
func (r *Results) SubmitSection(ctx context.Context, respondentID, sectionLabel string, answers flow.Answers) error {
	body, err := json.Marshal(submitSectionRequest{
		Respondent: respondentID,
		Section:    sectionLabel,
		Answers:    answers,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseUrl+"/responses", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.cl.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to submit section, status code: %d", resp.StatusCode)
	}

	return nil
}
