package risk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"vendor-hub.backend/internal/config"
	"vendor-hub.backend/internal/domain/entities"
	domainerrors "vendor-hub.backend/internal/domain/errors"
	"vendor-hub.backend/pkg/metrics"
)

// ProviderClient calls the external scoring service. One request per
// profile; the verdict is ingested by the risk review usecase.
type ProviderClient struct {
	url    string
	client *http.Client
}

// NewProviderClient creates a scoring client from risk configuration
func NewProviderClient(cfg config.RiskConfig) *ProviderClient {
	return &ProviderClient{
		url:    cfg.ProviderURL,
		client: &http.Client{Timeout: cfg.RequestTimeout},
	}
}

type scoreRequest struct {
	ProfileID   string `json:"profileId"`
	DisplayName string `json:"displayName"`
}

type scoreResponse struct {
	Score      int      `json:"score"`
	Label      string   `json:"label"`
	Summary    string   `json:"summary"`
	GreenFlags []string `json:"greenFlags"`
	RedFlags   []string `json:"redFlags"`
}

// Assess requests a risk verdict for one profile
func (c *ProviderClient) Assess(ctx context.Context, profile *entities.Profile) (*entities.RiskAssessment, error) {
	body, err := json.Marshal(scoreRequest{
		ProfileID:   profile.ID.String(),
		DisplayName: profile.DisplayName,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		metrics.RiskProviderRequests.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return nil, domainerrors.DependencyUnavailable("risk provider unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RiskProviderRequests.WithLabelValues(fmt.Sprintf("http_%d", resp.StatusCode)).Observe(time.Since(start).Seconds())
		io.Copy(io.Discard, resp.Body)
		return nil, domainerrors.DependencyUnavailable(
			fmt.Sprintf("risk provider returned status %d", resp.StatusCode), nil)
	}

	var verdict scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		metrics.RiskProviderRequests.WithLabelValues("bad_body").Observe(time.Since(start).Seconds())
		return nil, domainerrors.DependencyUnavailable("risk provider returned malformed verdict", err)
	}
	metrics.RiskProviderRequests.WithLabelValues("ok").Observe(time.Since(start).Seconds())

	return &entities.RiskAssessment{
		Score:      verdict.Score,
		Label:      verdict.Label,
		Summary:    verdict.Summary,
		GreenFlags: verdict.GreenFlags,
		RedFlags:   verdict.RedFlags,
	}, nil
}
