package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"clubbet/domain/entities"
	"clubbet/domain/interfaces"

	"github.com/google/uuid"
)

// HTTPMatchCatalog fetches match scheduling and status from the fixture
// catalog's REST API.
type HTTPMatchCatalog struct {
	baseURL    string
	httpClient *http.Client
}

var _ interfaces.MatchCatalog = (*HTTPMatchCatalog)(nil)

// NewHTTPMatchCatalog creates a match catalog client for the given base URL
func NewHTTPMatchCatalog(baseURL string) *HTTPMatchCatalog {
	return &HTTPMatchCatalog{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type matchResponse struct {
	ID        string    `json:"id"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	KickoffAt time.Time `json:"kickoff_at"`
	Status    string    `json:"status"`
}

// GetMatch returns scheduling and status information for a match.
// A 404 from the catalog maps to a nil match, not an error.
func (c *HTTPMatchCatalog) GetMatch(ctx context.Context, matchID uuid.UUID) (*entities.MatchInfo, error) {
	url := fmt.Sprintf("%s/matches/%s", c.baseURL, matchID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build match catalog request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("match catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("match catalog returned status %d for match %s", resp.StatusCode, matchID)
	}

	var body matchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode match catalog response: %w", err)
	}

	id, err := uuid.Parse(body.ID)
	if err != nil {
		return nil, fmt.Errorf("match catalog returned invalid match id %q: %w", body.ID, err)
	}

	return &entities.MatchInfo{
		ID:        id,
		HomeTeam:  body.HomeTeam,
		AwayTeam:  body.AwayTeam,
		KickoffAt: body.KickoffAt,
		Status:    entities.MatchStatus(body.Status),
	}, nil
}
