package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"strings"
	"time"
)

// NutritionClient resolves a comma-separated ingredient list to a calorie
// total. Lookups are best-effort: callers treat any error as "use the manual
// value" and never fail the enclosing operation.
type NutritionClient interface {
	Calories(ctx context.Context, ingredients string) (int, error)
}

// EdamamClient calls the Edamam nutrition analysis API.
type EdamamClient struct {
	appID   string
	appKey  string
	baseURL string
	client  *http.Client
}

// NewEdamamClient builds a client from EDAMAM_APP_ID / EDAMAM_APP_KEY.
// Returns nil when credentials are absent, which disables lookups.
func NewEdamamClient() *EdamamClient {
	id, key := os.Getenv("EDAMAM_APP_ID"), os.Getenv("EDAMAM_APP_KEY")
	if id == "" || key == "" {
		return nil
	}
	return &EdamamClient{
		appID:   id,
		appKey:  key,
		baseURL: "https://api.edamam.com",
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// NewEdamamClientAt is like NewEdamamClient with an explicit endpoint,
// for tests.
func NewEdamamClientAt(baseURL, appID, appKey string) *EdamamClient {
	return &EdamamClient{
		appID:   appID,
		appKey:  appKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type nutritionResponse struct {
	Calories float64 `json:"calories"`
}

func (c *EdamamClient) Calories(ctx context.Context, ingredients string) (int, error) {
	var ingr []string
	for _, part := range strings.Split(ingredients, ",") {
		if p := strings.TrimSpace(part); p != "" {
			ingr = append(ingr, p)
		}
	}
	if len(ingr) == 0 {
		return 0, fmt.Errorf("empty ingredient list")
	}

	payload, err := json.Marshal(map[string]any{"ingr": ingr})
	if err != nil {
		return 0, err
	}
	u := fmt.Sprintf("%s/api/nutrition-details?app_id=%s&app_key=%s", c.baseURL, c.appID, c.appKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("call nutrition API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read nutrition response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("nutrition API error %d: %s", resp.StatusCode, body)
	}
	var nr nutritionResponse
	if err := json.Unmarshal(body, &nr); err != nil {
		return 0, fmt.Errorf("parse nutrition response: %w", err)
	}
	return int(math.Round(nr.Calories)), nil
}
