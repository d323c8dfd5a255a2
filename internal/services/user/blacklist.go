package user

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"
)

// BlacklistChecker answers whether a BVN is blacklisted. The check is an
// external collaborator; registration only consumes the yes/no decision.
type BlacklistChecker interface {
	IsBlacklisted(ctx context.Context, bvn string) (bool, error)
}

// AllowAll never blacklists anyone; used when no checker is configured.
type AllowAll struct{}

func (AllowAll) IsBlacklisted(context.Context, string) (bool, error) { return false, nil }

// KarmaChecker queries the Lendsqr Adjutor Karma blacklist.
type KarmaChecker struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewKarmaChecker(baseURL, apiKey string) *KarmaChecker {
	return &KarmaChecker{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type karmaResponse struct {
	Data struct {
		KarmaIdentity     string `json:"karma_identity"`
		KarmaIdentityType struct {
			IdentityType string `json:"identity_type"`
		} `json:"karma_identity_type"`
	} `json:"data"`
}

func (k *KarmaChecker) IsBlacklisted(ctx context.Context, bvn string) (bool, error) {
	endpoint := fmt.Sprintf("%s/v2/verification/karma/%s", k.baseURL, url.PathEscape(bvn))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("failed to build karma request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+k.apiKey)

	resp, err := k.client.Do(req)
	if err != nil {
		// The lookup is advisory; a dead upstream must not block registration.
		log.Printf("karma blacklist check failed: %v", err)
		return false, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("karma blacklist check returned status %d", resp.StatusCode)
		return false, nil
	}

	var body karmaResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, nil
	}
	return body.Data.KarmaIdentityType.IdentityType == "BVN" && body.Data.KarmaIdentity == bvn, nil
}
