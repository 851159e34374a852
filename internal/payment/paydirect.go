package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"birs-backend/internal/models"
)

const defaultPayDirectBaseURL = "https://webpay.interswitchng.com/collections/api/v1"

// PayDirectVerifier checks receipt references against the Interswitch
// PayDirect collections API.
type PayDirectVerifier struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewPayDirectVerifier creates a live PayDirect verifier.
func NewPayDirectVerifier(apiKey string) *PayDirectVerifier {
	return &PayDirectVerifier{
		BaseURL: defaultPayDirectBaseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type payDirectStatusResponse struct {
	ResponseCode string  `json:"ResponseCode"`
	Status       string  `json:"Status"`
	Amount       float64 `json:"Amount"`
}

// Verify implements Verifier.
func (p *PayDirectVerifier) Verify(ctx context.Context, reference string) (Result, error) {
	if reference == "" {
		return Result{}, nil
	}

	url := fmt.Sprintf("%s/transactions/%s", strings.TrimRight(p.BaseURL, "/"), reference)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{}, fmt.Errorf("%w: building paydirect request: %v", models.ErrVerificationUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+p.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		log.Printf("[Payment] paydirect lookup failed for %s: %v", reference, err)
		return Result{}, fmt.Errorf("%w: paydirect unreachable: %v", models.ErrVerificationUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return Result{}, fmt.Errorf("%w: paydirect returned %d", models.ErrVerificationUnavailable, resp.StatusCode)
	}
	if resp.StatusCode == http.StatusNotFound {
		return Result{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("%w: paydirect returned %d", models.ErrVerificationUnavailable, resp.StatusCode)
	}

	var body payDirectStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Result{}, fmt.Errorf("%w: decoding paydirect response: %v", models.ErrVerificationUnavailable, err)
	}

	if body.ResponseCode == "00" || strings.EqualFold(body.Status, "successful") {
		return Result{Verified: true, Amount: body.Amount}, nil
	}
	return Result{}, nil
}
