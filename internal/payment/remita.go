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

const defaultRemitaBaseURL = "https://login.remita.net/remita/exapp/api/v1/send/api/echannelsvc"

// RemitaVerifier checks RRR references against the Remita e-channel status
// API. A single bounded request per call, no retries.
type RemitaVerifier struct {
	BaseURL    string
	APIKey     string
	MerchantID string
	Client     *http.Client
}

// NewRemitaVerifier creates a live Remita verifier.
func NewRemitaVerifier(apiKey, merchantID string) *RemitaVerifier {
	return &RemitaVerifier{
		BaseURL:    defaultRemitaBaseURL,
		APIKey:     apiKey,
		MerchantID: merchantID,
		Client:     &http.Client{Timeout: 10 * time.Second},
	}
}

type remitaStatusResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Amount  float64 `json:"amount"`
}

// Verify implements Verifier.
func (r *RemitaVerifier) Verify(ctx context.Context, reference string) (Result, error) {
	if reference == "" {
		return Result{}, nil
	}

	url := fmt.Sprintf("%s/%s/%s/status.reg", strings.TrimRight(r.BaseURL, "/"), r.MerchantID, reference)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{}, fmt.Errorf("%w: building remita request: %v", models.ErrVerificationUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+r.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := r.Client.Do(req)
	if err != nil {
		log.Printf("[Payment] remita lookup failed for %s: %v", reference, err)
		return Result{}, fmt.Errorf("%w: remita unreachable: %v", models.ErrVerificationUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return Result{}, fmt.Errorf("%w: remita returned %d", models.ErrVerificationUnavailable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		// The gateway answered and rejected the reference.
		return Result{}, nil
	}

	var body remitaStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Result{}, fmt.Errorf("%w: decoding remita response: %v", models.ErrVerificationUnavailable, err)
	}

	// "00" and "01" are Remita's settled-transaction codes.
	if body.Status == "00" || body.Status == "01" {
		return Result{Verified: true, Amount: body.Amount}, nil
	}
	return Result{}, nil
}
