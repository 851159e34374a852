package services

import (
	"context"
	"errors"
	"log"

	"birs-backend/internal/cache"
	"birs-backend/internal/metrics"
	"birs-backend/internal/models"
	"birs-backend/internal/payment"
	"birs-backend/internal/reporting"
	"birs-backend/internal/timeutil"
)

// EntryStore is the slice of the tax entry repository the service needs.
type EntryStore interface {
	Create(ctx context.Context, e *models.TaxEntry) error
	Get(ctx context.Context, id int) (*models.TaxEntry, error)
	FindByReference(ctx context.Context, reference string) (*models.TaxEntry, error)
	List(ctx context.Context, f reporting.EntryFilter) ([]*models.TaxEntry, error)
	UpdateVerification(ctx context.Context, e *models.TaxEntry) error
	DeleteIfUnverified(ctx context.Context, id int) error
}

type EntryService struct {
	entries   EntryStore
	verifiers payment.Verifiers
}

func NewEntryService(entries EntryStore, verifiers payment.Verifiers) *EntryService {
	return &EntryService{entries: entries, verifiers: verifiers}
}

// Submit verifies the supplied references with the gateways and stores the
// entry. The pre-insert duplicate lookup gives a friendly error early; the
// unique index catches the race either way. When a gateway cannot be
// reached the submission is rejected rather than stored unverified.
func (s *EntryService) Submit(ctx context.Context, userID int, req *models.SubmitEntryRequest) (*models.TaxEntry, error) {
	if req.RRR == "" && req.PayDirectRef == "" {
		return nil, errors.New("at least one payment reference is required")
	}

	for _, ref := range []string{req.RRR, req.PayDirectRef} {
		if ref == "" {
			continue
		}
		if _, err := s.entries.FindByReference(ctx, ref); err == nil {
			metrics.EntriesSubmitted.WithLabelValues("duplicate").Inc()
			return nil, models.ErrDuplicateReference
		} else if !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
	}

	now := timeutil.Now()
	entry := &models.TaxEntry{
		TaxItem:      req.TaxItem,
		Subhead:      req.Subhead,
		RRR:          req.RRR,
		PayDirectRef: req.PayDirectRef,
		UploadedBy:   userID,
		Data:         req.Data,
		DateUploaded: now,
		Month:        int(now.Month()),
		Year:         now.Year(),
	}

	if req.RRR != "" {
		result, err := s.verifiers.Remita.Verify(ctx, req.RRR)
		if err != nil {
			metrics.VerificationCalls.WithLabelValues("remita", "unavailable").Inc()
			metrics.EntriesSubmitted.WithLabelValues("rejected").Inc()
			return nil, err
		}
		metrics.VerificationCalls.WithLabelValues("remita", verifyOutcome(result)).Inc()
		entry.RRRVerified = result.Verified
		entry.RRRAmount = result.Amount
	}
	if req.PayDirectRef != "" {
		result, err := s.verifiers.PayDirect.Verify(ctx, req.PayDirectRef)
		if err != nil {
			metrics.VerificationCalls.WithLabelValues("paydirect", "unavailable").Inc()
			metrics.EntriesSubmitted.WithLabelValues("rejected").Inc()
			return nil, err
		}
		metrics.VerificationCalls.WithLabelValues("paydirect", verifyOutcome(result)).Inc()
		entry.PayDirectVerified = result.Verified
		entry.PayDirectAmount = result.Amount
	}

	if err := s.entries.Create(ctx, entry); err != nil {
		if errors.Is(err, models.ErrDuplicateReference) {
			metrics.EntriesSubmitted.WithLabelValues("duplicate").Inc()
		}
		return nil, err
	}

	metrics.EntriesSubmitted.WithLabelValues("accepted").Inc()
	cache.InvalidateDashboards(ctx)
	log.Printf("[Entry] user %d submitted entry %d (%s)", userID, entry.ID, entry.TaxItem)
	return entry, nil
}

func verifyOutcome(r payment.Result) string {
	if r.Verified {
		return "verified"
	}
	return "unverified"
}

// Reverify re-checks both references on an existing entry and persists the
// outcome. The gateway answer replaces the stored flag and amount on each
// channel, so a reference the gateway no longer recognises is downgraded.
func (s *EntryService) Reverify(ctx context.Context, id int) (*models.TaxEntry, error) {
	entry, err := s.entries.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if entry.RRR != "" {
		result, err := s.verifiers.Remita.Verify(ctx, entry.RRR)
		if err != nil {
			return nil, err
		}
		entry.RRRVerified = result.Verified
		entry.RRRAmount = result.Amount
	}
	if entry.PayDirectRef != "" {
		result, err := s.verifiers.PayDirect.Verify(ctx, entry.PayDirectRef)
		if err != nil {
			return nil, err
		}
		entry.PayDirectVerified = result.Verified
		entry.PayDirectAmount = result.Amount
	}

	if err := s.entries.UpdateVerification(ctx, entry); err != nil {
		return nil, err
	}
	cache.InvalidateDashboards(ctx)
	return entry, nil
}

// Delete removes an entry. Agents may only delete their own unverified
// entries; a verified entry is immutable for everyone.
func (s *EntryService) Delete(ctx context.Context, id, userID int, role string) error {
	entry, err := s.entries.Get(ctx, id)
	if err != nil {
		return err
	}
	if role != models.RoleAdmin && entry.UploadedBy != userID {
		return models.ErrNotFound
	}
	if err := s.entries.DeleteIfUnverified(ctx, id); err != nil {
		return err
	}
	cache.InvalidateDashboards(ctx)
	log.Printf("[Entry] user %d deleted entry %d", userID, id)
	return nil
}

// Get returns one entry, restricted to the owner for agent roles.
func (s *EntryService) Get(ctx context.Context, id, userID int, role string) (*models.TaxEntry, error) {
	entry, err := s.entries.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.ManagementRole(role) && entry.UploadedBy != userID {
		return nil, models.ErrNotFound
	}
	return entry, nil
}

// List returns entries visible to the caller. Non-management users see only
// their own uploads whatever the filter says.
func (s *EntryService) List(ctx context.Context, userID int, role string, f reporting.EntryFilter) ([]*models.TaxEntry, error) {
	if !models.ManagementRole(role) {
		f.UploaderID = userID
	}
	return s.entries.List(ctx, f)
}
