package services

import (
	"context"

	"birs-backend/internal/models"
	"birs-backend/internal/payment"
	"birs-backend/internal/reporting"
)

// fakeEntryStore keeps entries in memory and applies filters the way the
// SQL layer does.
type fakeEntryStore struct {
	entries []*models.TaxEntry
	nextID  int
}

func (f *fakeEntryStore) Create(ctx context.Context, e *models.TaxEntry) error {
	for _, existing := range f.entries {
		if refCollision(existing, e) {
			return models.ErrDuplicateReference
		}
	}
	f.nextID++
	e.ID = f.nextID
	f.entries = append(f.entries, e)
	return nil
}

func refCollision(a, b *models.TaxEntry) bool {
	for _, ref := range []string{b.RRR, b.PayDirectRef} {
		if ref == "" {
			continue
		}
		if a.RRR == ref || a.PayDirectRef == ref {
			return true
		}
	}
	return false
}

func (f *fakeEntryStore) Get(ctx context.Context, id int) (*models.TaxEntry, error) {
	for _, e := range f.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeEntryStore) FindByReference(ctx context.Context, reference string) (*models.TaxEntry, error) {
	if reference == "" {
		return nil, models.ErrNotFound
	}
	for _, e := range f.entries {
		if e.RRR == reference || e.PayDirectRef == reference {
			return e, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeEntryStore) List(ctx context.Context, filter reporting.EntryFilter) ([]*models.TaxEntry, error) {
	return filter.Apply(f.entries), nil
}

func (f *fakeEntryStore) UpdateVerification(ctx context.Context, e *models.TaxEntry) error {
	for i, existing := range f.entries {
		if existing.ID == e.ID {
			f.entries[i] = e
			return nil
		}
	}
	return models.ErrNotFound
}

func (f *fakeEntryStore) DeleteIfUnverified(ctx context.Context, id int) error {
	for i, e := range f.entries {
		if e.ID == id {
			if e.Verified() {
				return models.ErrEntryVerified
			}
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

// fakeUserStore keeps users in memory.
type fakeUserStore struct {
	users  []*models.User
	nextID int
}

func (f *fakeUserStore) Create(ctx context.Context, u *models.User) error {
	for _, existing := range f.users {
		if existing.Username == u.Username {
			return models.ErrUsernameTaken
		}
	}
	f.nextID++
	u.ID = f.nextID
	f.users = append(f.users, u)
	return nil
}

func (f *fakeUserStore) Get(ctx context.Context, id int) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeUserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeUserStore) List(ctx context.Context) ([]*models.User, error) {
	return f.users, nil
}

func (f *fakeUserStore) ListByRole(ctx context.Context, role string) ([]*models.User, error) {
	var out []*models.User
	for _, u := range f.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserStore) Update(ctx context.Context, u *models.User) error {
	for i, existing := range f.users {
		if existing.ID == u.ID {
			f.users[i] = u
			return nil
		}
	}
	return models.ErrNotFound
}

func (f *fakeUserStore) Delete(ctx context.Context, id int) error {
	for i, u := range f.users {
		if u.ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

// fakePerformanceStore keeps targets, summaries and snapshots in memory.
type fakePerformanceStore struct {
	targets   map[int]*models.PerformanceTarget
	summaries []*models.PerformanceSummary
	snapshots map[[2]int]*models.MonthlyLeagueSnapshot
	nextID    int
}

func newFakePerformanceStore() *fakePerformanceStore {
	return &fakePerformanceStore{
		targets:   make(map[int]*models.PerformanceTarget),
		snapshots: make(map[[2]int]*models.MonthlyLeagueSnapshot),
	}
}

func (f *fakePerformanceStore) SetTarget(ctx context.Context, t *models.PerformanceTarget) error {
	f.nextID++
	t.ID = f.nextID
	f.targets[t.UserID] = t
	return nil
}

func (f *fakePerformanceStore) GetTarget(ctx context.Context, userID int) (*models.PerformanceTarget, error) {
	t, ok := f.targets[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return t, nil
}

func (f *fakePerformanceStore) TargetsByUser(ctx context.Context) (map[int]float64, error) {
	out := make(map[int]float64)
	for userID, t := range f.targets {
		out[userID] = t.TargetAmount
	}
	return out, nil
}

func (f *fakePerformanceStore) CreateSummary(ctx context.Context, s *models.PerformanceSummary) error {
	f.nextID++
	s.ID = f.nextID
	f.summaries = append(f.summaries, s)
	return nil
}

func (f *fakePerformanceStore) ListSummaries(ctx context.Context, userIDs []int) ([]*models.PerformanceSummary, error) {
	if len(userIDs) == 0 {
		return f.summaries, nil
	}
	want := make(map[int]bool)
	for _, id := range userIDs {
		want[id] = true
	}
	var out []*models.PerformanceSummary
	for _, s := range f.summaries {
		if want[s.UserID] {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakePerformanceStore) SaveSnapshot(ctx context.Context, s *models.MonthlyLeagueSnapshot) error {
	f.nextID++
	s.ID = f.nextID
	f.snapshots[[2]int{s.Month, s.Year}] = s
	return nil
}

func (f *fakePerformanceStore) GetSnapshot(ctx context.Context, month, year int) (*models.MonthlyLeagueSnapshot, error) {
	s, ok := f.snapshots[[2]int{month, year}]
	if !ok {
		return nil, models.ErrNotFound
	}
	return s, nil
}

func (f *fakePerformanceStore) ListSnapshots(ctx context.Context) ([]*models.MonthlyLeagueSnapshot, error) {
	var out []*models.MonthlyLeagueSnapshot
	for _, s := range f.snapshots {
		out = append(out, s)
	}
	return out, nil
}

// scriptedVerifier returns canned results per reference.
type scriptedVerifier struct {
	results map[string]payment.Result
	errs    map[string]error
	calls   int
}

func (v *scriptedVerifier) Verify(ctx context.Context, reference string) (payment.Result, error) {
	v.calls++
	if reference == "" {
		return payment.Result{}, nil
	}
	if err, ok := v.errs[reference]; ok {
		return payment.Result{}, err
	}
	return v.results[reference], nil
}
