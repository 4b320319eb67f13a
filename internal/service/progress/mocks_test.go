package progress

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/roadsigns-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Manual mocks (moq-style with func fields)
// ---------------------------------------------------------------------------

type activityRepoMock struct {
	InsertFunc          func(ctx context.Context, ev domain.ActivityEvent) (*domain.ActivityEvent, error)
	ListFunc            func(ctx context.Context, userID uuid.UUID, f domain.ActivityFilter) ([]domain.ActivityEvent, error)
	DistinctDetailsFunc func(ctx context.Context, userID uuid.UUID, typ domain.ActivityType, from, to *time.Time) ([]string, error)
	ExistsOnDayFunc     func(ctx context.Context, userID uuid.UUID, typ domain.ActivityType, details string, from, to time.Time) (bool, error)

	mu      sync.Mutex
	inserts []domain.ActivityEvent
	lists   []domain.ActivityFilter
}

func (m *activityRepoMock) Insert(ctx context.Context, ev domain.ActivityEvent) (*domain.ActivityEvent, error) {
	m.mu.Lock()
	m.inserts = append(m.inserts, ev)
	m.mu.Unlock()
	if m.InsertFunc == nil {
		return &ev, nil
	}
	return m.InsertFunc(ctx, ev)
}

func (m *activityRepoMock) List(ctx context.Context, userID uuid.UUID, f domain.ActivityFilter) ([]domain.ActivityEvent, error) {
	m.mu.Lock()
	m.lists = append(m.lists, f)
	m.mu.Unlock()
	if m.ListFunc == nil {
		return nil, nil
	}
	return m.ListFunc(ctx, userID, f)
}

func (m *activityRepoMock) DistinctDetails(ctx context.Context, userID uuid.UUID, typ domain.ActivityType, from, to *time.Time) ([]string, error) {
	if m.DistinctDetailsFunc == nil {
		return nil, nil
	}
	return m.DistinctDetailsFunc(ctx, userID, typ, from, to)
}

func (m *activityRepoMock) ExistsOnDay(ctx context.Context, userID uuid.UUID, typ domain.ActivityType, details string, from, to time.Time) (bool, error) {
	if m.ExistsOnDayFunc == nil {
		return false, nil
	}
	return m.ExistsOnDayFunc(ctx, userID, typ, details, from, to)
}

func (m *activityRepoMock) InsertCalls() []domain.ActivityEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ActivityEvent(nil), m.inserts...)
}

func (m *activityRepoMock) ListCalls() []domain.ActivityFilter {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ActivityFilter(nil), m.lists...)
}

// progressRepoFake keeps one snapshot per user and applies the same
// best-score rule as the database.
type progressRepoFake struct {
	mu        sync.Mutex
	rows      map[uuid.UUID]domain.ProgressSnapshot
	UpsertErr error
}

func newProgressRepoFake() *progressRepoFake {
	return &progressRepoFake{rows: make(map[uuid.UUID]domain.ProgressSnapshot)}
}

func (f *progressRepoFake) Get(_ context.Context, userID uuid.UUID) (*domain.ProgressSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.rows[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (f *progressRepoFake) Upsert(_ context.Context, s domain.ProgressSnapshot) (*domain.ProgressSnapshot, error) {
	if f.UpsertErr != nil {
		return nil, f.UpsertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	old := f.rows[s.UserID]
	s.Counters = old.Counters.Merge(s.Counters)
	f.rows[s.UserID] = s
	return &s, nil
}

func (f *progressRepoFake) RecordTestResult(_ context.Context, userID uuid.UUID, percent int, at time.Time) (*domain.ProgressSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.rows[userID]
	s.UserID = userID
	s.TestsCompleted++
	s.BestScore = max(s.BestScore, percent)
	s.UpdatedAt = at
	f.rows[userID] = s
	return &s, nil
}

type signRepoMock struct {
	CountFunc   func(ctx context.Context) (int, error)
	GetByIDFunc func(ctx context.Context, id string) (*domain.TrafficSign, error)
}

func (m *signRepoMock) Count(ctx context.Context) (int, error) {
	if m.CountFunc == nil {
		return 0, nil
	}
	return m.CountFunc(ctx)
}

func (m *signRepoMock) GetByID(ctx context.Context, id string) (*domain.TrafficSign, error) {
	if m.GetByIDFunc == nil {
		return &domain.TrafficSign{ID: id}, nil
	}
	return m.GetByIDFunc(ctx, id)
}

type userRepoMock struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

func (m *userRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFunc == nil {
		return &domain.User{ID: id, Timezone: "UTC"}, nil
	}
	return m.GetByIDFunc(ctx, id)
}

type favoritesCounterMock struct {
	FavoritesCountFunc func(ctx context.Context, userID uuid.UUID) (int, error)
}

func (m *favoritesCounterMock) FavoritesCount(ctx context.Context, userID uuid.UUID) (int, error) {
	if m.FavoritesCountFunc == nil {
		return 0, nil
	}
	return m.FavoritesCountFunc(ctx, userID)
}

type mockTxManager struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.RunInTxFunc != nil {
		return m.RunInTxFunc(ctx, fn)
	}
	return fn(ctx)
}
