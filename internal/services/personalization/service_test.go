package personalization

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/bobmcallan/finbot/internal/common"
	"github.com/bobmcallan/finbot/internal/models"
	"github.com/bobmcallan/finbot/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (*Service, *memory.ProfileStorage) {
	store := memory.NewProfileStorage()
	return NewService(store, common.NewSilentLogger()), store
}

// --- Mock storage ---

type failingStorage struct {
	err error
}

func (f *failingStorage) GetProfile(_ context.Context, _ string) (*models.UserProfile, error) {
	return nil, f.err
}
func (f *failingStorage) SaveProfile(_ context.Context, _ *models.UserProfile) error { return f.err }
func (f *failingStorage) DeleteProfile(_ context.Context, _ string) error            { return f.err }
func (f *failingStorage) ListProfiles(_ context.Context) ([]*models.UserProfile, error) {
	return nil, f.err
}

func TestGetMode_UnknownUserDefaultsWithoutCreating(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	mode, err := svc.GetMode(ctx, "new-user")
	require.NoError(t, err)
	assert.Equal(t, models.ModeNormal, mode)

	_, err = store.GetProfile(ctx, "new-user")
	assert.True(t, errors.Is(err, models.ErrProfileNotFound), "GetMode must not create a profile")

	// First feedback starts from a fresh profile
	_, err = svc.RecordFeedback(ctx, "new-user", models.SignalStruggle)
	require.NoError(t, err)
	p, err := svc.GetProfile(ctx, "new-user")
	require.NoError(t, err)
	assert.Equal(t, 1, p.StruggleCount)
}

func TestRecordFeedback_Struggle(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		mode, err := svc.RecordFeedback(ctx, "u", models.SignalStruggle)
		require.NoError(t, err)
		assert.Equal(t, models.ModeBeginner, mode)

		p, _ := svc.GetProfile(ctx, "u")
		assert.Equal(t, i, p.StruggleCount)
	}

	mode, err := svc.RecordFeedback(ctx, "u", models.SignalConfident)
	require.NoError(t, err)
	assert.Equal(t, models.ModeNormal, mode)

	p, _ := svc.GetProfile(ctx, "u")
	assert.Equal(t, 0, p.StruggleCount)
	assert.Equal(t, models.ModeNormal, p.Mode)
}

func TestRecordFeedback_ConfidentFromScratch(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	mode, err := svc.RecordFeedback(ctx, "u", models.SignalConfident)
	require.NoError(t, err)
	assert.Equal(t, models.ModeNormal, mode)

	p, err := svc.GetProfile(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, 0, p.StruggleCount)
}

func TestRecordFeedback_UnknownSignalIsNoOp(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	mode, err := svc.RecordFeedback(ctx, "u", models.ParseSignal("meh"))
	require.NoError(t, err)
	assert.Equal(t, models.ModeNormal, mode)
	_, err = store.GetProfile(ctx, "u")
	assert.True(t, errors.Is(err, models.ErrProfileNotFound))

	_, err = svc.RecordFeedback(ctx, "u", models.SignalStruggle)
	require.NoError(t, err)

	mode, err = svc.RecordFeedback(ctx, "u", models.SignalUnknown)
	require.NoError(t, err)
	assert.Equal(t, models.ModeBeginner, mode)
	p, _ := svc.GetProfile(ctx, "u")
	assert.Equal(t, 1, p.StruggleCount)
}

func TestRecordFeedbackString_Aliases(t *testing.T) {
	tests := []struct {
		raw   string
		mode  models.Mode
		count int
	}{
		{"switch_beginner", models.ModeBeginner, 1},
		{"too_hard", models.ModeBeginner, 2},
		{"STRUGGLE", models.ModeBeginner, 3},
		{"too_easy", models.ModeNormal, 0},
		{"too_hard", models.ModeBeginner, 1},
		{"switch_normal", models.ModeNormal, 0},
	}

	svc, _ := newTestService()
	ctx := context.Background()
	for _, tt := range tests {
		mode, err := svc.RecordFeedbackString(ctx, "alias-user", tt.raw)
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.mode, mode, tt.raw)
		p, _ := svc.GetProfile(ctx, "alias-user")
		assert.Equal(t, tt.count, p.StruggleCount, tt.raw)
	}
}

func TestCheckStruggle(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	mode, hit, err := svc.CheckStruggle(ctx, "u", nil)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, models.Mode(""), mode)

	_, hit, _ = svc.CheckStruggle(ctx, "u", []string{"what is a bond"})
	assert.False(t, hit)
	m, _ := svc.GetMode(ctx, "u")
	assert.Equal(t, models.ModeNormal, m)

	mode, hit, err = svc.CheckStruggle(ctx, "u", []string{"Please EXPLAIN SIMPLY what a bond is"})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, models.ModeBeginner, mode)

	_, hit, _ = svc.CheckStruggle(ctx, "u", []string{"I don't understand inflation"})
	assert.True(t, hit)
	p, _ := svc.GetProfile(ctx, "u")
	assert.Equal(t, 2, p.StruggleCount)
}

func TestCheckStruggle_OnlyLatestQuestion(t *testing.T) {
	svc, _ := newTestService()

	_, hit, err := svc.CheckStruggle(context.Background(), "u", []string{"i don't understand", "what is tax"})
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestResetProfile(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, _ = svc.RecordFeedback(ctx, "u", models.SignalStruggle)
	require.NoError(t, svc.ResetProfile(ctx, "u"))

	m, err := svc.GetMode(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, models.ModeNormal, m)
}

func TestStorageErrorsPropagate(t *testing.T) {
	boom := errors.New("disk on fire")
	svc := NewService(&failingStorage{err: boom}, common.NewSilentLogger())
	ctx := context.Background()

	mode, err := svc.GetMode(ctx, "u")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, models.ModeNormal, mode)

	_, err = svc.RecordFeedback(ctx, "u", models.SignalStruggle)
	assert.ErrorIs(t, err, boom)

	_, hit, err := svc.CheckStruggle(ctx, "u", []string{"explain simply"})
	assert.True(t, hit)
	assert.ErrorIs(t, err, boom)
}

func TestRecordFeedback_ConcurrentSameUser(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.RecordFeedback(ctx, "busy", models.SignalStruggle)
		}()
	}
	wg.Wait()

	p, err := svc.GetProfile(ctx, "busy")
	require.NoError(t, err)
	assert.Equal(t, n, p.StruggleCount)
	assert.Equal(t, models.ModeBeginner, p.Mode)
}

func TestLockUser_EntriesReleased(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = svc.RecordFeedback(ctx, "shared", models.SignalStruggle)
		}()
		go func(i int) {
			defer wg.Done()
			_, _ = svc.RecordFeedback(ctx, fmt.Sprintf("user-%d", i), models.SignalConfident)
		}(i)
	}
	wg.Wait()
	require.NoError(t, svc.ResetProfile(ctx, "shared"))

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Empty(t, svc.locks, "lock entries must not outlive their holders")
}

func TestApplyFeedback_ReturnsSnapshotUnderLock(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	const n = 40
	counts := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := svc.ApplyFeedback(ctx, "racer", models.SignalStruggle)
			if assert.NoError(t, err) {
				assert.Equal(t, models.ModeBeginner, p.Mode)
				counts <- p.StruggleCount
			}
		}()
	}
	wg.Wait()
	close(counts)

	seen := make(map[int]bool, n)
	for c := range counts {
		assert.False(t, seen[c], "struggle count %d reported twice", c)
		seen[c] = true
	}
	assert.Len(t, seen, n)
	for i := 1; i <= n; i++ {
		assert.True(t, seen[i], "missing struggle count %d", i)
	}
}

func TestApplyFeedback_UnknownSignalReturnsUnsavedDefault(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	p, err := svc.ApplyFeedback(ctx, "ghost", models.SignalUnknown)
	require.NoError(t, err)
	assert.Equal(t, models.ModeNormal, p.Mode)
	assert.Equal(t, 0, p.StruggleCount)

	_, err = store.GetProfile(ctx, "ghost")
	assert.ErrorIs(t, err, models.ErrProfileNotFound)
}

func TestApplyFeedback_SnapshotIsIndependent(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p, err := svc.ApplyFeedback(ctx, "u", models.SignalStruggle)
	require.NoError(t, err)
	p.StruggleCount = 99

	stored, err := svc.GetProfile(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.StruggleCount)
}
