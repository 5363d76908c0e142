package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sihwankim2023/kd-boiler-checker/catalog"
	"github.com/sihwankim2023/kd-boiler-checker/selector"
	"github.com/sihwankim2023/kd-boiler-checker/wizard"
)

func newStore(ttl time.Duration) *Store {
	sel := selector.New(catalog.Default())
	return NewStore(func() *wizard.Wizard { return wizard.New(sel) }, ttl, zap.NewNop())
}

func TestStore_CreateAndWith(t *testing.T) {
	s := newStore(time.Hour)
	a := s.Create()
	b := s.Create()
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Exists(a))

	require.NoError(t, s.With(a, func(w *wizard.Wizard) error {
		return w.Qualify(wizard.Qualifications[0])
	}))
	require.NoError(t, s.With(b, func(w *wizard.Wizard) error {
		assert.Equal(t, wizard.StateQualification, w.State())
		return nil
	}))
	require.NoError(t, s.With(a, func(w *wizard.Wizard) error {
		assert.Equal(t, wizard.StateProductSelection, w.State())
		return nil
	}))
}

func TestStore_WithReturnsError(t *testing.T) {
	s := newStore(time.Hour)
	id := s.Create()

	err := s.With(id, func(w *wizard.Wizard) error {
		return w.Qualify(wizard.NoQualification)
	})
	var blocked *wizard.Blocked
	assert.True(t, errors.As(err, &blocked))

	err = s.With("missing", func(*wizard.Wizard) error { return nil })
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStore_Delete(t *testing.T) {
	s := newStore(time.Hour)
	id := s.Create()
	s.Delete(id)
	assert.False(t, s.Exists(id))
	assert.Equal(t, 0, s.Len())
}

func TestStore_Sweep(t *testing.T) {
	s := newStore(time.Minute)
	now := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	idle := s.Create()
	now = now.Add(50 * time.Second)
	active := s.Create()
	now = now.Add(20 * time.Second)
	require.NoError(t, s.With(active, func(*wizard.Wizard) error { return nil }))

	assert.Equal(t, 1, s.Sweep())
	assert.False(t, s.Exists(idle))
	assert.True(t, s.Exists(active))

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 0, s.Len())
}

func TestStore_SerialisesInteractions(t *testing.T) {
	s := newStore(time.Hour)
	id := s.Create()

	count := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.With(id, func(*wizard.Wizard) error {
				count++
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, count)
}

func TestStore_RunStopsWithContext(t *testing.T) {
	s := newStore(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
