package game

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager(t *testing.T) {
	m := NewManager[int64]()
	s := ResumeSession(newScriptedSource(), Deck{ID: "d"})

	assert.Nil(t, m.Get(1))
	m.Set(1, s)
	assert.Same(t, s, m.Get(1))
	assert.Equal(t, 1, m.Len())

	m.Delete(1)
	assert.Nil(t, m.Get(1))
	assert.Zero(t, m.Len())
}

func TestManagerSetIfAbsent(t *testing.T) {
	m := NewManager[int64]()
	first := ResumeSession(newScriptedSource(), Deck{ID: "first"})
	second := ResumeSession(newScriptedSource(), Deck{ID: "second"})

	assert.True(t, m.SetIfAbsent(1, first))
	assert.False(t, m.SetIfAbsent(1, second))
	assert.Same(t, first, m.Get(1))
}

func TestManagerAcquire(t *testing.T) {
	m := NewManager[string]()
	s := ResumeSession(newScriptedSource(), Deck{ID: "d"})

	_, _, err := m.Acquire("missing")
	assert.ErrorIs(t, err, ErrNoSession)

	m.Set("a", s)
	got, release, err := m.Acquire("a")
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, _, err = m.Acquire("a")
	assert.ErrorIs(t, err, ErrBusy)

	release()
	release()

	_, release, err = m.Acquire("a")
	require.NoError(t, err)
	release()
}

func TestManagerAcquireIsExclusive(t *testing.T) {
	m := NewManager[int]()
	m.Set(7, ResumeSession(newScriptedSource(), Deck{ID: "d"}))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		acquired int
	)
	releases := make(chan func(), 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, release, err := m.Acquire(7)
			if err != nil {
				return
			}
			mu.Lock()
			acquired++
			mu.Unlock()
			releases <- release
		}()
	}
	wg.Wait()
	close(releases)

	assert.Equal(t, 1, acquired)
	for release := range releases {
		release()
	}
}

func TestManagerSetReplacesBusySession(t *testing.T) {
	m := NewManager[int]()
	m.Set(1, ResumeSession(newScriptedSource(), Deck{ID: "old"}))

	_, release, err := m.Acquire(1)
	require.NoError(t, err)

	fresh := ResumeSession(newScriptedSource(), Deck{ID: "new"})
	m.Set(1, fresh)

	got, release2, err := m.Acquire(1)
	require.NoError(t, err)
	assert.Same(t, fresh, got)

	release()
	_, _, err = m.Acquire(1)
	assert.ErrorIs(t, err, ErrBusy, "releasing the replaced table must not free the new one")
	release2()
}

func TestManagerViewWhileBusy(t *testing.T) {
	m := NewManager[string]()
	src := newScriptedSource("AS", "8H", "7D", "9C")
	m.Set("a", ResumeSession(src, Deck{ID: "d", Remaining: 52}))

	_, err := m.View("missing")
	assert.ErrorIs(t, err, ErrNoSession)

	s, release, err := m.Acquire("a")
	require.NoError(t, err)
	require.NoError(t, s.Deal(context.Background()))

	v, err := m.View("a")
	require.NoError(t, err, "reading a busy session must not fail")
	assert.Equal(t, NotStarted, v.State, "the snapshot is the last released state")

	release()

	v, err = m.View("a")
	require.NoError(t, err)
	assert.Equal(t, InProgress, v.State)
	assert.Equal(t, 19, v.PlayerScore)
}
