package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/Seednode/futguesser/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequence yields 1, 2, 3, ... regardless of n.
type sequence struct {
	next int
}

func (s *sequence) IntN(int) int {
	s.next++

	return s.next
}

type fixedRand int

func (f fixedRand) IntN(int) int {
	return int(f)
}

var errNoTeam = errors.New("no such team")

type fakeCatalog struct {
	mu    sync.Mutex
	teams map[int]string
	calls []int
}

func (f *fakeCatalog) Team(_ context.Context, id int) (catalog.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, id)

	name, ok := f.teams[id]
	if !ok {
		return catalog.Team{}, &catalog.StatusError{ID: id, Code: 404, Status: "404 Not Found"}
	}

	return catalog.Team{ID: id, Name: name, Crest: fmt.Sprintf("https://crests.test/%d.png", id)}, nil
}

// evenFails fails every even id and names odd ids after themselves.
type evenFails struct{}

func (evenFails) Team(_ context.Context, id int) (catalog.Team, error) {
	if id%2 == 0 {
		return catalog.Team{}, errNoTeam
	}

	return catalog.Team{ID: id, Name: fmt.Sprintf("team-%d", id)}, nil
}

func names(teams []catalog.Team) []string {
	out := make([]string, 0, len(teams))
	for _, t := range teams {
		out = append(out, t.Name)
	}

	return out
}

func TestAcquireSkipsDuplicatesAndFailures(t *testing.T) {
	cat := &fakeCatalog{teams: map[int]string{1: "A", 2: "A", 3: "B"}}
	a := &Acquirer{Catalog: cat, Rand: &sequence{}}

	teams, err := a.Acquire(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, names(teams))
	assert.Equal(t, []int{1, 2, 3}, cat.calls)
}

func TestAcquireRetriesFailures(t *testing.T) {
	cat := &fakeCatalog{teams: map[int]string{4: "D", 5: "E"}}

	var logged int
	a := &Acquirer{
		Catalog: cat,
		Rand:    &sequence{},
		Logf:    func(string, ...any) { logged++ },
	}

	teams, err := a.Acquire(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"D", "E"}, names(teams))
	assert.Equal(t, 3, logged)
}

func TestAcquireUniqueWithFailingEvenIDs(t *testing.T) {
	a := &Acquirer{
		Catalog:     evenFails{},
		Rand:        rand.New(rand.NewPCG(1, 2)),
		MaxID:       100,
		MaxAttempts: 10000,
	}

	for _, n := range []int{1, 3, 10, 25} {
		teams, err := a.Acquire(context.Background(), n)
		require.NoError(t, err)
		require.Len(t, teams, n)

		seen := make(map[string]bool)
		for _, team := range teams {
			assert.False(t, seen[team.Name], "duplicate %s", team.Name)
			assert.Equal(t, 1, team.ID%2)
			seen[team.Name] = true
		}
	}
}

func TestAcquireZero(t *testing.T) {
	teams, err := (&Acquirer{Catalog: evenFails{}}).Acquire(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, teams)
}

func TestAcquireBounded(t *testing.T) {
	cat := &fakeCatalog{teams: map[int]string{7: "Only"}}
	a := &Acquirer{Catalog: cat, Rand: fixedRand(7), MaxAttempts: 5}

	_, err := a.Acquire(context.Background(), 2)
	require.ErrorIs(t, err, ErrInsufficientTeams)
	assert.ErrorContains(t, err, "found 1 of 2 after 5 attempts")
	assert.Len(t, cat.calls, 5)
}

func TestAcquireCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	a := &Acquirer{Catalog: &fakeCatalog{}, Rand: &sequence{}}

	_, err := a.Acquire(ctx, 1)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSession(t *testing.T) {
	a := &Acquirer{Catalog: evenFails{}, Rand: rand.New(rand.NewPCG(3, 4)), MaxID: 50}
	s := NewSession(a, 3, rand.New(rand.NewPCG(5, 6)))

	require.NoError(t, s.Begin(context.Background()))
	require.Len(t, s.Options(), 3)

	for range 50 {
		assert.Contains(t, s.Options(), s.PickAnswer())
	}
}

func TestSessionDefaults(t *testing.T) {
	a := &Acquirer{Catalog: evenFails{}, MaxID: 50}
	s := NewSession(a, 0, nil)

	require.NoError(t, s.Begin(context.Background()))
	assert.Len(t, s.Options(), DefaultOptions)
}

func TestSessionBeginError(t *testing.T) {
	a := &Acquirer{Catalog: &fakeCatalog{}, Rand: &sequence{}, MaxAttempts: 3}
	s := NewSession(a, 2, nil)

	require.ErrorIs(t, s.Begin(context.Background()), ErrInsufficientTeams)
	assert.Empty(t, s.Options())
}

func TestPickAnswerBeforeBeginPanics(t *testing.T) {
	s := NewSession(&Acquirer{Catalog: evenFails{}}, 2, nil)

	assert.Panics(t, func() { s.PickAnswer() })
}

func TestPick(t *testing.T) {
	seq := []string{"a", "b", "c"}

	assert.Equal(t, "a", Pick(seq, fixedRand(0)))
	assert.Equal(t, "c", Pick(seq, fixedRand(2)))
	assert.Panics(t, func() { Pick([]string{}, DefaultRand) })
}

func TestIsCorrect(t *testing.T) {
	assert.True(t, IsCorrect("Arsenal FC", "Arsenal FC"))
	assert.True(t, IsCorrect("Arsenal FC", "  Arsenal FC "))
	assert.True(t, IsCorrect("Club Atl\u00e9tico de Madrid", "Club Atle\u0301tico de Madrid"))
	assert.False(t, IsCorrect("Arsenal FC", "Chelsea FC"))
}
