/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

import (
	"context"
	"strings"

	"github.com/Seednode/futguesser/internal/catalog"
	"golang.org/x/text/unicode/norm"
)

// Sampler produces count distinct teams.
type Sampler interface {
	Acquire(ctx context.Context, count int) ([]catalog.Team, error)
}

// Session holds the teams offered in a single round.
type Session struct {
	sampler Sampler
	options int
	rand    Rand

	teams []catalog.Team
}

func NewSession(sampler Sampler, options int, r Rand) *Session {
	if options <= 0 {
		options = DefaultOptions
	}
	if r == nil {
		r = DefaultRand
	}

	return &Session{
		sampler: sampler,
		options: options,
		rand:    r,
	}
}

// Begin samples the round's teams. It blocks until all options are found.
func (s *Session) Begin(ctx context.Context) error {
	teams, err := s.sampler.Acquire(ctx, s.options)
	if err != nil {
		return err
	}

	s.teams = teams

	return nil
}

// PickAnswer returns one of the options at random. Begin must have
// completed; on an empty session it panics.
func (s *Session) PickAnswer() catalog.Team {
	return Pick(s.teams, s.rand)
}

func (s *Session) Options() []catalog.Team {
	return s.teams
}

// IsCorrect reports whether guess names the answer, ignoring surrounding
// whitespace and differences in Unicode composition.
func IsCorrect(answer, guess string) bool {
	return norm.NFC.String(strings.TrimSpace(answer)) == norm.NFC.String(strings.TrimSpace(guess))
}
