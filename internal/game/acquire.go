/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package game builds quiz rounds from teams sampled out of a catalog.
package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/Seednode/futguesser/internal/catalog"
)

const (
	DefaultMaxID   = 1000
	DefaultOptions = 2
)

var ErrInsufficientTeams = errors.New("not enough distinct teams")

// Catalog resolves a candidate id to a team.
type Catalog interface {
	Team(ctx context.Context, id int) (catalog.Team, error)
}

// Acquirer collects distinct teams by probing random ids in [0, MaxID).
type Acquirer struct {
	Catalog Catalog
	Rand    Rand
	MaxID   int
	// MaxAttempts bounds the number of probes. Zero probes until the
	// target is met or ctx is done.
	MaxAttempts int
	Logf        func(format string, args ...any)
}

// Acquire returns exactly count teams with distinct names, in the order
// they were found. Probes run one at a time; a failed probe is logged and
// another id is drawn.
func (a *Acquirer) Acquire(ctx context.Context, count int) ([]catalog.Team, error) {
	r := a.Rand
	if r == nil {
		r = DefaultRand
	}

	maxID := a.MaxID
	if maxID <= 0 {
		maxID = DefaultMaxID
	}

	logf := a.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	teams := make([]catalog.Team, 0, max(count, 0))
	seen := make(map[string]struct{}, max(count, 0))

	for attempts := 0; len(teams) < count; attempts++ {
		if a.MaxAttempts > 0 && attempts >= a.MaxAttempts {
			return nil, fmt.Errorf("%w: found %d of %d after %d attempts",
				ErrInsufficientTeams, len(teams), count, attempts)
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		id := r.IntN(maxID)

		team, err := a.Catalog.Team(ctx, id)
		if err != nil {
			logf("GAMES: Skipping team %d: %v", id, err)

			continue
		}

		if _, ok := seen[team.Name]; ok {
			continue
		}

		seen[team.Name] = struct{}{}
		teams = append(teams, team)
	}

	return teams, nil
}
