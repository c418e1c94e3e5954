/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Score struct {
	Wins   int
	Losses int
}

// PlayerManager tracks connected clients and per-player tallies.
type PlayerManager struct {
	mu          sync.Mutex
	clients     map[*Client]struct{}
	scores      map[string]*Score
	idleTimeout time.Duration
}

func newPlayerManager(idleTimeout time.Duration) *PlayerManager {
	pm := &PlayerManager{
		clients:     make(map[*Client]struct{}),
		scores:      make(map[string]*Score),
		idleTimeout: idleTimeout,
	}
	if idleTimeout > 0 {
		go pm.reaperLoop()
	}
	return pm
}

func (pm *PlayerManager) add(c *Client) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.clients[c] = struct{}{}
}

func (pm *PlayerManager) remove(c *Client) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	delete(pm.clients, c)
}

func (pm *PlayerManager) connected() int {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	return len(pm.clients)
}

// record adds a round result for playerID and returns the updated tally.
func (pm *PlayerManager) record(playerID string, won bool) Score {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	s, ok := pm.scores[playerID]
	if !ok {
		s = &Score{}
		pm.scores[playerID] = s
	}

	if won {
		s.Wins++
	} else {
		s.Losses++
	}

	return *s
}

// reap disconnects clients idle since before cutoff and returns how many
// were closed.
func (pm *PlayerManager) reap(cutoff time.Time) int {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	reaped := 0
	for c := range pm.clients {
		if c.idleSince().Before(cutoff) {
			delete(pm.clients, c)
			_ = c.conn.Close()
			reaped++
		}
	}

	return reaped
}

// reaperLoop periodically disconnects clients idle longer than idleTimeout.
func (pm *PlayerManager) reaperLoop() {
	ticker := time.NewTicker(pm.idleTimeout / 2)
	for range ticker.C {
		pm.reap(time.Now().Add(-pm.idleTimeout))
	}
}

func getOrSetPlayerID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(playerCookieName); err == nil && c.Value != "" {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}

	id := uuid.NewString()

	http.SetCookie(w, &http.Cookie{
		Name:     playerCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return id
}
