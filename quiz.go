/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/Seednode/futguesser/internal/catalog"
	"github.com/Seednode/futguesser/internal/game"
	"github.com/Seednode/futguesser/internal/router"
	"github.com/julienschmidt/httprouter"
)

const (
	gamePage     = "/game.html"
	winnerPage   = "/winner.html"
	loserPage    = "/loser.html"
	notFoundPage = "/not-found.html"
)

var quizPages = []string{"/tutorial.html", gamePage, winnerPage, loserPage}

type quiz struct {
	ctx     context.Context
	cfg     *Config
	source  router.PageSource
	sampler game.Sampler
	players *PlayerManager
}

type round struct {
	answer  catalog.Team
	options []catalog.Team
	guessed bool
}

// player is the per-tab state: its router and the round in progress.
type player struct {
	q   *quiz
	c   *Client
	nav *router.Navigator
	ctx context.Context

	mu       sync.Mutex
	starting bool
	round    *round
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func (q *quiz) newPlayer(ctx context.Context, c *Client) *player {
	nav := router.New(q.source, c, c, router.Options{
		HomeURL: q.cfg.home(),
		Logf:    logger(q.cfg),
	})

	for _, page := range quizPages {
		nav.Register(ctx, page)
	}
	nav.SetNotFound(ctx, notFoundPage)

	go func() {
		if err := nav.Ready(ctx); err != nil {
			logf(q.cfg, "ROUTE: Routes for %s incomplete: %v", c.playerID, err)

			return
		}

		logf(q.cfg, "ROUTE: %d routes ready for %s", nav.Table().Len(), c.playerID)
	}()

	return &player{
		q:   q,
		c:   c,
		nav: nav,
		ctx: ctx,
	}
}

func (p *player) handle(msg ClientMessage) {
	switch msg.Type {
	case "start":
		go p.start()
	case "guess":
		go p.guess(msg.Name)
	default:
		// ignore unknown types
	}
}

// start shows the game page and deals a new round.
func (p *player) start() {
	p.mu.Lock()
	if p.starting {
		p.mu.Unlock()

		return
	}
	p.starting = true
	p.round = nil
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.starting = false
		p.mu.Unlock()
	}()

	p.nav.Redirect(gamePage)

	startTime := time.Now()

	session := game.NewSession(p.q.sampler, p.q.cfg.options, nil)
	if err := session.Begin(p.ctx); err != nil {
		if p.ctx.Err() != nil {
			return
		}

		errorf("round for %s failed: %v", p.c.playerID, err)

		p.c.queue(ErrorMessage{
			Type:    "error",
			Message: "Could not find enough teams. Please try again.",
		})

		return
	}

	answer := session.PickAnswer()
	options := session.Options()

	names := make([]string, 0, len(options))
	for _, t := range options {
		names = append(names, t.Name)
	}

	p.mu.Lock()
	p.round = &round{
		answer:  answer,
		options: options,
	}
	p.mu.Unlock()

	logf(p.q.cfg, "GAMES: Dealt %d teams to %s in %s",
		len(options),
		p.c.playerID,
		time.Since(startTime).Round(time.Millisecond),
	)

	if !sleepCtx(p.ctx, p.q.cfg.renderDelay) {
		return
	}

	p.c.queue(RoundMessage{
		Type:    "round",
		Crest:   answer.Crest,
		Options: names,
	})
}

// guess settles the current round. Only the first guess counts.
func (p *player) guess(name string) {
	p.mu.Lock()
	r := p.round
	if r == nil || r.guessed {
		p.mu.Unlock()

		return
	}
	r.guessed = true
	p.mu.Unlock()

	correct := game.IsCorrect(r.answer.Name, name)
	score := p.q.players.record(p.c.playerID, correct)

	logf(p.q.cfg, "GAMES: %s guessed %q for %q (correct: %t)", p.c.playerID, name, r.answer.Name, correct)

	p.c.queue(RevealMessage{
		Type:    "reveal",
		Answer:  r.answer.Name,
		Guess:   name,
		Correct: correct,
		Wins:    score.Wins,
		Losses:  score.Losses,
	})

	if !sleepCtx(p.ctx, p.q.cfg.revealDelay) {
		return
	}

	if correct {
		p.nav.Redirect(winnerPage)
	} else {
		p.nav.Redirect(loserPage)
	}
}

func (q *quiz) serveWS() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		playerID := getOrSetPlayerID(w, r)

		conn, err := upgrader.Upgrade(w, r, w.Header())
		if err != nil {
			logf(q.cfg, "SERVE: Websocket upgrade for %s failed: %v", realIP(r), err)

			return
		}

		c := newClient(conn, playerID)

		q.players.add(c)
		defer q.players.remove(c)

		ctx, cancel := context.WithCancel(q.ctx)
		defer cancel()

		p := q.newPlayer(ctx, c)

		logf(q.cfg, "SERVE: Player %s connected from %s (%d online)", playerID, realIP(r), q.players.connected())

		go c.writePump()
		c.readPump(p.handle)

		logf(q.cfg, "SERVE: Player %s disconnected", playerID)
	}
}

// registerQuiz sets up the websocket every browser tab drives its pages
// and rounds through.
func registerQuiz(ctx context.Context, cfg *Config, mux *httprouter.Router, source router.PageSource, sampler game.Sampler) *PlayerManager {
	q := &quiz{
		ctx:     ctx,
		cfg:     cfg,
		source:  source,
		sampler: sampler,
		players: newPlayerManager(cfg.sessionTimeout),
	}

	mux.GET(cfg.prefix+"/ws", q.serveWS())

	return q.players
}
