package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestCatalog serves teams for odd ids and 404s for even ones.
func newTestCatalog(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/teams/"))
		if err != nil || id%2 == 0 {
			http.NotFound(w, r)

			return
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"id":%d,"name":"Team %d","crest":"https://crests.test/%d.png"}`, id, id, id)
	}))
	t.Cleanup(srv.Close)

	return srv
}

type message map[string]any

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

// await reads messages until match accepts one.
func await(t *testing.T, conn *websocket.Conn, match func(message) bool) message {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	for {
		var msg message
		require.NoError(t, conn.ReadJSON(&msg))

		if match(msg) {
			return msg
		}
	}
}

func ofType(kind string) func(message) bool {
	return func(m message) bool {
		return m["type"] == kind
	}
}

func rendered(fragment string) func(message) bool {
	return func(m message) bool {
		html, _ := m["html"].(string)

		return m["type"] == "render" && strings.Contains(html, fragment)
	}
}

func send(t *testing.T, conn *websocket.Conn, msg ClientMessage) {
	t.Helper()

	require.NoError(t, conn.WriteJSON(msg))
}

func quizConfig(apiURL string) *Config {
	return &Config{
		apiURL:      apiURL,
		maxAttempts: 1000,
		maxID:       40,
		options:     3,
	}
}

func TestQuizRound(t *testing.T) {
	cat := newTestCatalog(t)
	srv := newTestServer(t, quizConfig(cat.URL+"/teams/"))
	conn := dial(t, srv)

	send(t, conn, ClientMessage{Type: "start"})

	hash := await(t, conn, ofType("set_hash"))
	assert.Equal(t, gamePage, hash["hash"])

	// the browser reports the new fragment back
	send(t, conn, ClientMessage{Type: "hashchange", Hash: "#" + gamePage})

	var round message
	var sawGame bool
	for round == nil || !sawGame {
		msg := await(t, conn, func(m message) bool {
			return m["type"] == "round" || rendered(`id="teamImg"`)(m)
		})
		if msg["type"] == "round" {
			round = msg
		} else {
			sawGame = true
		}
	}

	options, ok := round["options"].([]any)
	require.True(t, ok)
	require.Len(t, options, 3)

	seen := make(map[string]bool)
	for _, o := range options {
		assert.False(t, seen[o.(string)])
		seen[o.(string)] = true
	}

	crest := round["crest"].(string)
	id := strings.TrimSuffix(strings.TrimPrefix(crest, "https://crests.test/"), ".png")
	answer := "Team " + id
	assert.True(t, seen[answer])

	send(t, conn, ClientMessage{Type: "guess", Name: answer})

	reveal := await(t, conn, ofType("reveal"))
	assert.Equal(t, true, reveal["correct"])
	assert.Equal(t, answer, reveal["answer"])
	assert.Equal(t, float64(1), reveal["wins"])
	assert.Equal(t, float64(0), reveal["losses"])

	hash = await(t, conn, ofType("set_hash"))
	assert.Equal(t, winnerPage, hash["hash"])

	send(t, conn, ClientMessage{Type: "hashchange", Hash: winnerPage})
	await(t, conn, rendered("Correct!"))

	// a second guess in the same round is ignored
	send(t, conn, ClientMessage{Type: "guess", Name: "Nobody"})
	send(t, conn, ClientMessage{Type: "hashchange", Hash: "/missing.html"})
	msg := await(t, conn, func(m message) bool { return m["type"] == "render" || m["type"] == "reveal" })
	assert.Contains(t, msg["html"], "Page not found")
}

func TestQuizWrongGuess(t *testing.T) {
	cat := newTestCatalog(t)
	srv := newTestServer(t, quizConfig(cat.URL+"/teams/"))
	conn := dial(t, srv)

	send(t, conn, ClientMessage{Type: "start"})
	await(t, conn, ofType("round"))

	send(t, conn, ClientMessage{Type: "guess", Name: "Team 2"})

	reveal := await(t, conn, ofType("reveal"))
	assert.Equal(t, false, reveal["correct"])
	assert.Equal(t, float64(1), reveal["losses"])

	hash := await(t, conn, ofType("set_hash"))
	assert.Equal(t, loserPage, hash["hash"])
}

func TestQuizCatalogExhausted(t *testing.T) {
	down := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(down.Close)

	cfg := quizConfig(down.URL + "/teams/")
	cfg.maxAttempts = 5

	srv := newTestServer(t, cfg)
	conn := dial(t, srv)

	send(t, conn, ClientMessage{Type: "start"})

	msg := await(t, conn, ofType("error"))
	assert.Contains(t, msg["message"], "enough teams")
}

func TestQuizHomeAlias(t *testing.T) {
	cfg := quizConfig("http://catalog.invalid/")
	cfg.prefix = "/fut"

	srv := newTestServer(t, cfg)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/fut/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	send(t, conn, ClientMessage{Type: "hashchange", Hash: "#/"})

	hash := await(t, conn, ofType("set_hash"))
	assert.Equal(t, "", hash["hash"])

	nav := await(t, conn, ofType("navigate"))
	assert.Equal(t, "/fut/", nav["url"])
}
