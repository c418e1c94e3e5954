/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Messages coming from the browser
type ClientMessage struct {
	Type string `json:"type"`           // "hashchange", "start", "guess"
	Hash string `json:"hash,omitempty"` // hashchange
	Name string `json:"name,omitempty"` // guess
}

// RenderMessage replaces the content of the page container.
type RenderMessage struct {
	Type string `json:"type"` // "render"
	HTML string `json:"html"`
}

// HashMessage asks the browser to change location.hash.
type HashMessage struct {
	Type string `json:"type"` // "set_hash"
	Hash string `json:"hash"`
}

// NavigateMessage asks the browser to leave the page.
type NavigateMessage struct {
	Type string `json:"type"` // "navigate"
	URL  string `json:"url"`
}

type RoundMessage struct {
	Type    string   `json:"type"` // "round"
	Crest   string   `json:"crest"`
	Options []string `json:"options"`
}

type RevealMessage struct {
	Type    string `json:"type"` // "reveal"
	Answer  string `json:"answer"`
	Guess   string `json:"guess"`
	Correct bool   `json:"correct"`
	Wins    int    `json:"wins"`
	Losses  int    `json:"losses"`
}

type ErrorMessage struct {
	Type    string `json:"type"` // "error"
	Message string `json:"message"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Client is one connected browser tab. It acts as both the navigation and
// render surface for that tab's router: the fragment is whatever the
// browser last reported, and writes are forwarded as messages.
type Client struct {
	conn     *websocket.Conn
	send     chan any
	playerID string

	mu         sync.Mutex
	fragment   string
	listeners  []func()
	lastActive time.Time
	closed     bool
}

func newClient(conn *websocket.Conn, playerID string) *Client {
	return &Client{
		conn:       conn,
		send:       make(chan any, 16),
		playerID:   playerID,
		lastActive: time.Now(),
	}
}

// queue hands msg to the write pump, dropping it if the client is gone or
// not keeping up.
func (c *Client) queue(msg any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *Client) Fragment() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.fragment
}

func (c *Client) SetFragment(fragment string) {
	c.queue(HashMessage{Type: "set_hash", Hash: fragment})
}

func (c *Client) Assign(location string) {
	c.queue(NavigateMessage{Type: "navigate", URL: location})
}

func (c *Client) OnChange(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.listeners = append(c.listeners, fn)
}

func (c *Client) Render(content string) {
	c.queue(RenderMessage{Type: "render", HTML: content})
}

// hashChanged records a fragment reported by the browser and notifies
// subscribers.
func (c *Client) hashChanged(hash string) {
	c.mu.Lock()
	c.fragment = strings.TrimPrefix(hash, "#")
	listeners := make([]func(), len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

func (c *Client) touch() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastActive = time.Now()
}

func (c *Client) idleSince() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lastActive
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// readPump decodes browser messages and hands them to handle until the
// connection fails.
func (c *Client) readPump(handle func(ClientMessage)) {
	defer func() {
		c.close()
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		c.touch()

		if msg.Type == "hashchange" {
			c.hashChanged(msg.Hash)

			continue
		}

		handle(msg)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

const playerCookieName = "futguesser_id"
