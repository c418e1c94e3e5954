/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package catalog is a client for the football-data.org teams endpoint.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

const (
	DefaultURL = "https://api.football-data.org/v4/teams/"
	authHeader = "X-Auth-Token"
)

// Team is a catalog entry. Only Name and Crest are required by the game.
type Team struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	ShortName   string     `json:"shortName,omitempty"`
	TLA         string     `json:"tla,omitempty"`
	Crest       string     `json:"crest"`
	Address     string     `json:"address,omitempty"`
	Website     string     `json:"website,omitempty"`
	Founded     int        `json:"founded,omitempty"`
	ClubColors  string     `json:"clubColors,omitempty"`
	Venue       string     `json:"venue,omitempty"`
	LastUpdated *time.Time `json:"lastUpdated,omitempty"`
}

// StatusError is returned for any non-success response. Unknown ids and
// transient failures are not told apart.
type StatusError struct {
	ID     int
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("error fetching team %d: %s", e.ID, e.Status)
}

type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}

	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// Team fetches the team with the given id.
func (c *Client) Team(ctx context.Context, id int) (Team, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+strconv.Itoa(id), nil)
	if err != nil {
		return Team{}, err
	}
	req.Header.Set(authHeader, c.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Team{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)

		return Team{}, &StatusError{
			ID:     id,
			Code:   resp.StatusCode,
			Status: resp.Status,
		}
	}

	var team Team
	if err := json.NewDecoder(resp.Body).Decode(&team); err != nil {
		return Team{}, fmt.Errorf("decoding team %d: %w", id, err)
	}

	return team, nil
}
