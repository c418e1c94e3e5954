/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package router implements a fragment-driven page router. Page content is
// fetched once per route and written into a RenderSurface whenever the
// fragment of a NavigationSurface changes.
package router

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

const (
	DefaultHomeAlias = "/"
	DefaultHomeURL   = "http://localhost:8080/"
)

// NavigationSurface exposes the fragment of the current location.
type NavigationSurface interface {
	// Fragment returns the current fragment, without the leading '#'.
	Fragment() string
	// SetFragment writes a new fragment. Implementations notify OnChange
	// subscribers when the value changes.
	SetFragment(fragment string)
	// Assign performs a full navigation away from the current page.
	Assign(location string)
	OnChange(fn func())
}

// RenderSurface is a single container whose content is replaced wholesale.
type RenderSurface interface {
	Render(content string)
}

// PageSource retrieves raw page markup for a namespaced path.
type PageSource interface {
	Page(ctx context.Context, path string) (string, error)
}

type Options struct {
	Namespace string
	HomeAlias string
	HomeURL   string
	Logf      func(format string, args ...any)
}

// Registration tracks a single asynchronous route registration.
type Registration struct {
	Path string

	done chan struct{}
	err  error
}

func (r *Registration) Done() <-chan struct{} {
	return r.done
}

// Err returns the registration failure, if any. It is only meaningful once
// Done has been closed.
func (r *Registration) Err() error {
	select {
	case <-r.done:
		return r.err
	default:
		return nil
	}
}

func (r *Registration) Wait(ctx context.Context) error {
	select {
	case <-r.done:
		return r.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

type Navigator struct {
	table    *RouteTable
	source   PageSource
	location NavigationSurface
	surface  RenderSurface

	homeAlias string
	homeURL   string
	logf      func(format string, args ...any)

	// serializes renders; never held while writing the fragment
	mu sync.Mutex

	pendingMu sync.Mutex
	pending   []*Registration
}

// New returns a Navigator subscribed to fragment changes on location.
func New(source PageSource, location NavigationSurface, surface RenderSurface, opts Options) *Navigator {
	if opts.Namespace == "" {
		opts.Namespace = DefaultNamespace
	}
	if opts.HomeAlias == "" {
		opts.HomeAlias = DefaultHomeAlias
	}
	if opts.HomeURL == "" {
		opts.HomeURL = DefaultHomeURL
	}
	if opts.Logf == nil {
		opts.Logf = func(string, ...any) {}
	}

	n := &Navigator{
		table:     NewRouteTable(opts.Namespace),
		source:    source,
		location:  location,
		surface:   surface,
		homeAlias: opts.HomeAlias,
		homeURL:   opts.HomeURL,
		logf:      opts.Logf,
	}

	location.OnChange(n.SyncFromLocation)

	return n
}

func (n *Navigator) Table() *RouteTable {
	return n.table
}

// Resolve renders the route stored for path, falling back to the not-found
// route. Nothing is rendered while the not-found content is still loading.
func (n *Navigator) Resolve(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	content, ok := n.table.Lookup(n.table.Key(path))
	if !ok {
		content, ok = n.table.NotFound()
		if !ok {
			n.logf("ROUTE: No route for %s and no not-found page loaded", path)

			return
		}
	}

	n.surface.Render(strings.TrimSpace(content))
}

func (n *Navigator) SyncFromLocation() {
	hash := strings.TrimPrefix(n.location.Fragment(), "#")

	switch {
	case hash == n.homeAlias:
		n.GoHome()
	case hash == "":
		return
	default:
		n.Resolve(hash)
	}
}

// Redirect only writes the fragment; the change notification resolves it.
func (n *Navigator) Redirect(path string) {
	n.location.SetFragment(path)
}

// GoHome clears the fragment and leaves the page for the home location.
func (n *Navigator) GoHome() {
	n.location.SetFragment("")
	n.location.Assign(n.homeURL)
}

// Register fetches the page for path in the background and adds it to the
// table. A failed fetch is logged and leaves the route absent.
func (n *Navigator) Register(ctx context.Context, path string) *Registration {
	key := n.table.Key(path)

	reg := &Registration{
		Path: key,
		done: make(chan struct{}),
	}

	n.pendingMu.Lock()
	n.pending = append(n.pending, reg)
	n.pendingMu.Unlock()

	go func() {
		defer close(reg.done)

		content, err := n.source.Page(ctx, key)
		if err != nil {
			reg.err = fmt.Errorf("adding route %s: %w", key, err)
			n.logf("ERROR: %v", reg.err)

			return
		}

		n.table.Set(key, content)
		n.logf("ROUTE: Added %s", key)

		n.SyncFromLocation()
	}()

	return reg
}

// SetNotFound replaces the fallback route with the page registered at path.
func (n *Navigator) SetNotFound(ctx context.Context, path string) *Registration {
	n.table.replaceNotFound(n.table.Key(path))

	return n.Register(ctx, path)
}

// Ready waits for every registration issued so far and returns their
// combined failures.
func (n *Navigator) Ready(ctx context.Context) error {
	n.pendingMu.Lock()
	pending := make([]*Registration, len(n.pending))
	copy(pending, n.pending)
	n.pendingMu.Unlock()

	var errs []error
	for _, reg := range pending {
		if err := reg.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return err
			}
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
