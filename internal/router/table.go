/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package router

import (
	"sort"
	"sync"
)

const (
	DefaultNamespace    = "/pages"
	DefaultNotFound     = "/404"
	DefaultNotFoundPage = "<h1>404 Not Found</h1>"
)

// RouteTable maps namespaced paths to pre-fetched page content.
type RouteTable struct {
	mu        sync.RWMutex
	namespace string
	routes    map[string]string
	notFound  string
}

// NewRouteTable returns a table holding only the built-in not-found route.
func NewRouteTable(namespace string) *RouteTable {
	t := &RouteTable{
		namespace: namespace,
		routes:    make(map[string]string),
		notFound:  namespace + DefaultNotFound,
	}
	t.routes[t.notFound] = DefaultNotFoundPage

	return t
}

// Key prepends the namespace to a logical path.
func (t *RouteTable) Key(path string) string {
	return t.namespace + path
}

func (t *RouteTable) Lookup(path string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	content, ok := t.routes[path]

	return content, ok
}

func (t *RouteTable) Set(path, content string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.routes[path] = content
}

func (t *RouteTable) Delete(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.routes, path)
}

// NotFoundPath returns the full path of the designated fallback route.
func (t *RouteTable) NotFoundPath() string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.notFound
}

// replaceNotFound drops the current fallback route, if still present, and
// designates path in its place.
func (t *RouteTable) replaceNotFound(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.routes, t.notFound)
	t.notFound = path
}

// NotFound returns the content of the fallback route, if it has been loaded.
func (t *RouteTable) NotFound() (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	content, ok := t.routes[t.notFound]

	return content, ok
}

func (t *RouteTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.routes)
}

// Paths returns the stored paths in sorted order.
func (t *RouteTable) Paths() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	paths := make([]string, 0, len(t.routes))
	for p := range t.routes {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	return paths
}
