/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Seednode/futguesser/internal/pages"
	"github.com/Seednode/futguesser/internal/router"
	"github.com/julienschmidt/httprouter"
)

//go:embed assets/*
var assets embed.FS

//go:embed pages/*
var pageFiles embed.FS

// newPageSource returns the collaborator the router loads page bodies from.
func newPageSource(cfg *Config) router.PageSource {
	if cfg.pagesURL != "" {
		return pages.NewHTTP(cfg.pagesURL, cfg.fetchTimeout)
	}

	files, err := fs.Sub(pageFiles, "pages")
	if err != nil {
		panic(err)
	}

	return pages.FS{
		Files:     files,
		Namespace: router.DefaultNamespace,
	}
}

// humanReadableSize formats n bytes using SI units.
func humanReadableSize(n int) string {
	const unit = 1000
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}

	div, exp := unit, 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "kMGTPE"[exp])
}

func cacheHeaders(w http.ResponseWriter, size int) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
	w.Header().Set("Content-Length", strconv.Itoa(size))
}

func contentType(fname string) string {
	switch strings.ToLower(filepath.Ext(fname)) {
	case ".css":
		return "text/css; charset=utf-8"
	case ".js":
		return "text/javascript; charset=utf-8"
	case ".html":
		return "text/html; charset=utf-8"
	case ".svg":
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}

func serveIndex(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		data, err := assets.ReadFile("assets/index.html")
		if err != nil {
			errs <- err

			return
		}

		_ = getOrSetPlayerID(w, r)

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		cacheHeaders(w, len(data))
		securityHeaders(cfg, w)

		written, err := w.Write(data)
		if err != nil {
			errs <- err

			return
		}

		logf(cfg, "SERVE: Index page (%s) to %s in %s",
			humanReadableSize(written),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

func serveEmbedded(cfg *Config, errs chan<- error, files embed.FS, dir, param string) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		fname := path.Join(dir, path.Clean("/"+p.ByName(param)))

		data, err := files.ReadFile(fname)
		if err != nil {
			http.NotFound(w, r)

			return
		}

		w.Header().Set("Content-Type", contentType(fname))
		cacheHeaders(w, len(data))
		securityHeaders(cfg, w)

		_, err = w.Write(data)
		if err != nil {
			errs <- err

			return
		}
	}
}

func serveAssets(cfg *Config, errs chan<- error) httprouter.Handle {
	return serveEmbedded(cfg, errs, assets, "assets", "asset")
}

// servePages exposes the page bodies, so another instance can load them
// with --pages-url.
func servePages(cfg *Config, errs chan<- error) httprouter.Handle {
	return serveEmbedded(cfg, errs, pageFiles, "pages", "page")
}

func serveHealthCheck(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(cfg, w)

		_, err := w.Write([]byte("Ok\n"))
		if err != nil {
			errs <- err

			return
		}
	}
}

func serveRobots(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		data := `User-agent: *
Disallow: /ws
Disallow: /qr
Disallow: /pages/`

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		cacheHeaders(w, len(data))
		securityHeaders(cfg, w)

		_, err := w.Write([]byte(data))
		if err != nil {
			errs <- err

			return
		}
	}
}
