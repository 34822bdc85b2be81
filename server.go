package pubgen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

const shutdownTimeout = 5 * time.Second

type previewServer struct {
	site  *Site
	echo  *echo.Echo
	store *Store // nil without a manifest
}

func (s *Site) newPreviewServer(store *Store) *previewServer {
	p := &previewServer{site: s, echo: echo.New(), store: store}
	p.echo.HideBanner = true
	p.echo.HidePort = true
	p.setupMiddleware()
	p.setupRoutes()
	return p
}

func (p *previewServer) setupRoutes() {
	e := p.echo
	blogPath := p.site.Config.BlogPath

	e.GET("/api/entries", p.handleEntries)
	if blogPath != "/" {
		e.GET("/", p.handleBlogRedirect)
	}
	prefix := strings.TrimSuffix(blogPath, "/")
	if prefix == "" {
		prefix = "/"
	}
	e.Static(prefix, p.site.Config.OutputDir)
}

// Serve serves the output directory under BlogPath until ctx is canceled.
// It does not build; call Build first.
func (s *Site) Serve(ctx context.Context, addr string) error {
	var store *Store
	if s.Config.ManifestPath != "" {
		var err error
		if store, err = NewStore(s.Config.ManifestPath); err != nil {
			return fmt.Errorf("pubgen: open manifest: %w", err)
		}
		defer store.Close()
	}
	p := s.newPreviewServer(store)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Preview server listening", "addr", addr, "blog_path", s.Config.BlogPath)
		errCh <- p.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return p.echo.Shutdown(shutdownCtx)
	}
}

type entryJSON struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Slug      string `json:"slug"`
	Published string `json:"published"`
	Updated   string `json:"updated"`
}

func (p *previewServer) handleEntries(c echo.Context) error {
	if p.store == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "manifest disabled"})
	}
	entries, err := p.store.ListEntries()
	if err != nil {
		return err
	}
	out := make([]entryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryJSON{
			Title:     e.Title,
			URL:       e.URL,
			Slug:      e.Slug,
			Published: e.Published.Format(time.DateOnly),
			Updated:   e.Updated.Format(time.DateOnly),
		})
	}
	return c.JSON(http.StatusOK, out)
}

func (p *previewServer) handleBlogRedirect(c echo.Context) error {
	return c.Redirect(http.StatusFound, p.site.Config.BlogPath)
}

func (p *previewServer) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = renderStatus(c, http.StatusNotFound, notFoundPage(p.site.Config.BlogPath))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		p.site.logger.Error("Server error", "path", c.Request().URL.Path, "error", err)
	}
	p.echo.DefaultHTTPErrorHandler(err, c)
}
