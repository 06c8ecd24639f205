package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sitegen/pkg/pipeline"
	"github.com/matzehuels/sitegen/pkg/records"
)

const (
	defaultAddr     = "127.0.0.1:8080"
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 5 * time.Second
)

// serveFlags holds flags for the serve command.
type serveFlags struct {
	addr string
}

// serveCommand serves the page data over HTTP for template development.
func (c *CLI) serveCommand() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the page data as JSON",
		Long: `Serve runs every stage once and serves the result as JSON. POST
/api/refresh reruns the pipeline, bypassing cached responses.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.addr, "addr", defaultAddr, "listen address")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, flags serveFlags) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer runner.Close()

	logger := loggerFromContext(ctx)
	srv := newDataServer(func(ctx context.Context, refresh bool) (*pipeline.PageData, error) {
		return runner.Execute(ctx, pipeline.Options{Refresh: refresh || c.flags.refresh})
	}, logger)

	prog := newProgress(logger)
	if err := srv.reload(ctx, false); err != nil {
		return err
	}
	prog.done("Loaded page data")

	ln, err := net.Listen("tcp", flags.addr)
	if err != nil {
		return err
	}
	httpSrv := &http.Server{
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      2 * requestTimeout,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	printSuccess("Serving page data")
	printKeyValue("Address", StyleLink.Render("http://"+ln.Addr().String()+"/api/data"))
	printKeyValue("Refresh", "POST /api/refresh")

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	}
}

// =============================================================================
// Data Server
// =============================================================================

// loadFunc produces fresh page data. refresh bypasses cached responses.
type loadFunc func(ctx context.Context, refresh bool) (*pipeline.PageData, error)

// dataServer holds the latest page data and serves it.
type dataServer struct {
	load   loadFunc
	logger *log.Logger

	reloadMu sync.Mutex // serializes pipeline runs

	mu   sync.RWMutex
	data *pipeline.PageData
}

func newDataServer(load loadFunc, logger *log.Logger) *dataServer {
	return &dataServer{load: load, logger: logger}
}

// reload runs the pipeline and swaps in the result. The previous data is kept
// when the run fails.
func (s *dataServer) reload(ctx context.Context, refresh bool) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	data, err := s.load(ctx, refresh)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

func (s *dataServer) current() *pipeline.PageData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

func (s *dataServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		r.Use(s.requireData)

		r.Get("/data", s.handleData)
		r.Get("/releases", s.handleReleases)
		r.Get("/themes", s.handleThemes)
		r.Get("/news", s.handleNews)
		r.Get("/translations", s.handleTranslations)
		r.Get("/translations/{lang}", s.handleTranslation)
		r.Post("/refresh", s.handleRefresh)
	})

	return r
}

// requireData answers 503 until the first run has finished.
func (s *dataServer) requireData(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.current() == nil && r.Method != http.MethodPost {
			writeError(w, http.StatusServiceUnavailable, "page data not loaded yet")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *dataServer) handleData(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.current())
}

// releasesResponse groups releases the way the download page lists them.
type releasesResponse struct {
	Featured *records.ReleaseRecord  `json:"featured,omitempty"`
	Current  []records.ReleaseRecord `json:"current"`
	Beta     []records.ReleaseRecord `json:"beta"`
	Older    []records.ReleaseRecord `json:"older"`
}

func (s *dataServer) handleReleases(w http.ResponseWriter, r *http.Request) {
	data := s.current()
	writeJSON(w, http.StatusOK, releasesResponse{
		Featured: data.Featured,
		Current:  data.Releases,
		Beta:     data.Beta,
		Older:    data.Older,
	})
}

func (s *dataServer) handleThemes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.current().Themes)
}

func (s *dataServer) handleNews(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.current().News)
}

func (s *dataServer) handleTranslations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.current().Translations)
}

func (s *dataServer) handleTranslation(w http.ResponseWriter, r *http.Request) {
	lang := chi.URLParam(r, "lang")
	for _, rec := range s.current().Translations {
		if rec.Language == lang || rec.ShortName == lang {
			writeJSON(w, http.StatusOK, rec)
			return
		}
	}
	writeError(w, http.StatusNotFound, "unknown language "+lang)
}

func (s *dataServer) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.reload(r.Context(), true); err != nil {
		s.logger.Error("refresh failed", "err", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	data := s.current()
	writeJSON(w, http.StatusOK, map[string]any{
		"run_id": data.RunID,
		"stats":  data.Stats,
	})
}

// requestLogger logs one line per request at debug level.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).Round(time.Microsecond),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
