package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"taskflow/internal/batch"
	"taskflow/internal/config"
	"taskflow/internal/domain"
	"taskflow/internal/exec"
	"taskflow/internal/orchestrate"
	"taskflow/internal/report"
)

type runReq struct {
	Policy     string `json:"policy"`
	Count      *int   `json:"count"`       // optional "first N runnable" pre-filter
	SkipErrors bool   `json:"skip_errors"` // drop descriptors tagged to fail
}

type taskResp struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	DurationMS int64  `json:"duration_ms"`
	Priority   string `json:"priority,omitempty"`
}

type runResp struct {
	OK        bool              `json:"ok"`
	RunID     string            `json:"run_id,omitempty"`
	Policy    string            `json:"policy"`
	Results   []domain.Result   `json:"results,omitempty"`
	Partial   []domain.Result   `json:"partial,omitempty"`
	ElapsedMS int64             `json:"elapsed_ms"`
	Error     *domain.TaskError `json:"error,omitempty"`
}

type Server struct {
	cfg    *config.Config
	router *chi.Mux
}

func NewServer(cfg *config.Config) *Server {
	s := &Server{cfg: cfg}

	r := chi.NewRouter()
	r.Get("/api/tasks", s.handleTasks)
	r.Post("/api/runs", s.handleRun)
	r.NotFound(s.serveStatic)

	s.router = r
	return s
}

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	ds, err := batch.Load(s.cfg.Tasks.File, s.cfg.Tasks.DefaultDuration)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}

	out := make([]taskResp, 0, len(ds))
	for _, d := range ds {
		out = append(out, taskResp{
			ID:         d.ID,
			Name:       d.Name,
			Type:       string(d.Type),
			DurationMS: d.Duration.Milliseconds(),
			Priority:   d.Priority,
		})
	}
	_ = json.NewEncoder(w).Encode(out)
}

// handleRun executes one orchestration against the configured batch and
// returns the structured report. A taxonomy failure is a normal demo outcome
// and still answers 200; only transport-level problems map to 4xx/5xx.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req runReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	policy, err := orchestrate.ParsePolicy(req.Policy)
	if err != nil {
		http.Error(w, err.Error(), 400)
		return
	}

	ds, err := batch.Load(s.cfg.Tasks.File, s.cfg.Tasks.DefaultDuration)
	if err != nil {
		var te *domain.TaskError
		if errors.As(err, &te) {
			writeRunError(w, policy, 0, te, nil)
			return
		}
		http.Error(w, err.Error(), 500)
		return
	}

	if req.SkipErrors || req.Count != nil {
		n := len(ds)
		if req.Count != nil {
			n = *req.Count
		}
		ds = batch.FirstRunnable(ds, n)
	}

	col := &report.Collector{}
	orc := orchestrate.New(exec.New(), col)

	rep, err := orc.Run(r.Context(), policy, ds)
	if err != nil {
		var te *domain.TaskError
		if !errors.As(err, &te) {
			http.Error(w, err.Error(), 500)
			return
		}
		writeRunError(w, policy, col.Elapsed, te, col.Partial)
		return
	}

	_ = json.NewEncoder(w).Encode(runResp{
		OK:        true,
		RunID:     rep.RunID,
		Policy:    string(rep.Policy),
		Results:   rep.Results,
		ElapsedMS: rep.Elapsed.Milliseconds(),
	})
}

func writeRunError(w http.ResponseWriter, policy orchestrate.Policy, elapsed time.Duration, te *domain.TaskError, partial []domain.Result) {
	_ = json.NewEncoder(w).Encode(runResp{
		Policy:    string(policy),
		Partial:   partial,
		ElapsedMS: elapsed.Milliseconds(),
		Error:     te,
	})
}

// Handler exposes the routing table without the outer middleware chain,
// mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Run method of the Server struct runs the HTTP server on the specified port. It initializes
// a new HTTP server instance with the specified port and the server's router.
func (s *Server) Run(port int) {
	addr := fmt.Sprintf(":%d", port)

	h := chainMiddleware(
		s.router,
		recoverHandler,
		loggerHandler(func(w http.ResponseWriter, r *http.Request) bool { return r.URL.Path == "/" }),
		realIPHandler,
		requestIDHandler,
		corsHandler,
	)

	httpServer := http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	done := make(chan bool)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info().Msg("Server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(ctx); err != nil {
			log.Fatal().Err(err).Msg("Server forced to shutdown")
		}

		close(done)
	}()

	log.Info().Msgf("server serving on port %d", port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("Failed to listen and serve")
	}

	<-done
	log.Info().Msg("Server stopped")
}
