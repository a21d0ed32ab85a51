package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"

	"github.com/napolitain/battle-solver/internal/converter"
	"github.com/napolitain/battle-solver/internal/loader"
	"github.com/napolitain/battle-solver/internal/models"
	"github.com/napolitain/battle-solver/internal/solver/battle"
)

var (
	port         = flag.IntP("port", "p", 8080, "The server port")
	rulesFile    = flag.StringP("rules", "r", "", "Path to YAML rules file")
	maxWorkers   = flag.Int("max-workers", 8, "Upper bound on search goroutines per request")
	maxLanes     = flag.Int("max-lanes", 10, "Largest army accepted by /api/solve")
	solveTimeout = flag.Duration("solve-timeout", 10*time.Second, "Abort a search after this long")
	debug        = flag.Bool("debug", false, "Log every engagement")
)

const (
	requestIDHeader = "X-Request-ID"
	maxBodyBytes    = 64 << 10
)

// SolveRequest is the body of POST /api/solve
type SolveRequest struct {
	Mine      string `json:"mine"`
	Opponent  string `json:"opponent"`
	Terrain   string `json:"terrain"`
	Workers   int    `json:"workers,omitempty"`
	Threshold int    `json:"threshold,omitempty"`
}

// server answers solve requests with one shared rule set
type server struct {
	rules      *models.Rules
	maxWorkers int
	maxLanes   int
	timeout    time.Duration
}

func newServer(rules *models.Rules, maxWorkers, maxLanes int, timeout time.Duration) *server {
	if rules == nil {
		rules = models.DefaultRules()
	}
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if maxLanes < 1 {
		maxLanes = battle.StandardLanes
	}
	return &server{rules: rules, maxWorkers: maxWorkers, maxLanes: maxLanes, timeout: timeout}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("POST /api/solve", s.handleSolve)
	mux.HandleFunc("GET /api/rules", s.handleRules)

	return requestID(mux)
}

// requestID tags every request with an id, echoed in the response and the access log
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, id)

		logger := log.With().Str("request_id", id).Logger()
		r = r.WithContext(logger.WithContext(r.Context()))

		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

func (s *server) handleSolve(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	var req SolveRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Mine == "" || req.Opponent == "" {
		http.Error(w, "mine and opponent are required", http.StatusBadRequest)
		return
	}

	parsed := models.Scenario{Mine: req.Mine, Opponent: req.Opponent, Terrain: req.Terrain}.Parse()
	if len(parsed.Mine) > s.maxLanes || len(parsed.Opponent) > s.maxLanes {
		http.Error(w, fmt.Sprintf("armies are limited to %d platoons", s.maxLanes), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	solver := battle.NewSolver(
		battle.WithRules(s.rules),
		battle.WithWorkers(min(req.Workers, s.maxWorkers)),
		battle.WithThreshold(req.Threshold),
	)
	result, err := solver.Solve(ctx, parsed.Mine, parsed.Opponent, parsed.Terrains)
	if err != nil {
		logger.Warn().Err(err).Msg("search aborted")
		status := http.StatusServiceUnavailable
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		http.Error(w, "search aborted", status)
		return
	}

	logger.Info().
		Str("outcome", result.Outcome.String()).
		Int("skipped", len(parsed.Skipped)).
		Int64("visited", result.Visited).
		Msg("solved")

	writeJSON(w, http.StatusOK, converter.ResultToReport(result, parsed.Skipped))
}

func (s *server) handleRules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, converter.RulesToReport(s.rules))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}

func main() {
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rules := models.DefaultRules()
	if *rulesFile != "" {
		loaded, err := loader.LoadRules(*rulesFile)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load rules")
		}
		rules = loaded
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", *port),
		Handler:           newServer(rules, *maxWorkers, *maxLanes, *solveTimeout).routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Int("port", *port).Msg("battle solver listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
