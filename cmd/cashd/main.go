// main.go - The coin daemon: verifies mints and spends, maintains the public
// accumulator and ledger, and exposes a small REST surface.
//
// Endpoints:
//   POST /mint     submit a mint transaction (verified, combined, inserted)
//   POST /spend    submit a spend transaction (verified, tag-checked, recorded)
//   GET  /tags/    look up a spending tag (path suffix is the hex tag)
//   GET  /health   component health
//   GET  /metrics  metrics summary
//
// Usage:
//   go run ./cmd/cashd -config cashd.json

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"curvecash/internal/coin"
	"curvecash/internal/curves"
	"curvecash/internal/curvetree"
)

const version = "1.0.0"

// server bundles the daemon's state. Tree and ledger are guarded by mu; the
// parameters and curve pair are immutable after startup.
type server struct {
	cfg     *Config
	logger  *Logger
	metrics *MetricsCollector
	health  *HealthChecker
	limiter *ClientRateLimiter

	mu     sync.Mutex
	params *curvetree.SelRerandParameters
	pair   *curves.CurvePair
	tree   *curvetree.CurveTree
	ledger *coin.Ledger
}

func newServer(cfg *Config, logger *Logger) *server {
	pair := curves.NewCurvePair()
	params := curvetree.NewSelRerandParameters(pair, cfg.TreeCapacity)

	ledger := coin.NewLedger()
	if l, err := coin.LoadLedgerFromFile(cfg.LedgerPath); err == nil {
		ledger = l
		logger.Info("Loaded ledger with %d commitments, %d tags", len(l.Commitments), len(l.Tags))
	}

	s := &server{
		cfg:     cfg,
		logger:  logger,
		metrics: NewMetricsCollector(),
		health:  NewHealthChecker(version),
		limiter: NewClientRateLimiter(cfg.RateLimitTokens, cfg.RateLimitRefill, time.Duration(cfg.RateLimitPeriodSeconds)*time.Second),
		params:  params,
		pair:    pair,
		tree:    curvetree.NewCurveTree(params, pair),
		ledger:  ledger,
	}

	s.health.Register("accumulator", func() (string, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		n := s.tree.Len()
		detail := fmt.Sprintf("leaves=%d capacity=%d", n, cfg.TreeCapacity)
		switch {
		case n >= cfg.TreeCapacity:
			return detail, fmt.Errorf("accumulator full")
		case n*10 >= cfg.TreeCapacity*9:
			return detail, fmt.Errorf("accumulator nearly full: %w", errDegraded)
		}
		return detail, nil
	})
	s.health.Register("ledger", func() (string, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		detail := fmt.Sprintf("mints=%d tags=%d", len(s.ledger.Commitments), len(s.ledger.Tags))
		return detail, s.ledger.SaveToFile(cfg.LedgerPath)
	})
	return s
}

// allowed applies per-client rate limiting keyed by remote IP.
func (s *server) allowed(w http.ResponseWriter, r *http.Request) bool {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if !s.limiter.Allow(host) {
		s.metrics.IncrementCounter(MetricRateLimitDrops, nil)
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// handleMint verifies a submitted mint, folds the coin into its permissible
// form and inserts it into the accumulator.
func (s *server) handleMint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.allowed(w, r) {
		return
	}

	var tx coin.MintTx
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		s.metrics.RecordReject("mint_decode")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	start := time.Now()
	err := coin.VerifyMintTx(s.params, &tx)
	s.metrics.RecordVerify(time.Since(start))
	if err != nil {
		s.metrics.RecordReject("mint_verify")
		s.logger.Warn("Rejected mint: %v", err)
		http.Error(w, "proof rejected", http.StatusUnprocessableEntity)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	permissible, err := coin.CombineMintTx(s.params, s.pair, &tx)
	if err != nil {
		s.metrics.RecordError("combine")
		s.logger.Error("Cannot combine mint: %v", err)
		http.Error(w, "cannot combine coin", http.StatusUnprocessableEntity)
		return
	}
	index, err := s.tree.Insert(permissible.Coin)
	if err != nil {
		s.metrics.RecordError("insert")
		s.logger.Error("Cannot insert coin: %v", err)
		http.Error(w, "accumulator rejected coin", http.StatusConflict)
		return
	}
	commitment := fmt.Sprintf("%x", permissible.Coin.Bytes())
	s.ledger.AppendMint(&tx, commitment)
	if err := s.ledger.SaveToFile(s.cfg.LedgerPath); err != nil {
		s.logger.Error("Ledger save failed: %v", err)
	}

	s.metrics.RecordMint(s.tree.Len())
	s.logger.AuditMintAccepted(index, commitment)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "accepted",
		"index":      index,
		"commitment": commitment,
	})
}

// handleSpend verifies a submitted spend against the current accumulator
// root and records its tag, rejecting double spends.
func (s *server) handleSpend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.allowed(w, r) {
		return
	}

	var tx coin.SpendTx
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		s.metrics.RecordReject("spend_decode")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	root, err := s.tree.Root()
	if err != nil {
		s.metrics.RecordError("root")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	start := time.Now()
	err = coin.VerifySpendTx(s.params, root, &tx)
	s.metrics.RecordVerify(time.Since(start))
	if err != nil {
		s.metrics.RecordReject("spend_verify")
		s.logger.Warn("Rejected spend: %v", err)
		http.Error(w, "proof rejected", http.StatusUnprocessableEntity)
		return
	}
	if err := s.ledger.AppendSpend(&tx); err != nil {
		if errors.Is(err, coin.ErrDoubleSpend) {
			s.metrics.RecordDoubleSpend()
			s.logger.AuditDoubleSpend(tx.TagKey())
			http.Error(w, "double spend", http.StatusConflict)
			return
		}
		s.metrics.RecordError("ledger")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if err := s.ledger.SaveToFile(s.cfg.LedgerPath); err != nil {
		s.logger.Error("Ledger save failed: %v", err)
	}

	s.metrics.RecordSpend(len(s.ledger.Tags))
	s.logger.AuditSpendAccepted(tx.TagKey())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "accepted",
		"tag":    tx.TagKey(),
	})
}

// handleTag reports whether a tag has been seen.
func (s *server) handleTag(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	tag := strings.TrimPrefix(r.URL.Path, "/tags/")
	if tag == "" {
		http.Error(w, "missing tag", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	spent := s.ledger.HasTag(tag)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tag":   tag,
		"spent": spent,
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check()
	status := http.StatusOK
	if report.Status == StatusFailing {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

func (s *server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.metrics.GetMetricsSummary())
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/mint", s.handleMint)
	mux.HandleFunc("/spend", s.handleSpend)
	mux.HandleFunc("/tags/", s.handleTag)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/metrics", s.handleMetrics)
	return mux
}

func main() {
	configPath := flag.String("config", "cashd.json", "path to the configuration file")
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	auditPath := ""
	if cfg.EnableAudit {
		auditPath = cfg.AuditLogPath
	}
	logger, err := NewLogger(cfg.LogLevel, cfg.LogFile, auditPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	srv := newServer(cfg, logger)
	httpServer := &http.Server{
		Addr:         cfg.ListenAddress,
		Handler:      srv.routes(),
		ReadTimeout:  time.Duration(cfg.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	}

	go func() {
		logger.Info("cashd %s listening on %s (tree capacity %d)", version, cfg.ListenAddress, cfg.TreeCapacity)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Shutdown: %v", err)
	}
}
