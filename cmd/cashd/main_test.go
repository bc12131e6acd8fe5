package main

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"curvecash/internal/coin"
)

func testServer(t *testing.T) *server {
	t.Helper()
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.TreeCapacity = 8
	cfg.LedgerPath = filepath.Join(dir, "ledger.json")
	cfg.LogFile = filepath.Join(dir, "cashd.log")
	cfg.EnableAudit = false
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config: %v", err)
	}
	logger, err := NewLogger("error", cfg.LogFile, "")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	t.Cleanup(logger.Close)
	return newServer(cfg, logger)
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, v interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestDaemonHandlers(t *testing.T) {
	srv := testServer(t)

	// Mint a coin out of band and submit it through the HTTP surface.
	sk, pk, err := coin.GenerateKeys(srv.params, rand.Reader)
	if err != nil {
		t.Fatalf("key generation: %v", err)
	}
	mintTx, c, mo, err := coin.CreateMintTx(srv.params, 250, pk, rand.Reader)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	t.Run("Mint Accepted", func(t *testing.T) {
		rec := postJSON(t, srv.handleMint, "/mint", mintTx)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Status string `json:"status"`
			Index  int    `json:"index"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Status != "accepted" || resp.Index != 0 {
			t.Fatalf("unexpected response: %+v", resp)
		}
	})

	t.Run("Malformed Mint Rejected", func(t *testing.T) {
		bad := *mintTx
		bad.Proof = bad.Proof[:len(bad.Proof)-1]
		rec := postJSON(t, srv.handleMint, "/mint", &bad)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
	})

	t.Run("Mint Requires POST", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/mint", nil)
		rec := httptest.NewRecorder()
		srv.handleMint(rec, req)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", rec.Code)
		}
	})

	// Build the spend against the daemon's accumulator state.
	permissible, err := coin.CombineMintTx(srv.params, srv.pair, mintTx)
	if err != nil {
		t.Fatalf("combine: %v", err)
	}
	info := &coin.SpendingInfo{
		Index:       0,
		Coin:        c,
		Output:      mo,
		Permissible: permissible,
		Sk:          sk,
	}
	spendTx, err := coin.CreateSpendTx(srv.params, srv.pair, info, srv.tree, rand.Reader)
	if err != nil {
		t.Fatalf("spend: %v", err)
	}

	t.Run("Spend Accepted", func(t *testing.T) {
		rec := postJSON(t, srv.handleSpend, "/spend", spendTx)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("Double Spend Conflicts", func(t *testing.T) {
		again, err := coin.CreateSpendTx(srv.params, srv.pair, info, srv.tree, rand.Reader)
		if err != nil {
			t.Fatalf("second spend: %v", err)
		}
		rec := postJSON(t, srv.handleSpend, "/spend", again)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("Tag Lookup", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tags/"+spendTx.TagKey(), nil)
		rec := httptest.NewRecorder()
		srv.handleTag(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var resp struct {
			Tag   string `json:"tag"`
			Spent bool   `json:"spent"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if !resp.Spent {
			t.Fatal("known tag reported unspent")
		}

		req = httptest.NewRequest(http.MethodGet, "/tags/deadbeef", nil)
		rec = httptest.NewRecorder()
		srv.handleTag(rec, req)
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Spent {
			t.Fatal("unknown tag reported spent")
		}
	})

	t.Run("Health And Metrics", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("health: expected 200, got %d", rec.Code)
		}
		rec = httptest.NewRecorder()
		srv.handleMetrics(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("metrics: expected 200, got %d", rec.Code)
		}
	})
}

func TestConfigValidation(t *testing.T) {
	cases := map[string]func(*Config){
		"tiny tree":    func(c *Config) { c.TreeCapacity = 1 },
		"no address":   func(c *Config) { c.ListenAddress = "" },
		"zero timeout": func(c *Config) { c.TimeoutSeconds = 0 },
		"zero tokens":  func(c *Config) { c.RateLimitTokens = 0 },
	}
	for name, mutate := range cases {
		cfg := DefaultConfig()
		mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cashd.json")
	cfg := DefaultConfig()
	cfg.TreeCapacity = 64
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.TreeCapacity != 64 {
		t.Fatalf("expected capacity 64, got %d", loaded.TreeCapacity)
	}
}
