// Command cascade-server runs the Trigger Cascade Engine match server: one
// WebSocket connection per match, driven by internal/match.Match.
package main

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"cascadeengine/internal/config"
	"cascadeengine/internal/domain"
	"cascadeengine/internal/match"
	"cascadeengine/internal/registry"
	wsTransport "cascadeengine/internal/transport/ws"
	"cascadeengine/internal/wire"
)

// matchSet tracks live matches so the debug listener can snapshot them; the
// match protocol itself never reads from it.
type matchSet struct {
	mu      sync.Mutex
	seq     uint64
	matches map[uint64]*match.Match
}

func newMatchSet() *matchSet {
	return &matchSet{matches: map[uint64]*match.Match{}}
}

func (s *matchSet) add(m *match.Match) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.matches[s.seq] = m
	return s.seq
}

func (s *matchSet) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.matches, id)
}

func (s *matchSet) snapshots() []wire.DebugSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]wire.DebugSnapshot, 0, len(s.matches))
	for _, m := range s.matches {
		out = append(out, m.Snapshot())
	}
	return out
}

func main() {
	app := config.App(run)
	if err := app.Run(os.Args); err != nil {
		stderrLog(err)
		os.Exit(1)
	}
}

func stderrLog(err error) {
	logger, _ := zap.NewProduction()
	if logger == nil {
		return
	}
	defer logger.Sync()
	logger.Error("server exited", zap.Error(err))
}

func run(_ *cli.Context, cfg config.Config) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

	reg, err := registry.Load(cfg.RegistryDir)
	if err != nil {
		return err
	}
	logger.Info("token registry loaded", zap.String("dir", cfg.RegistryDir))

	live := newMatchSet()

	mux := http.NewServeMux()
	mux.HandleFunc("/match", matchHandler(reg, live, logger))
	if cfg.DebugAddr != "" {
		go serveDebug(cfg.DebugAddr, live, logger)
	}

	logger.Info("listening", zap.String("addr", cfg.ListenAddr))
	return http.ListenAndServe(cfg.ListenAddr, mux)
}

func matchHandler(reg *domain.Registry, live *matchSet, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := wsTransport.Upgrade(w, r)
		if err != nil {
			logger.Warn("upgrade failed", zap.Error(err))
			return
		}
		defer conn.Close()

		stop := make(chan struct{})
		defer close(stop)
		go conn.KeepAlive(stop)

		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		m := match.New(conn, reg, rng, logger)
		id := live.add(m)
		defer live.remove(id)
		if err := m.Run(); err != nil {
			logger.Info("match ended", zap.Error(err))
		}
	}
}

// serveDebug exposes the protobuf snapshot endpoint over a listener separate
// from the match WebSocket, per spec.md §6 — the binary encoding never
// touches the text-frame wire protocol.
func serveDebug(addr string, live *matchSet, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/debug/snapshots", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(wire.EncodeDebugSnapshots(live.snapshots()))
	})
	logger.Info("debug endpoint listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Warn("debug endpoint stopped", zap.Error(err))
	}
}
