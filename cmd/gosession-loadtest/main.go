// Command gosession-loadtest measures session bootstrap sharing and guarded
// navigation throughput against the in-memory dev backend.
//
// The bootstrap phase builds fresh engines and hits each with concurrent
// navigations; every engine must send exactly one profile probe. The guard
// phase drives one signed-in engine across the console routes.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http/httptest"
	"os"
	"sync"
	"sync/atomic"
	"time"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/gateway"
	"github.com/MrEthical07/goSession/internal/devbackend"
)

var targets = []string{
	"/",
	"/dashboard",
	"/nodes",
	"/nodes/1/network",
	"/nodes/42/network",
	"/templates",
	"/login",
}

func main() {
	var (
		engines     = flag.Int("engines", 200, "fresh engines in the bootstrap phase")
		fanout      = flag.Int("fanout", 32, "concurrent navigations per fresh engine")
		concurrency = flag.Int("concurrency", 64, "workers in the guard phase")
		ops         = flag.Int("ops", 50000, "navigations in the guard phase")
	)
	flag.Parse()

	if *engines <= 0 || *fanout <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "engines, fanout, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	cfg := devbackend.DefaultConfig()
	mem, err := devbackend.NewMemory(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start dev backend: %v\n", err)
		os.Exit(1)
	}
	defer mem.Close()
	mem.SetLogger(log.New(io.Discard, "", 0))

	srv := httptest.NewServer(mem.Handler())
	defer srv.Close()
	api := srv.URL + "/api"
	fmt.Printf("dev backend at %s\n", api)

	bootstrap, probes := runBootstrapPhase(ctx, api, *engines, *fanout)
	guard, err := runGuardPhase(ctx, api, cfg, *ops, *concurrency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "guard phase: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("---- results ----")
	printStats("bootstrap", bootstrap)
	fmt.Printf("bootstrap: engines=%d probes=%d\n", *engines, probes)
	printStats("guard", guard)

	if probes != uint64(*engines) {
		fmt.Fprintf(os.Stderr, "expected one probe per engine, got %d for %d engines\n", probes, *engines)
		os.Exit(1)
	}
}

func newEngine(api string) (*goSession.Engine, error) {
	gw, err := gateway.NewHTTP(gateway.Config{BaseURL: api})
	if err != nil {
		return nil, err
	}
	return goSession.New().
		WithGateway(gw).
		WithLogger(log.New(io.Discard, "", 0)).
		Build()
}

func runBootstrapPhase(ctx context.Context, api string, engines, fanout int) (phaseStats, uint64) {
	var (
		failures  int64
		probes    uint64
		latencies = make([]time.Duration, 0, engines*fanout)
		mu        sync.Mutex
	)

	start := time.Now()
	for i := 0; i < engines; i++ {
		engine, err := newEngine(api)
		if err != nil {
			atomic.AddInt64(&failures, int64(fanout))
			continue
		}

		var wg sync.WaitGroup
		for j := 0; j < fanout; j++ {
			wg.Add(1)
			go func(j int) {
				defer wg.Done()
				t0 := time.Now()
				_, err := engine.Guard().BeforeEach(ctx, resolve(engine, targets[j%len(targets)]), routeZero)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}(j)
		}
		wg.Wait()

		probes += engine.MetricsSnapshot().Counters[goSession.MetricBootstrapStarted]
		engine.Close()
	}
	total := time.Since(start)
	return computeStats(total, latencies, failures), probes
}

func runGuardPhase(ctx context.Context, api string, cfg devbackend.Config, ops, concurrency int) (phaseStats, error) {
	engine, err := newEngine(api)
	if err != nil {
		return phaseStats{}, err
	}
	defer engine.Close()

	if err := engine.Login(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return phaseStats{}, err
	}

	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				t0 := time.Now()
				_, err := engine.Navigate(ctx, targets[r.Intn(len(targets))])
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures), nil
}
