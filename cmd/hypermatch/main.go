package main

import (
	"context"
	"fmt"
	"os"
	"time"
	"unsafe"

	"github.com/rs/xid"
	"go.uber.org/zap"

	match "github.com/velostream/hypermatch"
)

func main() {
	logger := zap.Must(zap.NewProduction())
	defer func() { _ = logger.Sync() }()
	match.SetLogger(logger)

	sessionID := xid.New().String()
	cfg := match.LoadConfig()

	fmt.Printf("\n================================================================\n")
	fmt.Printf("  hypermatch %s\n", match.EngineVersion)
	fmt.Printf("  Lock-Free SPSC | Zero-Alloc | Cache-Optimized\n")
	fmt.Printf("================================================================\n\n")

	engine, err := match.NewEngine(cfg)
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	fmt.Printf("[>>] Session %s\n", sessionID)
	fmt.Printf("[>>] Arena: %d MB reserved, %d MB carved at init\n",
		cfg.ArenaBytes>>20, engine.Arena().Used()>>20)
	fmt.Printf("[>>] Order pool: %d slots (%d MB)\n",
		cfg.MaxOrders, cfg.MaxOrders*int(unsafe.Sizeof(match.Order{}))>>20)
	fmt.Printf("[>>] SPSC ring: %d slots\n", cfg.RingCapacity)
	fmt.Printf("[>>] Matcher pinned to core %d\n", cfg.MatcherCoreID)
	fmt.Printf("[>>] Gateway: %d orders (seed %d)\n\n", cfg.GatewayOrderCount, cfg.GatewaySeed)

	matcherDone := make(chan error, 1)
	go func() { matcherDone <- engine.Start() }()

	// Let the matcher pin before flooding it.
	time.Sleep(50 * time.Millisecond)

	gateway := match.NewGateway(engine)
	start := time.Now()
	gateway.Run()

	// Short grace period so the drain below starts near-empty.
	time.Sleep(100 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := engine.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown did not complete", zap.Error(err))
	}
	<-matcherDone
	elapsed := time.Since(start)

	report := match.BuildReport(engine, sessionID, elapsed)
	report.WriteTable(os.Stdout)

	// Ordered depth view for the top of the book.
	agg := match.NewAggregatedBook()
	agg.Rebuild(engine.Book().Depth(5))
	for _, side := range []match.Side{match.Bid, match.Ask} {
		if price, size, ok := agg.Best(side); ok {
			fmt.Printf("   top %s level: %s x %d (%d levels visible)\n",
				side, price, size, agg.Levels(side))
		}
	}
	fmt.Println()
}
