package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"time"

	"marketsim/bots"
	"marketsim/engine"
	"marketsim/feed"
)

func main() {
	totalOrders := flag.Int("orders", 500000, "number of orders to generate")
	stocks := flag.Int("stocks", 10, "number of stocks")
	traders := flag.Int("traders", 50, "number of traders")
	arrivalRate := flag.Int("arrival-rate", 10, "average orders per timestamp")
	basePrice := flag.Int64("base-price", feed.DefaultBasePrice, "mid price used while a book is empty")
	seed := flag.Int64("seed", time.Now().UnixNano(), "seed for deterministic random streams")
	cpuProfile := flag.String("cpuprofile", "", "write cpu profile to file")
	memProfile := flag.String("memprofile", "", "write heap profile to file")
	out := flag.String("out", "", "also write the generated orders as a TL feed")
	flag.Parse()

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			panic(err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			panic(err)
		}
		defer pprof.StopCPUProfile()
	}

	market, err := engine.NewMarket(engine.MarketConfig{Traders: *traders, Instruments: *stocks})
	if err != nil {
		fmt.Fprintf(os.Stderr, "market: %v\n", err)
		os.Exit(1)
	}
	sup, err := bots.NewSupervisor(bots.Config{
		Seed:        *seed,
		Orders:      *totalOrders,
		ArrivalRate: *arrivalRate,
		Traders:     *traders,
		Instruments: *stocks,
		BasePrice:   *basePrice,
	}, market)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bots: %v\n", err)
		os.Exit(1)
	}

	var enc *feed.Encoder
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "create %s: %v\n", *out, err)
			os.Exit(1)
		}
		defer f.Close()
		enc = feed.NewEncoder(f)
		if err := enc.WriteHeader(fmt.Sprintf("loadgen seed %d", *seed), *traders, *stocks); err != nil {
			fmt.Fprintf(os.Stderr, "write header: %v\n", err)
			os.Exit(1)
		}
	}

	start := time.Now()
	for {
		rec, err := sup.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "generate failed: %v\n", err)
			break
		}
		if _, err := market.Ingest(rec); err != nil {
			fmt.Fprintf(os.Stderr, "ingest failed: %v\n", err)
		}
		if enc != nil {
			if err := enc.Encode(rec); err != nil {
				fmt.Fprintf(os.Stderr, "write failed: %v\n", err)
				enc = nil
			}
		}
	}
	elapsed := time.Since(start)

	if enc != nil {
		if err := enc.Flush(); err != nil {
			fmt.Fprintf(os.Stderr, "flush %s: %v\n", *out, err)
		}
	}

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err == nil {
			defer f.Close()
			_ = pprof.WriteHeapProfile(f)
		}
	}

	trades := market.TradesCompleted()
	ordersPerSec := float64(sup.Emitted()) / elapsed.Seconds()
	tradesPerSec := float64(trades) / elapsed.Seconds()

	fmt.Printf("ingested %d orders in %s (%.0f orders/s)\n", sup.Emitted(), elapsed.Truncate(time.Millisecond), ordersPerSec)
	fmt.Printf("matched %d trades (%.0f trades/s)\n", trades, tradesPerSec)
	fmt.Printf("config: stocks=%d traders=%d arrival-rate=%d seed=%d\n", *stocks, *traders, *arrivalRate, *seed)
}
