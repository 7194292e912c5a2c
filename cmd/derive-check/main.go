// derive-check exercises the trading client end to end against the
// configured network: public market data, session login, and the private
// account/position/collateral queries. It never places orders.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/betbot/goderive/derive/client"
	"github.com/betbot/goderive/derive/types"
	"github.com/betbot/goderive/pkg/config"
	"github.com/betbot/goderive/pkg/credentials"
	"github.com/betbot/goderive/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "optional yaml config file")
	currency := flag.String("currency", "ETH", "currency for the instrument listing")
	kind := flag.String("kind", "option", "instrument kind: option, perp or spot")
	envFile := flag.String("env", "", "optional .env file with credentials")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if err := logger.Init(cfg.Log); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var creds credentials.Credentials
	var err error
	if *envFile != "" {
		creds, err = credentials.Load(*envFile)
	} else {
		creds, err = credentials.Load()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if cfg.Network != "" {
		creds.Network = types.Network(cfg.Network)
	}

	c, err := client.New(creds, &client.Options{
		Timeout: cfg.HTTP.Timeout(),
		Retry: client.RetryPolicy{
			Count:       cfg.HTTP.RetryCount,
			WaitTime:    time.Duration(cfg.HTTP.RetryWaitMs) * time.Millisecond,
			MaxWaitTime: time.Duration(cfg.HTTP.RetryMaxWaitMs) * time.Millisecond,
		},
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	fmt.Printf("fetching %s %s instruments...\n", *currency, *kind)
	instruments := c.GetInstruments(ctx, *currency, types.InstrumentKind(*kind))
	fmt.Printf("  found %d instruments\n", len(instruments))
	if len(instruments) > 0 {
		fmt.Printf("  example: %s\n", instruments[0].InstrumentName)
	}

	fmt.Println("testing authentication...")
	if err := c.Login(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "  login failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("  login ok")

	if account, err := c.GetAccount(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "  account: %v\n", err)
	} else if account != nil {
		fmt.Printf("  account: %s\n", summarize(account, 300))
	}

	positions, err := c.GetPositions(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  positions: %v\n", err)
	} else if len(positions) == 0 {
		fmt.Println("  no open positions")
	} else {
		for _, p := range positions {
			fmt.Printf("  %s: %s %s @ %s\n", p.InstrumentName, p.Side, p.Amount, p.AveragePrice)
		}
	}

	collaterals, err := c.GetCollaterals(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  collaterals: %v\n", err)
	} else {
		for _, col := range collaterals {
			fmt.Printf("  collateral %s: %s\n", col.AssetName, col.Amount)
		}
	}
}

func summarize(raw json.RawMessage, n int) string {
	s := string(raw)
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
