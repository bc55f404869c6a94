// Command seeder is the position-bootstrap helper the trading host shells
// out to when the on-chain position precompile reports leverage=0. It sets
// leverage and/or places one IOC order via the exchange REST API and prints
// exactly one JSON result line to stdout.
//
// Usage:
//
//	seeder seed_trade --key 0x... --asset BTC --leverage 5 \
//	    --is-buy true --size 0.001 --price 67000.0
//
//	seeder set_leverage --key 0x... --asset BTC --leverage 10
//
//	seeder close_position --key 0x... --asset BTC --size 0.001 --price 66000.0
//
// Malformed arguments exit non-zero before any network activity. Every other
// outcome, including all business and network failures, exits 0; the host
// must inspect the "status" field of the JSON result, not the exit code.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"hl-seeder/config"
	"hl-seeder/gateway"
	"hl-seeder/infrastructure/logger"
	"hl-seeder/monitor"
	"hl-seeder/seeder"
)

// invocation is one parsed command line. set tracks which flags were given
// explicitly so config-file defaults only fill the gaps.
type invocation struct {
	action   string
	cfgPath  string
	key      string
	hlURL    string
	asset    string
	leverage int
	isBuyRaw string
	size     float64
	price    float64
	set      map[string]bool
}

func usage(out *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, "usage: seeder {%s|%s|%s} [flags]\n",
		seeder.ActionSetLeverage, seeder.ActionSeedTrade, seeder.ActionClosePosition)
	out.PrintDefaults()
}

// parseArgs validates the action and flags. It performs no I/O.
func parseArgs(args []string) (*invocation, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("missing action")
	}
	inv := &invocation{action: args[0], set: map[string]bool{}}
	switch inv.action {
	case seeder.ActionSetLeverage, seeder.ActionSeedTrade, seeder.ActionClosePosition:
	default:
		return nil, fmt.Errorf("invalid action %q", inv.action)
	}

	fs := flag.NewFlagSet("seeder", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() { usage(fs) }
	fs.StringVar(&inv.key, "key", "", "API wallet private key (0x-prefixed hex)")
	fs.StringVar(&inv.hlURL, "hl-url", gateway.Mainnet, "Hyperliquid API URL")
	fs.StringVar(&inv.asset, "asset", "BTC", "asset symbol")
	fs.IntVar(&inv.leverage, "leverage", 10, "leverage multiplier")
	fs.StringVar(&inv.isBuyRaw, "is-buy", "true", "order side: true=buy, false=sell")
	fs.Float64Var(&inv.size, "size", 0.0, "order size in base asset")
	fs.Float64Var(&inv.price, "price", 0.0, "limit price in USD")
	fs.StringVar(&inv.cfgPath, "config", "", "optional YAML config with defaults")
	if err := fs.Parse(args[1:]); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { inv.set[f.Name] = true })
	return inv, nil
}

// isBuy matches the literal text "true" case-insensitively; anything else is
// the sell side.
func (inv *invocation) isBuy() bool {
	return strings.EqualFold(inv.isBuyRaw, "true")
}

// resolve overlays config-file/env defaults under the explicitly set flags.
func resolve(inv *invocation) (config.AppConfig, error) {
	cfg, err := config.LoadWithEnvOverrides(inv.cfgPath)
	if err != nil {
		return cfg, err
	}
	if inv.set["key"] {
		cfg.Gateway.PrivateKey = inv.key
	}
	if inv.set["hl-url"] {
		cfg.Gateway.BaseURL = inv.hlURL
	}
	if inv.set["asset"] {
		cfg.Seed.Asset = inv.asset
	}
	if inv.set["leverage"] {
		cfg.Seed.Leverage = inv.leverage
	}
	return cfg, nil
}

func main() {
	inv, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "seeder: %v\n", err)
		fmt.Fprintf(os.Stderr, "usage: seeder {%s|%s|%s} [flags]\n",
			seeder.ActionSetLeverage, seeder.ActionSeedTrade, seeder.ActionClosePosition)
		os.Exit(2)
	}

	cfg, err := resolve(inv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "seeder: %v\n", err)
		os.Exit(2)
	}
	if cfg.Gateway.PrivateKey == "" {
		fmt.Fprintln(os.Stderr, "seeder: --key is required (or HL_SEEDER_KEY)")
		os.Exit(2)
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		fmt.Fprintf(os.Stderr, "seeder: %v\n", err)
		os.Exit(2)
	}
	defer log.Sync()

	mon := monitor.New(monitor.DefaultConfig())
	connect := func() (seeder.Exchange, error) {
		return gateway.NewExchangeClient(gateway.ExchangeConfig{
			PrivateKey: cfg.Gateway.PrivateKey,
			BaseURL:    cfg.Gateway.BaseURL,
			HTTPClient: gateway.NewDefaultHTTPClient(time.Duration(cfg.Gateway.TimeoutSeconds) * time.Second),
			Limiter:    gateway.NewTokenBucketLimiter(cfg.Gateway.RateLimit.Rate, cfg.Gateway.RateLimit.Burst),
			Monitor:    mon,
		})
	}

	params := seeder.Params{
		Asset:    cfg.Seed.Asset,
		Leverage: cfg.Seed.Leverage,
		IsBuy:    inv.isBuy(),
		Size:     inv.size,
		Price:    inv.price,
	}
	log.Debug("running action",
		zap.String("action", inv.action),
		zap.String("asset", params.Asset),
		zap.Int("leverage", params.Leverage),
		zap.Bool("is_buy", params.IsBuy),
		zap.Float64("size", params.Size),
		zap.Float64("price", params.Price),
	)

	result := seeder.Run(inv.action, connect, params)
	if result.Status == seeder.StatusError {
		log.Warn("action failed", zap.String("step", result.Step), zap.String("detail", result.Detail))
	}

	out, err := json.Marshal(result)
	if err != nil {
		// Result is a flat struct of strings; this cannot happen in practice.
		fmt.Fprintf(os.Stderr, "seeder: encode result: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
