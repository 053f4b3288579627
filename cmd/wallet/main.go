// Binary wallet runs a one-shot connectivity check: server time, balances,
// and the current price for the configured symbol. Useful for verifying
// credentials before letting the bot trade.
package main

import (
	"context"
	"flag"
	"time"

	"github.com/naigolf/bitgolf/internal/bitkub"
	"github.com/naigolf/bitgolf/internal/config"
	"github.com/naigolf/bitgolf/internal/util"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to YAML configuration")
	flag.Parse()

	log := util.NewLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := bitkub.NewClient(cfg.Exchange.BaseURL, cfg.Exchange.APIKey, cfg.Exchange.APISecret, log)

	ts, err := client.ServerTime(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("server time")
	}
	log.Info().Int64("server_time", ts).Msg("exchange reachable")

	quote, err := client.Ticker(ctx, cfg.Exchange.Symbol)
	if err != nil {
		log.Fatal().Err(err).Msg("ticker")
	}
	log.Info().Str("symbol", quote.Symbol).Str("last", quote.Last.String()).Msg("current price")

	balances, err := client.Wallet(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("wallet")
	}
	for asset, amount := range balances {
		if amount.IsZero() {
			continue
		}
		log.Info().Str("asset", asset).Str("available", amount.String()).Msg("balance")
	}
}
