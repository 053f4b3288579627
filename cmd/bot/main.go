package main

import (
	"context"
	"errors"
	"flag"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/naigolf/bitgolf/internal/bitkub"
	"github.com/naigolf/bitgolf/internal/config"
	"github.com/naigolf/bitgolf/internal/feed"
	"github.com/naigolf/bitgolf/internal/journal"
	"github.com/naigolf/bitgolf/internal/market"
	"github.com/naigolf/bitgolf/internal/metrics"
	"github.com/naigolf/bitgolf/internal/notify"
	"github.com/naigolf/bitgolf/internal/position"
	"github.com/naigolf/bitgolf/internal/risk"
	"github.com/naigolf/bitgolf/internal/trader"
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
	log = util.NewLogger(cfg.App.LogLevel)

	if cfg.App.MetricsAddr != "" {
		_ = metrics.Serve(cfg.App.MetricsAddr)
		log.Info().Str("addr", cfg.App.MetricsAddr).Msg("metrics up")
	}

	ctx, cancel := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client := bitkub.NewClient(cfg.Exchange.BaseURL, cfg.Exchange.APIKey, cfg.Exchange.APISecret, log,
		bitkub.WithPrecision(bitkub.Precision{Price: cfg.Exchange.PricePlaces, Amount: cfg.Exchange.AmountPlaces}))

	verifySymbol(ctx, client, cfg.Exchange.Symbol, log)

	store := position.NewStore(cfg.Trader.StatePath)
	if err := store.Load(); err != nil {
		log.Fatal().Err(err).Msg("load position snapshot")
	}

	jw, err := journal.NewWriter(cfg.Trader.JournalPath)
	if err != nil {
		log.Fatal().Err(err).Msg("open trade journal")
	}
	defer jw.Close()

	reporters := notify.Multi{notify.NewLog(log)}
	if cfg.Notify.Enabled {
		reporters = append(reporters, notify.NewTelegram(cfg.Notify.BaseURL, cfg.Notify.Token, cfg.Notify.ChatID, log))
	}

	bot := trader.New(trader.Config{
		Params: position.Params{
			Symbol:          cfg.Exchange.Symbol,
			BuyDropPercent:  decimal.NewFromFloat(cfg.Strategy.BuyDropPercent),
			SellGainPercent: decimal.NewFromFloat(cfg.Strategy.SellGainPercent),
			TradeSize:       decimal.NewFromFloat(cfg.Strategy.TradeSize),
			PricePlaces:     cfg.Exchange.PricePlaces,
			AmountPlaces:    cfg.Exchange.AmountPlaces,
		},
		Limits: risk.Limits{MaxNotionalPerTrade: decimal.NewFromFloat(cfg.Risk.MaxNotionalPerTrade)},
		DryRun: cfg.Trader.DryRun,
	}, client, store, jw, reporters, log)

	ticks := make(chan market.Quote, 16)
	src := feed.New(cfg.Feed.Provider, cfg.Exchange.Symbol, client, log,
		feed.WithPollInterval(time.Duration(cfg.Feed.PollIntervalMs)*time.Millisecond),
		feed.WithStreamURL(cfg.Feed.StreamURL))

	go func() {
		if err := src.Run(ctx, ticks); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("feed stopped")
			cancel()
		}
	}()

	log.Info().
		Str("symbol", cfg.Exchange.Symbol).
		Bool("dry_run", cfg.Trader.DryRun).
		Msg("trading loop started")

	for {
		select {
		case <-ctx.Done():
			// The feed stops delivering ticks; a tick already inside RunOnce
			// has finished by the time we get here because ticks are handled
			// synchronously on this goroutine.
			log.Info().Msg("shutting down")
			return
		case q := <-ticks:
			log.Debug().Str("last", q.Last.String()).Msg("tick received")
			outcome := bot.RunOnce(ctx)
			if outcome.Kind == market.OutcomeReconcile {
				log.Warn().Str("reason", outcome.Reason).Msg("trading halted pending reconciliation")
			}
		}
	}
}

// verifySymbol checks the configured pair against the venue's listing at
// startup. An unknown symbol is a configuration mistake and fatal; a venue
// that is merely unreachable at boot is not.
func verifySymbol(ctx context.Context, client *bitkub.Client, symbol string, log zerolog.Logger) {
	infos, err := client.Symbols(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("could not verify symbol at startup")
		return
	}
	if !bitkub.HasSymbol(infos, symbol) {
		log.Fatal().Str("symbol", symbol).Msg("symbol not listed on exchange")
	}
}
