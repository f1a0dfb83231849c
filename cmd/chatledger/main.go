package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/chatledger/chatledger/internal/domain/common"
	"github.com/chatledger/chatledger/internal/domain/currency"
	"github.com/chatledger/chatledger/internal/domain/ledger"
	"github.com/chatledger/chatledger/internal/domain/ledger/memory"
	ledgerpg "github.com/chatledger/chatledger/internal/domain/ledger/postgres"
	"github.com/chatledger/chatledger/internal/domain/recon"
	"github.com/chatledger/chatledger/internal/domain/recon/service"
	"github.com/chatledger/chatledger/pkg/config"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("error loading .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	logger.Info("starting chatledger")

	ctx := context.Background()
	svc, err := buildService(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize service", "error", err)
		os.Exit(1)
	}

	if err := runLoop(ctx, svc, cfg); err != nil {
		logger.Error("session error", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Log.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Log.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

// demoUserID keys the demo session; the in-memory store is seeded for it.
var demoUserID = uuid.MustParse("00000000-0000-0000-0000-00000000d090")

func buildService(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*service.Service, error) {
	registry := currency.DefaultRegistry()
	throttle := service.NewThrottle(float64(cfg.Throttle.ExtractionsPerMinute), cfg.Throttle.Burst)
	extractor := &heuristicExtractor{}
	converter := staticConverter{}

	if cfg.Database.URL != "" {
		pool, err := pgxpool.New(ctx, cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			return nil, fmt.Errorf("pinging postgres: %w", err)
		}
		return service.NewService(
			extractor,
			ledgerpg.NewAccountRepo(pool, logger),
			ledgerpg.NewCategoryRepo(pool, logger),
			ledgerpg.NewTagRepo(pool, logger),
			ledgerpg.NewEntryRepo(pool, logger),
			registry, converter, throttle, logger,
		), nil
	}

	store := memory.NewStore()
	seedDemo(store)
	return service.NewService(
		extractor, store, store, store, store,
		registry, converter, throttle, logger,
	), nil
}

func seedDemo(store *memory.Store) {
	store.Seed(
		[]*ledger.Account{
			{
				ID: uuid.New(), UserID: demoUserID, Name: "Вне кошелька",
				IsOutside: true,
			},
			{
				ID: uuid.New(), UserID: demoUserID, Name: "Карта", IsDefault: true,
				Holdings: []ledger.Holding{
					{Currency: "UAH", Amount: decimal.NewFromInt(20000)},
					{Currency: "USD", Amount: decimal.NewFromInt(800)},
				},
			},
			{
				ID: uuid.New(), UserID: demoUserID, Name: "Наличные",
				Holdings: []ledger.Holding{
					{Currency: "UAH", Amount: decimal.NewFromInt(3000)},
				},
			},
		},
		[]*ledger.Category{
			{ID: uuid.New(), UserID: demoUserID, Name: "Еда"},
			{ID: uuid.New(), UserID: demoUserID, Name: "Транспорт"},
			{ID: uuid.New(), UserID: demoUserID, Name: "Развлечения"},
		},
	)
}

func runLoop(ctx context.Context, svc *service.Service, cfg *config.Config) error {
	fmt.Println("chatledger demo session. Describe a transaction, empty line to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			return nil
		}

		result, err := svc.Run(ctx, demoUserID, service.Input{
			Text:     text,
			Source:   recon.SourceText,
			Timezone: cfg.Pipeline.Timezone,
		})
		if err != nil {
			printFailure(err)
			continue
		}
		if len(result.Entries) == 0 {
			fmt.Println("не удалось распознать операцию")
			continue
		}
		for _, entry := range result.Entries {
			printEntry(entry)
		}
	}
}

func printFailure(err error) {
	var missing *common.MissingFieldsError
	switch {
	case errors.As(err, &missing):
		fmt.Printf("не хватает данных: %s\n", strings.Join(missing.Reasons, ", "))
	case errors.Is(err, common.ErrExtractionRateLimited):
		fmt.Println("слишком много запросов, подождите минуту")
	default:
		fmt.Printf("ошибка: %v\n", err)
	}
}

func printEntry(e *ledger.Entry) {
	line := fmt.Sprintf("%s %s %s", e.Direction, e.Amount, e.Currency)
	if e.ExchangeLike() {
		line += fmt.Sprintf(" -> %s %s", e.ConvertedAmount, e.ConvertTo)
	}
	if e.Description != "" {
		line += " (" + e.Description + ")"
	}
	fmt.Printf("записано: %s, %s\n", line, e.TransactionDate.Format("2006-01-02"))
}
