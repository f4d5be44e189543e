package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	httpadp "collateral-lending/internal/adapter/http"
	mw "collateral-lending/internal/adapter/middleware"
	"collateral-lending/internal/adapter/repository/mysql"
	"collateral-lending/internal/config"
	"collateral-lending/internal/domain/event"
	"collateral-lending/internal/domain/lending"
	"collateral-lending/internal/domain/oracle"
	"collateral-lending/internal/infrastructure/cache"
	"collateral-lending/internal/infrastructure/db"
	"collateral-lending/internal/infrastructure/events"
	"collateral-lending/internal/infrastructure/metrics"
	oracleinfra "collateral-lending/internal/infrastructure/oracle"
	"collateral-lending/internal/usecase/account"
	"collateral-lending/internal/usecase/loan"
	"collateral-lending/internal/usecase/repayment"
	"collateral-lending/internal/usecase/view"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("api: exiting", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts := db.DefaultPoolOptions()
	opts.LogLevel = db.ParseLogLevel(cfg.DBLogLevel)
	gdb, err := db.OpenGorm(cfg.MySQLDSN(), opts)
	if err != nil {
		return err
	}
	if cfg.AutoMigrate {
		if err := db.Migrate(gdb); err != nil {
			return err
		}
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer rdb.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewLending(reg)

	loans := mysql.NewLoanRepository(gdb)
	open, err := loans.CountOpen(context.Background())
	if err != nil {
		return err
	}
	m.SetOpenLoans(open)

	rates := lending.DefaultRateTable()
	ledger := lending.NewLedger(rates, cfg.CollateralDecimals, cfg.MaxOpenLoans)
	units := view.Units{Collateral: cfg.CollateralDecimals, Stable: cfg.StableDecimals}
	price := oracle.Checked(priceSource(cfg, rdb), cfg.OraclePolicy())
	sink := eventSink(cfg, rdb, logger)

	accounts := mysql.NewAccountRepository(gdb)
	tx := mysql.NewGormUoW(gdb)
	accountUC := account.NewUsecase(accounts, mysql.NewTransferRepository(gdb), tx, sink, m, units)
	loanUC := loan.NewUsecase(accounts, loans, tx, ledger, price, sink, m, units)
	repayUC := repayment.NewUsecase(tx, ledger, sink, m, units)

	health := httpadp.NewHandler(
		httpadp.Check{Name: "mysql", Ping: sqlDB.PingContext},
		httpadp.Check{Name: "redis", Ping: cache.Pinger(rdb)},
	)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())

	httpadp.RegisterRoutes(e, httpadp.Handlers{
		Health:     health,
		Accounts:   httpadp.NewAccountHandler(accountUC, units),
		Loans:      httpadp.NewLoanHandler(loanUC, units),
		Repayments: httpadp.NewRepaymentHandler(repayUC, units),
	}, mw.Identity(), mw.Idempotency(rdb, mw.IdempotencyConfig{TTL: cfg.IdempotencyTTL(), Logger: logger}))
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.AppPort
	errc := make(chan error, 1)
	go func() {
		logger.Info("api: listening", "addr", addr, "oracle", cfg.OracleMode, "max_open_loans", cfg.MaxOpenLoans)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func priceSource(cfg *config.Config, rdb *redis.Client) oracle.Oracle {
	if cfg.OracleMode == config.OracleRedis {
		return oracleinfra.NewRedis(rdb, cfg.OracleAsset)
	}
	return oracleinfra.NewStatic(cfg.OracleStaticPrice, 0)
}

func eventSink(cfg *config.Config, rdb *redis.Client, logger *slog.Logger) event.Sink {
	log := events.NewLogSink(logger)
	if cfg.EventsStream == "off" {
		return log
	}
	return events.Fanout{log, events.NewRedisStream(rdb, cfg.EventsStream, cfg.EventsStreamMaxLen, logger)}
}
