package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/metrics"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		Name:  cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Dur("interval", cfg.Sweeper.Interval).
		Msg("iniciando barrido de vencidos")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	ledgerMetrics, err := metrics.NewLedger(prometheus.DefaultRegisterer, "inventario")
	if err != nil {
		log.Fatal().Err(err).Msg("registrar métricas")
	}

	txRunner := postgres.NewTxRunner(pool, postgres.TxOptions{
		MaxRetries:       cfg.Ledger.TxMaxRetries,
		StatementTimeout: cfg.Ledger.StatementTimeout,
	}, log, ledgerMetrics)
	svc := inventory.NewService(txRunner, log,
		inventory.WithLocation(cfg.Ledger.Location()),
		inventory.WithMetrics(ledgerMetrics),
	)

	sweep := func() {
		n, err := svc.MarkExpiredBatches(ctx)
		if err != nil {
			log.Error().Err(err).Msg("barrido de vencidos")
			return
		}
		log.Debug().Int64("expired", n).Msg("barrido completado")
	}

	sweep()
	if cfg.Sweeper.Interval <= 0 {
		return
	}

	ticker := time.NewTicker(cfg.Sweeper.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("deteniendo barrido")
			return
		case <-ticker.C:
			sweep()
		}
	}
}
