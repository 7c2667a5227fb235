package main

import (
	"context"
	"errors"
	"io"
	"os/signal"
	"syscall"

	"gourmet-ordering/agg-svc/internal/service"
	"gourmet-ordering/agg-svc/internal/storage"
	"gourmet-ordering/config"
)

func main() {
	cfg := config.MustLoad()
	log := config.NewLogger("agg-svc", cfg.LogLevel)

	rdb := config.MustInitRedis()
	defer rdb.Close()

	reader := config.NewKafkaReader(cfg.OrderEventsTopic, cfg.OrderEventsGroup)
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := service.NewConsumer(reader, storage.NewStore(rdb), log)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		log.WithError(err).Fatal("consumer stopped")
	}
	log.Info("Aggregation Service stopped")
}
