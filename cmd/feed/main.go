package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/stockdesk/stockdesk/internal/config"
	"github.com/stockdesk/stockdesk/internal/feed"
	"github.com/stockdesk/stockdesk/internal/inventory"
	kafkax "github.com/stockdesk/stockdesk/internal/kafka"
	"github.com/stockdesk/stockdesk/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &feed.Service{
		Redis:       rdb,
		ServiceName: cfg.ServiceName + "-feed",
	}

	group := getenv("FEED_GROUP", "activity-feed")
	workers := mustAtoi(os.Getenv("FEED_WORKERS"), "4")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, inventory.TopicActivity, workers)

	go func() {
		log.Printf("feed consumer started: group=%s topic=%s workers=%d", group, inventory.TopicActivity, workers)
		if err := cons.Start(ctx, svc.HandleActivityRecorded); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down consumer...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}
