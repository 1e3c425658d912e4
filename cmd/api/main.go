package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	kafkago "github.com/segmentio/kafka-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/stockdesk/stockdesk/internal/config"
	"github.com/stockdesk/stockdesk/internal/httpx"
	"github.com/stockdesk/stockdesk/internal/inventory"
	kafkax "github.com/stockdesk/stockdesk/internal/kafka"
	"github.com/stockdesk/stockdesk/internal/postgres"
	"github.com/stockdesk/stockdesk/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer for the activity feed
	prod := kafkax.NewProducer(cfg.KafkaBrokers, inventory.TopicActivity, 1024)
	prod.Start(ctx)

	publish := activityPublisher(prod, cfg.ServiceName)

	// Store
	var store inventory.Store
	switch cfg.Store {
	case "memory":
		mem := inventory.NewMemStore(nil)
		mem.SetActivityHook(publish)
		if cfg.Seed {
			hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
			if err != nil {
				log.Fatalf("seed: %v", err)
			}
			if err := inventory.SeedDemoData(ctx, mem, string(hash)); err != nil {
				log.Fatalf("seed: %v", err)
			}
			log.Println("demo data loaded")
		}
		store = mem
	default:
		db, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("db connect: %v", err)
		}
		defer db.Close()
		if err := postgres.Bootstrap(ctx, db); err != nil {
			log.Fatalf("db bootstrap: %v", err)
		}
		pg := inventory.NewPgStore(db)
		pg.SetActivityHook(publish)
		store = pg
	}

	// Router & handlers
	sessions := &httpx.Sessions{Redis: rdb}
	router := httpx.NewRouter()
	(&httpx.AuthHandler{Store: store, Sessions: sessions}).Register(router)
	(&httpx.Handler{Store: store, Redis: rdb}).Register(router, sessions.RequireAuth)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s (store=%s)", cfg.HTTPAddr, cfg.Store)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close() // close inbox -> flush & close writer
	cancel()
	prod.WaitClosed() // drain
}

// activityPublisher wraps each recorded activity in an event envelope and
// hands it to the async producer.
func activityPublisher(prod *kafkax.Producer, service string) func(inventory.Activity) {
	return func(a inventory.Activity) {
		ev := inventory.Envelope{
			EventID:      uuid.NewString(),
			EventType:    inventory.EventActivityRecorded,
			EventVersion: 1,
			OccurredAt:   time.Now().UTC(),
			Producer:     service,
			Payload:      kafkax.MustMarshal(inventory.ActivityRecordedPayload{Activity: a}),
		}
		prod.Publish(inventory.PartitionKey(a.ID), kafkax.MustMarshal(ev),
			kafkago.Header{Key: "x-event-type", Value: []byte(inventory.EventActivityRecorded)},
			kafkago.Header{Key: "x-event-version", Value: []byte("1")},
		)
	}
}
