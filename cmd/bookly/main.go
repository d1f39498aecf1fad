package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/jomacs/bookly/internal/blocklist"
	"github.com/jomacs/bookly/internal/config"
	"github.com/jomacs/bookly/internal/db"
	"github.com/jomacs/bookly/internal/events"
	"github.com/jomacs/bookly/internal/httpserver"
	"github.com/jomacs/bookly/internal/logging"
	loggingmw "github.com/jomacs/bookly/internal/middleware/logging"
	"github.com/jomacs/bookly/internal/repo"
	"github.com/jomacs/bookly/internal/service"
	"github.com/jomacs/bookly/internal/tokens"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Use(loggingmw.RequestLogger(logger))

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gormDB, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer rdb.Close()

	producer := events.NewProducer(cfg.KafkaBrokers, "bookly_events")
	defer producer.Close()

	codec := tokens.NewCodec(cfg.JWTSecret)
	codec.AccessTTL = cfg.AccessTTL
	codec.RefreshTTL = cfg.RefreshTTL

	store := blocklist.New(rdb)

	users := &repo.UserRepo{DB: gormDB}
	books := &repo.BookRepo{DB: gormDB}
	reviews := &repo.ReviewRepo{DB: gormDB}

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{
			Svc: &service.AuthService{
				Users:     users,
				Codec:     codec,
				Blocklist: store,
				Producer:  producer,
			},
		},
		BookHandler: &httpserver.BookHTTP{
			Svc: &service.BookService{Books: books, Producer: producer},
		},
		ReviewHandler: &httpserver.ReviewHTTP{
			Svc: &service.ReviewService{
				Reviews:  reviews,
				Books:    books,
				Users:    users,
				Producer: producer,
			},
		},
		UserHandler: &httpserver.UserHTTP{Users: users},

		Users:     users,
		Codec:     codec,
		Blocklist: store,
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.ServerPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}
}
