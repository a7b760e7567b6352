package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ai-mommy/photobooth-bot/internal/api"
	"github.com/ai-mommy/photobooth-bot/internal/config"
	"github.com/ai-mommy/photobooth-bot/internal/dispatcher"
	"github.com/ai-mommy/photobooth-bot/internal/handlers"
	"github.com/ai-mommy/photobooth-bot/internal/lifecycle"
	"github.com/ai-mommy/photobooth-bot/internal/middleware"
	"github.com/ai-mommy/photobooth-bot/internal/notify"
	"github.com/ai-mommy/photobooth-bot/internal/payment"
	"github.com/ai-mommy/photobooth-bot/internal/queue"
	"github.com/ai-mommy/photobooth-bot/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	redisAddr := fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort)
	rdb, err := store.NewRedisClient(redisAddr, cfg.RedisPassword, cfg.RedisDB, "photobooth")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer rdb.Close()

	pendingStore := store.NewRedisPendingStore(rdb, cfg.PendingInputTTL)

	pgStore, err := store.NewPostgresStore(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Postgres")
	}
	defer pgStore.Close()

	publisher := queue.NewPublisher(cfg.KafkaBrokers, cfg.KafkaJobsTopic)
	defer publisher.Close()

	gateway := payment.NewClient(cfg.YookassaShopID, cfg.YookassaSecretKey, nil)

	httpClient := &http.Client{Timeout: 10 * time.Minute}
	pollTimeout := 50 * time.Second
	b, err := bot.New(cfg.BotToken, bot.WithHTTPClient(pollTimeout, httpClient))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create bot")
	}

	notifier := notify.NewTelegramNotifier(b)
	controller := lifecycle.NewController(pgStore, pendingStore, publisher, gateway, notifier, cfg.PaymentReturnURL, cfg.PendingInputTTL)

	disp := dispatcher.NewDispatcher(pgStore, dispatcher.NewStubProcessor(), notifier)
	var workers sync.WaitGroup
	consumers := make([]*queue.Consumer, 0, cfg.FulfillmentWorkers)
	for i := 0; i < cfg.FulfillmentWorkers; i++ {
		consumer := queue.NewConsumer(cfg.KafkaBrokers, cfg.KafkaJobsTopic, cfg.KafkaConsumerGroup)
		consumers = append(consumers, consumer)
		workers.Add(1)
		go func() {
			defer workers.Done()
			if err := consumer.Start(ctx, disp.Dispatch); err != nil {
				log.Error().Err(err).Msg("fulfillment consumer exited")
			}
		}()
	}

	h := handlers.NewHandlers(controller, pgStore)
	middlewares := middleware.NewMessageAnalyzer(pgStore)
	handlerChain := middlewares.TrackUserMiddleware(
		middlewares.AnalyzeMessageMiddleware(
			h.MainHandler,
		),
	)

	b.RegisterHandlerMatchFunc(func(update *models.Update) bool {
		return update.Message != nil
	}, handlerChain)
	b.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, handlerChain)

	useWebhook := cfg.PublicURL != ""

	var telegramWebhook http.HandlerFunc
	if useWebhook {
		telegramWebhook = b.WebhookHandler()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	api.NewRouter(controller, cfg.YookassaWebhookSecret, telegramWebhook).SetUp(engine)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: engine,
	}
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("http server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("http server failed")
			cancel()
		}
	}()

	if useWebhook {
		if _, err := b.SetWebhook(ctx, &bot.SetWebhookParams{URL: cfg.PublicURL + "/telegram/webhook"}); err != nil {
			log.Fatal().Err(err).Msg("failed to set webhook")
		}
		log.Info().Str("url", cfg.PublicURL).Msg("bot started in webhook mode")
		b.StartWebhook(ctx)
	} else {
		log.Info().Msg("bot started in long polling mode")
		b.Start(ctx)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}
	for _, consumer := range consumers {
		if err := consumer.Close(); err != nil {
			log.Error().Err(err).Msg("consumer close failed")
		}
	}
	workers.Wait()
	log.Info().Msg("shutdown complete")
}

func setupLogger(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}
