package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pion/webrtc/v4"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	router "github.com/dkeye/meetsignal/internal/adapters/http"
	"github.com/dkeye/meetsignal/internal/adapters/rtc"
	wssignal "github.com/dkeye/meetsignal/internal/adapters/signal"
	"github.com/dkeye/meetsignal/internal/app/orch"
	"github.com/dkeye/meetsignal/internal/config"
	"github.com/dkeye/meetsignal/internal/meetingid"
	"github.com/dkeye/meetsignal/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.Mode == "release" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	sink, err := store.Open(ctx, store.Options{
		Drivers:     cfg.Sink.Drivers,
		PostgresURL: cfg.Postgres.URL,
		KafkaBroker: cfg.Kafka.Brokers,
		KafkaTopic:  cfg.Kafka.Topic,
		RedisURL:    cfg.Redis.URL,
		RedisPrefix: cfg.Redis.Prefix,
	})
	if err != nil {
		log.Error().Err(err).Msg("persistence sink unavailable, events will not be stored")
		sink = store.Nop{}
	}
	events := store.NewDispatcher(sink, cfg.Sink.QueueSize, cfg.Sink.Timeout)

	o := orch.New(nil, events)
	o.RemovalGrace = cfg.RemovalGrace

	gateway := wssignal.NewSignalWSController(o, wssignal.Options{
		ReadLimit:     cfg.ReadLimit,
		PingPeriod:    cfg.PingPeriod,
		WriteWait:     cfg.WriteWait,
		SendBuffer:    cfg.SendBuffer,
		RatePerSecond: cfg.RateLimit.PerSecond,
		RateBurst:     cfg.RateLimit.Burst,
	})

	ice := rtc.NewICEConfig(lo.Map(cfg.ICE, func(s config.ICEServerConfig, _ int) webrtc.ICEServer {
		return webrtc.ICEServer{URLs: s.URLs, Username: s.Username, Credential: s.Credential}
	}))

	r := router.SetupRouter(ctx, cfg, router.Deps{
		Orch:   o,
		Signal: gateway,
		IDs:    meetingid.New(cfg.Meeting.SecretKey),
		ICE:    ice,
	})

	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	if _, err := quartz.AddFunc(cfg.Stats.Schedule, func() {
		st := o.Stats()
		log.Info().
			Str("module", "stats").
			Int("meetings", st.ActiveMeetings).
			Int("participants", st.ActiveParticipants).
			Int("calls", st.ActiveCalls).
			Int("connections", gateway.Count()).
			Msg("stats")
	}); err != nil {
		log.Warn().Err(err).Str("schedule", cfg.Stats.Schedule).Msg("stats job disabled")
	}
	quartz.Start()

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router.WithCORS(r, cfg.CORS.AllowedOrigins),
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("signaling server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	<-quartz.Stop().Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	gateway.CloseAll()
	if err := events.Close(); err != nil {
		log.Error().Err(err).Msg("close sink")
	}
	log.Info().Msg("Server exited gracefully")
}
