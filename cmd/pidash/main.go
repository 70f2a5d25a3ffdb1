package main

//	@title						PiDash API
//	@version					0.1.0
//	@description				Dashboard backend for PiOrchestrator shelf controllers.
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT Bearer token. Format: "Bearer {token}"

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	_ "github.com/shelfsense/pidash/api/swagger"
	"github.com/shelfsense/pidash/internal/api"
	"github.com/shelfsense/pidash/internal/auth"
	"github.com/shelfsense/pidash/internal/config"
	"github.com/shelfsense/pidash/internal/contract"
	"github.com/shelfsense/pidash/internal/history"
	"github.com/shelfsense/pidash/internal/query"
	"github.com/shelfsense/pidash/internal/reach"
	"github.com/shelfsense/pidash/internal/server"
	"github.com/shelfsense/pidash/internal/version"
	"github.com/shelfsense/pidash/internal/ws"
)

func main() {
	// Subcommand dispatch (before flag.Parse).
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Println(version.Info())
			return
		case "hash-password":
			runHashPassword(os.Args[2:])
			return
		}
	}

	configPath := flag.String("config", "", "path to configuration file")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	// Optional .env for development; ignored when absent.
	_ = godotenv.Load()

	// Load configuration (before logger, so log level/format can be configured).
	cfg, viperCfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(viperCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("PiDash starting", zap.String("version", version.Short()))

	if f := viperCfg.ConfigFileUsed(); f != "" {
		logger.Info("configuration loaded",
			zap.String("component", "config"),
			zap.String("source", f),
		)
	} else {
		logger.Warn("no configuration file found, using defaults",
			zap.String("component", "config"),
		)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Open the local history database.
	hist, err := history.Open(cfg.History.Path)
	if err != nil {
		logger.Fatal("failed to open history database", zap.Error(err))
	}
	defer hist.Close()
	if err := hist.CheckVersion(ctx, version.Version); err != nil {
		logger.Fatal("history database version check failed", zap.Error(err))
	}
	logger.Info("history database initialized",
		zap.String("component", "history"),
		zap.String("path", cfg.History.Path),
	)

	// Orchestrator API client.
	client := api.New(api.Config{
		BaseURL:           cfg.Orchestrator.BaseURL,
		Token:             cfg.Orchestrator.Token,
		Timeout:           cfg.Orchestrator.Timeout,
		AllowBarePayloads: cfg.Orchestrator.AllowBarePayload,
	}, logger.Named("api"))

	store := query.NewStore(cfg.Cache.DefaultTTL, logger.Named("query"))

	// Reachability probe against the orchestrator host.
	var probe *reach.Probe
	if cfg.Reach.Enabled {
		host := cfg.Reach.Host
		if host == "" {
			host = hostFromURL(cfg.Orchestrator.BaseURL)
		}
		if host != "" {
			probe = reach.NewProbe(host, cfg.Reach.Interval, cfg.Reach.Timeout, logger.Named("reach"))
			go probe.Run(ctx)
			logger.Info("reachability probe started",
				zap.String("component", "reach"),
				zap.String("host", host),
			)
		}
	}

	// Auth: disabled unless a password hash is configured.
	secret := cfg.Auth.TokenSecret
	if secret == "" {
		// Ephemeral secret -- tokens won't survive restarts.
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			logger.Fatal("failed to generate token secret", zap.Error(err))
		}
		secret = hex.EncodeToString(b)
	}
	tokens := auth.NewTokenService([]byte(secret), cfg.Auth.TokenTTL)
	authService := auth.NewService(cfg.Auth.PasswordHash, tokens)
	authHandler := auth.NewHandler(authService, logger.Named("auth"))
	if authService.Enabled() {
		logger.Info("authentication enabled", zap.String("component", "auth"))
	} else {
		logger.Warn("authentication disabled (no auth.password_hash configured)",
			zap.String("component", "auth"),
		)
	}

	// WebSocket hub pushing orchestrator events to browsers.
	hub := ws.NewHub(logger.Named("ws"))
	wsHandler := ws.NewHandler(hub, auth.WSTokenValidator(authService), logger.Named("ws"))

	// Bridge: SSE from the orchestrator -> cache invalidation -> browser push.
	go client.RunEventLoop(ctx, func(ev api.Event) {
		switch ev.Type {
		case api.EventSessionUpdated:
			store.InvalidatePrefix("sessions:")
			if ev.SessionID != "" {
				store.Invalidate("session:" + ev.SessionID)
			}
		case api.EventCaptureUpdated:
			if ev.SessionID != "" {
				store.Invalidate("evidence:" + ev.SessionID)
			}
		case api.EventAnalysisUpdated:
			if ev.SessionID != "" {
				store.Invalidate("analysis:" + ev.SessionID)
			}
		case api.EventDoorChanged:
			store.Invalidate("door")
		}
		hub.Broadcast(ws.Message{
			Type:      ws.MessageType(ev.Type),
			SessionID: ev.SessionID,
			Timestamp: time.Now().UTC(),
			Data:      ev.Data,
		})
	})

	// Background poll: keep the system snapshot warm so the overview
	// renders from cache even after idle periods.
	systemPoller := query.NewPoller(cfg.Poll.SystemInterval, logger.Named("poll.system"))
	go systemPoller.Run(ctx, func(ctx context.Context) (bool, error) {
		store.Invalidate("system")
		_, err := query.Fetch(ctx, store, "system", cfg.Cache.DefaultTTL, client.SystemStatus)
		return false, err
	})

	// Background poll: keep active session history fresh even when no
	// browser is connected.
	sessionPoller := query.NewPoller(cfg.Poll.SessionInterval, logger.Named("poll.sessions"))
	go sessionPoller.Run(ctx, func(ctx context.Context) (bool, error) {
		sessions, err := client.ListSessions(ctx, api.SessionFilter{Status: contract.SessionActive})
		if err != nil {
			return false, err
		}
		for _, sess := range sessions {
			if err := hist.RecordSession(ctx, sess); err != nil {
				logger.Warn("record session history", zap.Error(err))
			}
		}
		return false, nil
	})

	// Reachability push: broadcast transitions so the frontend flips its
	// online/offline banner without polling.
	if probe != nil {
		go watchReachability(ctx, probe, hub)
	}

	handlers := server.NewHandlers(client, store, hist, probe, server.CacheTTLs{
		Default: cfg.Cache.DefaultTTL,
		Session: cfg.Cache.SessionTTL,
		Config:  cfg.Cache.ConfigTTL,
	}, logger.Named("handlers"))

	readyCheck := server.ReadinessChecker(func(ctx context.Context) error {
		return hist.Ping(ctx)
	})

	srv := server.New(cfg.Addr(), logger.Named("server"), readyCheck, authHandler, nil,
		cfg.Server.Dev, handlers, wsHandler)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	logger.Info("PiDash ready",
		zap.String("addr", cfg.Addr()),
		zap.String("orchestrator", cfg.Orchestrator.BaseURL),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("PiDash stopped")
}

// watchReachability broadcasts a message whenever the orchestrator flips
// between reachable and unreachable.
func watchReachability(ctx context.Context, probe *reach.Probe, hub *ws.Hub) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	var last *bool
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap, ok := probe.Snapshot()
			if !ok {
				continue
			}
			if last != nil && *last == snap.Reachable {
				continue
			}
			reachable := snap.Reachable
			last = &reachable

			data, err := json.Marshal(snap)
			if err != nil {
				continue
			}
			hub.Broadcast(ws.Message{
				Type:      ws.MessageReachability,
				Timestamp: time.Now().UTC(),
				Data:      data,
			})
		}
	}
}

// hostFromURL pulls the bare hostname out of the orchestrator base URL for
// the ping probe.
func hostFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// runHashPassword generates a bcrypt hash for the auth.password_hash config
// key without starting the server.
func runHashPassword(args []string) {
	fs := flag.NewFlagSet("hash-password", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: pidash hash-password <password>\n")
	}
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}

	hash, err := auth.HashPassword(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash-password: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
