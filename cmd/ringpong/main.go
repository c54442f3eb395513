package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ringpong/server/internal/config"
	"github.com/ringpong/server/internal/core/ecs"
	"github.com/ringpong/server/internal/core/event"
	coresys "github.com/ringpong/server/internal/core/system"
	"github.com/ringpong/server/internal/data"
	"github.com/ringpong/server/internal/handler"
	gonet "github.com/ringpong/server/internal/net"
	"github.com/ringpong/server/internal/net/packet"
	"github.com/ringpong/server/internal/persist"
	"github.com/ringpong/server/internal/scripting"
	"github.com/ringpong/server/internal/system"
	"github.com/ringpong/server/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string, serverID int) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              ringpong  v0.1.0             \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m        two-player paddle match server     \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mserver:\033[0m %s \033[90m(id: %d)\033[0m\n\n", serverName, serverID)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/server.toml"
	if p := os.Getenv("RINGPONG_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name, cfg.Server.ID)

	// 3. Optional PostgreSQL for match results
	printSection("database")

	var saver persist.ResultSaver = persist.Discard
	var ranks persist.LeaderboardSource
	if cfg.Database.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")

		if err := persist.RunMigrations(ctx, db.Pool); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK("migrations applied")
		repo := persist.NewMatchRepo(db)
		saver, ranks = repo, repo
	} else {
		printOK("disabled, results are not stored")
	}
	fmt.Println()

	// 4. Data tables and bot scripts
	printSection("data")

	arenas, err := data.LoadArenaTable(cfg.Arena.PresetFile)
	if err != nil {
		return fmt.Errorf("load arenas: %w", err)
	}
	if arenas.Get(cfg.Arena.DefaultPreset) == nil {
		return fmt.Errorf("default arena %q not in %s", cfg.Arena.DefaultPreset, cfg.Arena.PresetFile)
	}
	printStat("arena presets", arenas.Count())

	luaEngine, err := scripting.NewEngine(cfg.Bot.ScriptDir, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer luaEngine.Close()
	printOK("bot scripts loaded")
	fmt.Println()

	// 5. Game state
	ecsWorld := ecs.NewWorld()
	worldState := world.NewState(ecsWorld, cfg.Match.CodeLength)
	bus := event.NewBus()
	sessions := gonet.NewSessionStore()

	// 6. Message handlers
	pktReg := packet.NewRegistry(log)
	deps := &handler.Deps{
		Config:   cfg,
		Log:      log,
		World:    worldState,
		Arenas:   arenas,
		Bus:      bus,
		Sessions: sessions,
	}
	handler.RegisterAll(pktReg, deps)

	// 7. Network server
	netServer, err := gonet.NewServer(cfg.Network, cfg.RateLimit, log)
	if err != nil {
		return fmt.Errorf("net server: %w", err)
	}
	go netServer.AcceptLoop()

	// 8. Systems
	persistSys := system.NewPersistenceSystem(saver, cfg.Database.SaveTimeout, log)
	system.RegisterScoreboard(bus, worldState, sessions, persistSys, log)

	runner := coresys.NewRunner()
	runner.Register(system.NewInputSystem(netServer, pktReg, sessions, cfg.Network.MaxPacketsPerTick, deps, log))
	runner.Register(system.NewEventSystem(bus))
	runner.Register(system.NewMatchSystem(worldState, bus, luaEngine, cfg.Bot.PaddleSpeed, log))
	if ranks != nil {
		runner.Register(system.NewRankingSystem(ranks, netServer, cfg.Database.SaveTimeout, log))
	}
	runner.Register(system.NewOutputSystem(worldState, sessions, netServer, cfg.Network.BroadcastEvery))
	runner.Register(persistSys)
	runner.Register(system.NewCleanupSystem(ecsWorld))

	// 9. Game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Network.TickRate)
	defer ticker.Stop()

	printSection("ready")
	printReady(fmt.Sprintf("listening on %s (ws: /ws)", netServer.Addr().String()))
	printReady(fmt.Sprintf("game loop running (tick: %s)", cfg.Network.TickRate))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Network.TickRate)
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			persistSys.Flush()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := netServer.Shutdown(ctx); err != nil {
				log.Warn("http shutdown", zap.Error(err))
			}
			cancel()
			for _, sess := range sessions.Raw() {
				sess.Close()
			}
			log.Info("server stopped")
			return nil
		}
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
