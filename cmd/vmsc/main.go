package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/protei/vmsc/internal/logger"
	"github.com/protei/vmsc/pkg/config"
	"github.com/protei/vmsc/pkg/health"
	"github.com/protei/vmsc/pkg/orchestrator"
)

const (
	appName    = "vMSC"
	appVersion = "1.0.0"
)

var (
	configPath = flag.String("config", "./vmsc.conf", "Path to configuration file")
	version    = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("%s version %s\n", appName, appVersion)
		os.Exit(0)
	}

	fmt.Printf("🚀 Starting %s v%s\n", appName, appVersion)

	fmt.Println("📝 Loading configuration...")
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("📝 Initializing logger...")
	log, err := logger.New(logger.Config{
		Path:   "",
		Level:  "info",
		Format: "console",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	log.Info(appName+" initializing", "version", appVersion)

	fmt.Println("🩺 Starting health monitor...")
	hc := health.NewCheck(health.Config{Enabled: false})

	fmt.Println("📡 Wiring orchestrator...")
	orch := orchestrator.New(cfg, log, hc)
	if err := orch.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to start orchestrator: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ %s started successfully\n", appName)
	fmt.Printf("📞 Subscriber: %s / %s\n", cfg.Subscriber.IMSI, cfg.Subscriber.MSISDN)

	waitForShutdown(log)

	if err := orch.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "⚠️  Error during shutdown: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("👋 vMSC stopped gracefully")
}

func waitForShutdown(log *logger.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	log.Info("received shutdown signal", "signal", sig.String())
}
