package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/sensorlink/internal/config"
	"github.com/danmuck/sensorlink/internal/observability"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "sensorlinkctl: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to a TOML config file")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	observability.InitLogger("sensorlinkctl")
	observability.SetLevel(cfg.LogLevel)
	observability.RegisterMetrics()
	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	log.Info().
		Str("transport", cfg.Transport).
		Msg("starting")

	switch cfg.Transport {
	case config.TransportShdlcSerial:
		return runShdlcProbe(cfg)
	default:
		return runSensorLoop(cfg, stop)
	}
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Str("addr", addr).Msg("metrics listener failed")
	}
}

func sleepOrStop(d time.Duration, stop <-chan os.Signal) bool {
	select {
	case <-stop:
		return false
	case <-time.After(d):
		return true
	}
}
