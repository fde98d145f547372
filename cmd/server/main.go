package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"gridsnake.dev/internal/persistence/runlog"
	"gridsnake.dev/internal/persistence/scores"
	"gridsnake.dev/internal/sim/session"
	"gridsnake.dev/internal/sim/tuning"
	"gridsnake.dev/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		tuningPath = flag.String("tuning", "./configs/tuning.yaml", "path to tuning.yaml")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		disableDB  = flag.Bool("disable_db", false, "disable the score database")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	tune, err := tuning.Load(*tuningPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Printf("tuning not found (%s); using defaults", *tuningPath)
			tune = tuning.Defaults()
		} else {
			logger.Fatalf("load tuning: %v", err)
		}
	}

	_ = os.MkdirAll(*dataDir, 0o755)

	var store *scores.Store
	if !*disableDB {
		store, err = scores.Open(filepath.Join(*dataDir, "scores.db"))
		if err != nil {
			logger.Fatalf("open score db: %v", err)
		}
		defer store.Close()
	} else {
		logger.Printf("score db disabled")
	}

	runs := runlog.NewRunLogger(*dataDir)
	defer runs.Close()
	events := runlog.NewEventLogger(*dataDir)
	defer events.Close()

	hub := session.NewHub(tune, store, runs, events, logger)

	ctx, cancel := signalContext()
	defer cancel()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")

		m := hub.Metrics()

		// Minimal Prometheus exposition format.
		fmt.Fprintf(rw, "# HELP gridsnake_sessions_active Currently connected sessions.\n")
		fmt.Fprintf(rw, "# TYPE gridsnake_sessions_active gauge\n")
		fmt.Fprintf(rw, "gridsnake_sessions_active %d\n", m.ActiveSessions)

		fmt.Fprintf(rw, "# HELP gridsnake_runs_completed_total Runs ended by a collision.\n")
		fmt.Fprintf(rw, "# TYPE gridsnake_runs_completed_total counter\n")
		fmt.Fprintf(rw, "gridsnake_runs_completed_total %d\n", m.RunsCompleted)

		fmt.Fprintf(rw, "# HELP gridsnake_frames_total Render frames produced across all sessions.\n")
		fmt.Fprintf(rw, "# TYPE gridsnake_frames_total counter\n")
		fmt.Fprintf(rw, "gridsnake_frames_total %d\n", m.FramesTotal)
	})
	mux.HandleFunc("/v1/ws", ws.NewServer(hub, logger).Handler())

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s (grid=%d tick=%dms frame=%dHz)", *addr, tune.GridSize, tune.BaseTickMs, tune.FrameRateHz)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
