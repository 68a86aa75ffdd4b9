package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/jiggsnoway/Hand-Tracking-POC-Using-Classical-Computer-Vision/internal/app"
	"github.com/jiggsnoway/Hand-Tracking-POC-Using-Classical-Computer-Vision/internal/config"
	"github.com/jiggsnoway/Hand-Tracking-POC-Using-Classical-Computer-Vision/internal/server"
	"github.com/jiggsnoway/Hand-Tracking-POC-Using-Classical-Computer-Vision/internal/store"
	"github.com/jiggsnoway/Hand-Tracking-POC-Using-Classical-Computer-Vision/internal/tray"
)

func main() {
	configPath := flag.String("config", "", "path to INI config file")
	device := flag.Int("device", -1, "camera device ID (overrides config)")
	profile := flag.String("profile", "", "skin profile: default, light, dark, or ycrcb")
	headless := flag.Bool("headless", false, "run without display windows (tray + HTTP server)")
	addr := flag.String("addr", ":8080", "HTTP listen address in headless mode")
	dbPath := flag.String("db", "", "SQLite database path; \"none\" disables persistence")
	logFile := flag.String("logfile", "", "write logs to this file with rotation")
	flag.Parse()

	fmt.Println("HandWatch - Hand Proximity Warning")

	if *logFile != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   *logFile,
			MaxSize:    10, // MB
			MaxBackups: 2,
			MaxAge:     28, // days
			Compress:   true,
		})
	}

	cfg := config.Default()
	if *configPath != "" {
		if err := cfg.Load(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if *profile != "" {
		if err := cfg.ApplyProfile(*profile); err != nil {
			log.Fatalf("Failed to apply profile: %v", err)
		}
	}
	if *device >= 0 {
		cfg.Camera.DeviceID = *device
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	var st *store.Store
	if *dbPath != "none" {
		path := *dbPath
		if path == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				log.Fatalf("Failed to get home directory: %v", err)
			}
			dir := filepath.Join(homeDir, ".handwatch")
			if err := os.MkdirAll(dir, 0755); err != nil {
				log.Fatalf("Failed to create data directory: %v", err)
			}
			path = filepath.Join(dir, "handwatch.db")
		}

		var err error
		st, err = store.New(path)
		if err != nil {
			log.Fatalf("Failed to initialize store: %v", err)
		}
		defer st.Close()
	}

	application := app.New(app.Config{
		Settings:      cfg,
		Store:         st,
		PublishFrames: *headless,
	})

	if *headless {
		runHeadless(application, st, *addr)
		return
	}
	runWindowed(application, cfg.ShowMask)
}

// runWindowed runs the pipeline on the main goroutine with display
// windows. Pressing q or ESC quits.
func runWindowed(application *app.App, showMask bool) {
	if err := application.Open(); err != nil {
		log.Fatalf("Camera failed to open: %v", err)
	}
	defer application.Close()

	display := app.NewWindowDisplay(showMask)
	defer display.Close()

	if err := application.Run(display); err != nil {
		log.Printf("Pipeline stopped: %v", err)
	}
}

// runHeadless runs the pipeline in the background with a tray icon and
// the HTTP observation server. The tray must own the main goroutine.
func runHeadless(application *app.App, st *store.Store, addr string) {
	if err := application.Start(); err != nil {
		log.Fatalf("Camera failed to open: %v", err)
	}

	srv := server.New(server.Config{Store: st, App: application})
	go func() {
		log.Printf("Serving on %s", addr)
		if err := srv.ListenAndServe(addr); err != nil {
			log.Printf("Server failed: %v", err)
		}
	}()

	t := tray.New()
	t.OnToggle(func(enabled bool) {
		application.SetEnabled(enabled)
	})

	// Keep the tray state readout current.
	go func() {
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			result, _ := application.Snapshot()
			t.SetState(string(result.State))
		}
	}()

	// SIGINT/SIGTERM quits the same way the tray menu does.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		t.Quit()
	}()

	// Run blocks until the menu quit item or a signal closes the tray.
	t.Run()
	application.Stop()
}
