package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gatedfi/rwa-dex/api"
)

func main() {
	host := flag.String("host", "0.0.0.0", "Server host")
	port := flag.Int("port", 8080, "Server port")
	benchMode := flag.Bool("bench", false, "Disable rate limiting for benchmarks")
	flag.Parse()

	config := api.DefaultConfig()
	config.Host = *host
	config.Port = *port
	config.DisableRateLimit = *benchMode

	if *benchMode {
		log.Println("Benchmark mode: rate limiting disabled")
	}

	server := api.NewServer(config, nil)

	go func() {
		if err := server.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("RWA DEX API server started on %s:%d", *host, *port)
	log.Printf("WebSocket endpoint: ws://%s:%d/ws", *host, *port)
	log.Printf("Health check: http://%s:%d/health", *host, *port)
	log.Printf("Metrics: http://%s:%d/metrics", *host, *port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server exited")
}
