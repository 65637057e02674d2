// ABOUTME: Entry point for the JackTrip network-to-DAC bridge endpoint
// ABOUTME: Parses CLI flags/config, wires discovery, the bridge, DAC output, diagnostics and the TUI
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gojacktrip/jtcore/internal/bridge"
	"github.com/gojacktrip/jtcore/internal/config"
	"github.com/gojacktrip/jtcore/internal/dacio"
	"github.com/gojacktrip/jtcore/internal/diag"
	"github.com/gojacktrip/jtcore/internal/discovery"
	"github.com/gojacktrip/jtcore/internal/tui"
	"github.com/gojacktrip/jtcore/internal/version"
)

var (
	configFile = flag.String("config", "", "Path to a YAML config file (optional)")
	serverAddr = flag.String("server", "", "JackTrip server IP (skip mDNS discovery)")
	logFile    = flag.String("log-file", "jtcore-endpoint.log", "Log file path")
	noTUI      = flag.Bool("no-tui", false, "Disable the status TUI, stream logs instead")
	diagAddr   = flag.String("diag-addr", "", "Address to serve diagnostics websocket on (overrides diag_addr from config; empty keeps the configured address)")
	playOnDAC  = flag.Bool("play", false, "Also play the stream on the host sound card via oto (development aid)")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadFile(*configFile)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *serverAddr != "" {
		cfg.ServerIP = *serverAddr
	}
	if *diagAddr != "" {
		cfg.DiagAddr = *diagAddr
	}
	useTUI := !*noTUI

	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer f.Close()

	if useTUI {
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	log.Printf("%s %s by %s starting", version.Product, version.Version, version.Manufacturer)

	if cfg.ServerIP == "" {
		log.Printf("no server configured, browsing for a JackTrip server via mDNS...")
		discoverCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		server, err := discovery.FindServer(discoverCtx)
		cancel()
		if err != nil {
			log.Fatalf("discovery: %v", err)
		}
		cfg.ServerIP = server.Host
		log.Printf("discovered JackTrip server %s at %s", server.Name, server.Host)
	}

	client := bridge.New(bridge.Config{
		ServerIP:        cfg.ServerIP,
		TCPPort:         cfg.TCPPort,
		Channels:        cfg.Channels,
		FramesPerPacket: cfg.FramesPerPacket,
		SampleRate:      cfg.SampleRate,
		SourceFormat:    cfg.SampleFormat,
		ReceiveTimeout:  cfg.ReceiveTimeout,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go client.Run(ctx)

	if *playOnDAC {
		oto := dacio.NewOtoAdapter(client.RingBuffer(), cfg.SampleRate, cfg.Channels, cfg.FramesPerPacket)
		if err := oto.Open(); err != nil {
			log.Printf("dacio: failed to open oto output: %v", err)
		} else {
			defer oto.Close()
		}
	}

	if cfg.DiagAddr != "" {
		diagServer := diag.NewServer(client, cfg.DiagAddr, "/stats")
		go func() {
			if err := diagServer.Run(ctx); err != nil {
				log.Printf("diag: server error: %v", err)
			}
		}()
		log.Printf("diagnostics available at %s/stats", cfg.DiagAddr)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if useTUI {
		go func() {
			<-sigChan
			cancel()
		}()
		if err := tui.Run(client); err != nil {
			log.Printf("tui: %v", err)
		}
		cancel()
	} else {
		log.Printf("connecting to %s (TUI disabled, logging to %s and stdout)", fmt.Sprintf("%s:%d", cfg.ServerIP, cfg.TCPPort), *logFile)
		<-sigChan
		log.Printf("shutdown signal received")
		cancel()
	}

	// Give the bridge's shutdown handshake (send task join, socket close,
	// ring buffer clear) a moment to complete before the process exits.
	time.Sleep(100 * time.Millisecond)
	log.Printf("endpoint stopped")
}
