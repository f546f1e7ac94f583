/*
DESCRIPTION
  tokscan tokenises a file or standard input with one of the readbuf
  grammars, through a configurable buffer model, and writes the tokens to
  standard output.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved. 

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/readbuf/config"
	"github.com/ausocean/readbuf/pool"
	"github.com/ausocean/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const version = "v0.1.0"

const (
	logMaxSize   = 500 // MB
	logMaxBackup = 10
	logMaxAge    = 28 // days
	logSuppress  = true
)

const pkg = "tokscan: "

func main() {
	showVersion := flag.Bool("version", false, "show version")
	cfgPath := flag.String("config", "", "YAML file of config variables")
	for _, v := range config.Variables {
		flag.String(v.Name, "", v.Type)
	}
	flag.Parse()
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	// Log to stderr until the configured destination is known.
	log := logging.New(logging.Info, os.Stderr, logSuppress)
	cfg := config.Config{Logger: log}
	if *cfgPath != "" {
		err := cfg.LoadFile(*cfgPath)
		if err != nil {
			log.Fatal(pkg+"could not load config", "error", err.Error())
		}
	}
	cfg.Update(flagVars())
	cfg.Validate()

	var w io.Writer = os.Stderr
	if cfg.LogPath != "" {
		fileLog := &lumberjack.Logger{
			Filename:   cfg.LogPath,
			MaxSize:    logMaxSize,
			MaxBackups: logMaxBackup,
			MaxAge:     logMaxAge,
		}
		defer fileLog.Close()
		w = io.MultiWriter(fileLog, os.Stderr)
	}
	log = logging.New(cfg.LogLevel, w, logSuppress)
	cfg.Logger = log
	log.Info("starting tokscan", "version", version, "grammar", cfg.Grammar)

	s := newScanner(cfg)
	if cfg.MetricsAddress != "" {
		go serveMetrics(cfg.MetricsAddress, s, log)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := bufio.NewWriter(os.Stdout)
	err := s.run(ctx, os.Stdin, out)
	if ferr := out.Flush(); err == nil {
		err = ferr
	}
	if err != nil {
		log.Fatal(pkg+"tokenising failed", "error", err.Error())
	}
	log.Info("finished", "consumed", s.consumed)
}

// flagVars returns the config variables set on the command line.
func flagVars() map[string]string {
	names := make(map[string]bool, len(config.Variables))
	for _, v := range config.Variables {
		names[v.Name] = true
	}
	vars := make(map[string]string)
	flag.Visit(func(f *flag.Flag) {
		if names[f.Name] {
			vars[f.Name] = f.Value.String()
		}
	})
	return vars
}

// serveMetrics serves the scanner's pool statistics on addr.
func serveMetrics(addr string, s *scanner, log logging.Logger) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		pool.NewCollector("bytes", s.bytes),
		pool.NewCollector("runes", s.runes),
	)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	log.Info("serving metrics", "address", addr)
	err := http.ListenAndServe(addr, mux)
	if err != nil {
		log.Error(pkg+"metrics server stopped", "error", err.Error())
	}
}
