package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/routestack/internal/config"
	"github.com/dgallion1/routestack/internal/pdfout"
	"github.com/dgallion1/routestack/internal/pipeline"
)

func main() {
	in := flag.String("in", "", "input route-sheet PDF (required)")
	out := flag.String("out", "", "output PDF path (required)")
	date := flag.String("date", time.Now().Format("Monday, January 2"), "date label for the cover and banners")
	status := flag.String("status", "", "optional JSON status file updated while the build runs")
	flag.Parse()

	cfg := config.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel(cfg.LogLevel)}))

	if *in == "" || *out == "" {
		log.Error("both -in and -out are required")
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Ctrl-C stops at the next route boundary; no partial PDF is left.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
	}()

	var obs pipeline.Observer
	if *status != "" {
		obs = &pipeline.StatusFileObserver{Path: *status, Throttle: cfg.StatusThrottle}
	}

	log.Info("starting routestack", "in", *in, "out", *out, "date", *date)
	res, err := pipeline.Build(ctx, pipeline.Options{
		InputPDF:          *in,
		OutputPDF:         *out,
		DateLabel:         *date,
		Observer:          obs,
		Links:             &pdfout.PdfcpuLinkWriter{Log: log},
		Log:               log,
		FallbackPdftotext: cfg.PDFFallbackPdftotext,
	})
	if err != nil {
		log.Error("build failed", "error", err)
		os.Exit(1)
	}

	log.Info("done",
		"output", res.OutputPDF,
		"routes", res.GroupCount,
		"mismatches", res.MismatchCount,
		"combined", len(res.CombinedRoutes))
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
