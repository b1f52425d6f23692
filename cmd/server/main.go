package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/soohyk/learnpath/pkg/config"
	"github.com/soohyk/learnpath/pkg/llm"
	"github.com/soohyk/learnpath/pkg/logger"
	"github.com/soohyk/learnpath/pkg/metrics"
	"github.com/soohyk/learnpath/pkg/pipeline"
	"github.com/soohyk/learnpath/pkg/prompt"
	"github.com/soohyk/learnpath/pkg/server"
	"github.com/soohyk/learnpath/pkg/trace"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	zlog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	registry, err := prompt.BuiltinRegistry()
	if err != nil {
		log.Fatalf("template registration failed: %v", err)
	}

	var client llm.Client
	switch cfg.Provider {
	case config.ProviderOllama:
		client = llm.NewOllamaClient(cfg.OllamaURL, cfg.Model)
	default:
		client = llm.NewGroqClient(cfg.GroqAPIKey, cfg.Model, "")
	}

	collector := metrics.NewCollector()

	opts := []pipeline.Option{
		pipeline.WithLogger(zlog),
		pipeline.WithMetrics(collector),
	}
	if cfg.TraceFile != "" {
		exporter, err := trace.NewFileExporter(cfg.TraceFile)
		if err != nil {
			log.Fatalf("failed to open trace file: %v", err)
		}
		defer exporter.Close()
		opts = append(opts, pipeline.WithTrace(exporter))
	}

	gen := pipeline.New(client, registry, opts...)

	router := server.NewRouter(gen, zlog, cfg.CORSOrigins, collector.Registry())

	zlog.Info("listening", "addr", cfg.Addr, "provider", cfg.Provider)
	if err := router.Run(cfg.Addr); err != nil {
		zlog.Fatal("server stopped", "error", err)
	}
}
