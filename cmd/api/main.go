package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/bryanwahyu/factsense/internal/application"
	appanalysis "github.com/bryanwahyu/factsense/internal/application/analysis"
	appstats "github.com/bryanwahyu/factsense/internal/application/stats"
	"github.com/bryanwahyu/factsense/internal/config"
	domain "github.com/bryanwahyu/factsense/internal/domain/analysis"
	memorydb "github.com/bryanwahyu/factsense/internal/infra/db/memory"
	mysqldb "github.com/bryanwahyu/factsense/internal/infra/db/mysql"
	postgresdb "github.com/bryanwahyu/factsense/internal/infra/db/postgres"
	"github.com/bryanwahyu/factsense/internal/infra/httpserver"
	minioStore "github.com/bryanwahyu/factsense/internal/infra/storage"
	"github.com/bryanwahyu/factsense/internal/middleware"

	mockclassifier "github.com/bryanwahyu/factsense/internal/infra/classifier/mock"
	openaiclassifier "github.com/bryanwahyu/factsense/internal/infra/classifier/openai"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()
	clock := application.SystemClock{}

	// pilih repository sesuai driver
	var repo domain.Repository
	switch cfg.Database.Driver {
	case "mysql", "":
		db, err := mysqldb.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		defer db.Close()
		repo = mysqldb.NewAnalysisRepository(db)
	case "postgres":
		db, err := postgresdb.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		defer db.Close()
		repo = postgresdb.NewAnalysisRepository(db)
	case "memory":
		repo = memorydb.NewAnalysisRepository(clock)
	default:
		log.Fatalf("unknown database driver: %q", cfg.Database.Driver)
	}

	// pilih classifier sesuai provider
	var classifier domain.Classifier
	switch cfg.Classifier.Provider {
	case "openai":
		classifier = openaiclassifier.NewClassifier(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	case "mock", "":
		seed := cfg.Classifier.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		mc := mockclassifier.New(rand.New(rand.NewSource(seed)))
		if cfg.Classifier.Bias > 0 {
			mc.Bias = cfg.Classifier.Bias
		}
		if cfg.Classifier.MaxInputBytes > 0 {
			mc.MaxInputBytes = cfg.Classifier.MaxInputBytes
		}
		classifier = mc
	default:
		log.Fatalf("unknown classifier provider: %q", cfg.Classifier.Provider)
	}

	// init payload archive (optional)
	var archive domain.PayloadArchive
	if cfg.Minio.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		archive = store
	}

	// init service
	svc := &appanalysis.Service{
		Repo:          repo,
		Classifier:    classifier,
		Stats:         &appstats.Engine{Repo: repo, Clock: clock},
		Archive:       archive,
		Clock:         clock,
		MaxInputBytes: cfg.Classifier.MaxInputBytes,
	}
	if cfg.Classifier.TimeoutSeconds > 0 {
		svc.ClassifyTimeout = time.Duration(cfg.Classifier.TimeoutSeconds) * time.Second
	}

	// init router + middleware chain
	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization"},
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.RateLimitMiddleware(60, 2))
	mux.Use(middleware.AnnotateMetadata)
	mux.Get("/metrics", middleware.MetricsHandler)
	mux.Mount("/", httpserver.NewRouter(svc, cfg.Server.Debug))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
