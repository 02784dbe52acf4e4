package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"github.com/ZinedineAmal/Loyalty-Through-Data-Gym-Retention-Analysis/dataset"
	"github.com/ZinedineAmal/Loyalty-Through-Data-Gym-Retention-Analysis/db"
	qhttp "github.com/ZinedineAmal/Loyalty-Through-Data-Gym-Retention-Analysis/http"
	"github.com/ZinedineAmal/Loyalty-Through-Data-Gym-Retention-Analysis/logging"
	"github.com/ZinedineAmal/Loyalty-Through-Data-Gym-Retention-Analysis/ml"
	"github.com/ZinedineAmal/Loyalty-Through-Data-Gym-Retention-Analysis/monitoring"
)

type Config struct {
	Http struct {
		Port           int      `yaml:"port"`
		TimeoutSeconds int      `yaml:"timeout_seconds"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"http"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Dataset struct {
		Path     string `yaml:"path"`
		Encoding string `yaml:"encoding"`
	} `yaml:"dataset"`
	Model struct {
		Kind             string `yaml:"kind"`
		Path             string `yaml:"path"`
		ScalerPath       string `yaml:"scaler_path"`
		FeatureNamesPath string `yaml:"feature_names_path"`
		WatchArtifacts   bool   `yaml:"watch_artifacts"`
	} `yaml:"model"`
	Cache struct {
		Size int `yaml:"size"`
	} `yaml:"cache"`
	Log struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
	} `yaml:"log"`
}

func main() {
	// 1. Load config
	config, err := loadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(logging.Options{
		Level:      config.Log.Level,
		File:       config.Log.File,
		MaxSizeMB:  config.Log.MaxSizeMB,
		MaxBackups: config.Log.MaxBackups,
		MaxAgeDays: config.Log.MaxAgeDays,
	})
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	// 2. Initialize database
	if err := db.InitDB(config.Database.Path); err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("database initialized", zap.String("path", config.Database.Path))

	// 3. Load the static dataset for the dashboard charts
	ds, err := dataset.Load(config.Dataset.Path, config.Dataset.Encoding)
	if err != nil {
		logger.Fatal("failed to load dataset", zap.Error(err))
	}
	logger.Info("dataset loaded",
		zap.String("path", config.Dataset.Path),
		zap.Int("rows", ds.Len()),
		zap.Float64("churn_rate", ds.ChurnRate()))
	qhttp.SetDataset(ds)

	// 4. Load inference artifacts; missing artifacts halt the session
	watcher, err := ml.NewWatcher(ml.ArtifactPaths{
		ModelKind:        config.Model.Kind,
		ModelPath:        config.Model.Path,
		ScalerPath:       config.Model.ScalerPath,
		FeatureNamesPath: config.Model.FeatureNamesPath,
	}, logger)
	if err != nil {
		logger.Fatal("failed to load model artifacts", zap.Error(err))
	}
	defer watcher.Close()
	if config.Model.WatchArtifacts {
		if err := watcher.Start(); err != nil {
			logger.Warn("artifact watching disabled", zap.Error(err))
		}
	}
	qhttp.SetPreparerProvider(watcher)
	qhttp.SetLogger(logger)

	if columns, err := watcher.Preparer().ExpectedColumns(); err == nil {
		if err := db.SaveModelInfo(config.Model.Kind, config.Model.Path, len(columns)); err != nil {
			logger.Warn("failed to record model info", zap.Error(err))
		}
	}

	if err := qhttp.InitPredictionCache(config.Cache.Size); err != nil {
		logger.Warn("prediction cache disabled", zap.Error(err))
	}

	// 5. Live prediction feed
	hub := monitoring.NewHub(logger)
	go hub.Run()
	defer hub.Stop()
	qhttp.SetPredictionHub(hub)

	// 6. Start HTTP server
	server := qhttp.NewServer(qhttp.ServerConfig{
		Port:           config.Http.Port,
		Timeout:        time.Duration(config.Http.TimeoutSeconds) * time.Second,
		AllowedOrigins: config.Http.AllowedOrigins,
	}, logger)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 7. Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	if err := server.Stop(); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
}

func loadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
