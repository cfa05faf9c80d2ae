package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"smartenergy/db"
	qhttp "smartenergy/http"
	"smartenergy/logger"
	"smartenergy/ml"
)

type Config struct {
	Http struct {
		Port           int      `yaml:"port"`
		TimeoutSeconds int      `yaml:"timeout_seconds"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"http"`
	Model struct {
		Path string `yaml:"path"`
	} `yaml:"model"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Cache struct {
		Size int `yaml:"size"`
	} `yaml:"cache"`
	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
}

func main() {
	// 1. Load config
	config, err := loadConfig("config.yaml")
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(config.Log.Level, config.Log.File)
	defer log.Sync()

	// 2. Load model. A failed load degrades the service instead of
	// crashing it; /api/health reports the state.
	predictor := ml.NewPredictor(log, config.Cache.Size)
	modelPath := config.Model.Path
	if env := os.Getenv("MODEL_PATH"); env != "" {
		modelPath = env
	}
	if modelPath == "" {
		modelPath = "random_forest_model.json"
	}
	if err := predictor.LoadFromFile(modelPath); err != nil {
		log.Warn("serving without a model, /api/predict will return 503")
	}

	// 3. Optional prediction history store
	var store *db.Store
	if config.Database.Path != "" {
		store, err = db.Open(config.Database.Path)
		if err != nil {
			log.Fatal("failed to initialize database", zap.Error(err))
		}
		defer store.Close()
		log.Info("database initialized", zap.String("path", config.Database.Path))
	}

	// 4. Websocket hub for the live prediction feed
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := qhttp.NewHub(log)
	go hub.Run(ctx)

	// 5. Start HTTP server
	serverConfig := qhttp.DefaultServerConfig()
	if config.Http.Port != 0 {
		serverConfig.Port = config.Http.Port
	}
	if config.Http.TimeoutSeconds != 0 {
		serverConfig.Timeout = time.Duration(config.Http.TimeoutSeconds) * time.Second
	}
	if len(config.Http.AllowedOrigins) != 0 {
		serverConfig.AllowedOrigins = config.Http.AllowedOrigins
	}

	handlers := qhttp.NewHandlers(predictor, store, hub, log)
	server := qhttp.NewServer(serverConfig, handlers, log)
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 6. Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	cancel()
	if err := server.Stop(); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	log.Info("exiting")
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
