package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/daniil11ru/tracker/cli/tracker/api"
	"github.com/daniil11ru/tracker/cli/tracker/config"
	"github.com/daniil11ru/tracker/cli/tracker/connector/implementation"
	"github.com/daniil11ru/tracker/cli/tracker/domain"
	"github.com/daniil11ru/tracker/cli/tracker/feed"
	"github.com/daniil11ru/tracker/cli/tracker/poller"
	"github.com/daniil11ru/tracker/cli/tracker/repository"
	"github.com/daniil11ru/tracker/cli/tracker/source"

	"github.com/rifflock/lfshook"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configFilePath := ""
	flag.StringVar(&configFilePath, "c", "", "Путь до YAML-конфига")
	flag.Parse()
	settings, err := getConfig(configFilePath)
	if err != nil {
		log.Fatalf("Не удалось получить конфиг: %v", err)
		return
	}

	configureLogging(settings)

	connector := &implementation.Connector{}
	if err := connector.Connect(settings.Store); err != nil {
		log.Fatalf("Не удалось подключиться к хранилищу: %v", err)
		return
	}
	defer func() { _ = connector.Close() }()

	primarySource := source.NewDefaultPrimary(connector)
	if err := primarySource.Initialize(); err != nil {
		log.Fatalf("Не удалось инициализировать хранилище: %v", err)
		return
	}
	primaryRepository := &repository.Primary{Source: primarySource}

	maintainStore := domain.MaintainStore{PrimaryRepository: primaryRepository}
	if err := maintainStore.Schedule(settings.MaintenanceCron); err != nil {
		log.Fatalf("Не удалось запланировать обслуживание хранилища: %v", err)
		return
	}
	defer maintainStore.Shutdown()

	hub := api.NewHub()
	handler := api.NewHandler(primaryRepository, &domain.GetDashboard{PrimaryRepository: primaryRepository}, api.Page{
		Title:             settings.Map.Title,
		CenterLat:         settings.Map.CenterLat,
		CenterLng:         settings.Map.CenterLng,
		Zoom:              settings.Map.Zoom,
		TileURL:           settings.Map.TileURL,
		RefreshIntervalMs: settings.RefreshIntervalMs,
	})
	controller, err := api.NewController(handler, hub, settings.GetListenAddress(), settings.Debug)
	if err != nil {
		log.Fatalf("Не удалось создать контроллер API: %v", err)
		return
	}

	client := feed.NewClient(settings.Source.URL, settings.GetSourceTimeout(), settings.Source.InsecureSkipVerify)
	vehiclePoller := poller.New(client, &domain.SaveReadings{PrimaryRepository: primaryRepository}, settings.GetPollInterval())
	vehiclePoller.OnStored(hub.Broadcast)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go hub.Run(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		vehiclePoller.Run(ctx)
	}()

	go func() {
		if err := controller.Run(); err != nil {
			log.Errorf("Ошибка веб-сервера: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Остановка трекера")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := controller.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Ошибка остановки веб-сервера: %v", err)
	}
	wg.Wait()
}

func getConfig(configFilePath string) (config.Settings, error) {
	c, err := config.New(configFilePath)
	if err != nil {
		return c, fmt.Errorf("ошибка парсинга конфига: %w", err)
	}

	return c, nil
}

// configureLogging возвращает файловый логгер, если в конфиге задан log_file_path.
func configureLogging(settings config.Settings) *lumberjack.Logger {
	log.SetLevel(settings.GetLogLevel())

	consoleFmt := &log.TextFormatter{ForceColors: true, FullTimestamp: false}
	log.SetFormatter(consoleFmt)
	log.SetOutput(os.Stdout)

	if settings.LogFilePath == "" {
		return nil
	}

	logDir := filepath.Dir(settings.LogFilePath)
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		if err := os.MkdirAll(logDir, os.ModePerm); err != nil {
			log.Fatalf("Не получилось создать директорию для логов: %v", err)
		}
	}

	lumberjackLogger := &lumberjack.Logger{
		Filename:   settings.LogFilePath,
		MaxSize:    100,
		MaxBackups: 366,
		MaxAge:     settings.LogMaxAgeDays,
		Compress:   true,
	}

	fileFmt := &log.TextFormatter{DisableColors: true, FullTimestamp: true}
	hook := lfshook.NewHook(lfshook.WriterMap{
		log.PanicLevel: lumberjackLogger,
		log.FatalLevel: lumberjackLogger,
		log.ErrorLevel: lumberjackLogger,
		log.WarnLevel:  lumberjackLogger,
		log.InfoLevel:  lumberjackLogger,
		log.DebugLevel: lumberjackLogger,
		log.TraceLevel: lumberjackLogger,
	}, fileFmt)

	log.AddHook(hook)

	return lumberjackLogger
}
