package api

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

//go:embed web
var web embed.FS

type Controller struct {
	Handler *Handler
	Hub     *Hub

	router    *gin.Engine
	server    *http.Server
	logWriter io.Closer
}

func NewController(handler *Handler, hub *Hub, addr string, debug bool) (*Controller, error) {
	if debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	tmpl, err := template.ParseFS(web, "web/templates/*.html")
	if err != nil {
		return nil, err
	}
	assets, err := fs.Sub(web, "web/assets")
	if err != nil {
		return nil, err
	}

	logWriter := log.StandardLogger().WriterLevel(log.DebugLevel)

	router := gin.New()
	router.Use(gin.LoggerWithWriter(logWriter), gin.RecoveryWithWriter(logWriter))
	router.SetHTMLTemplate(tmpl)

	router.GET("/", handler.Index)
	router.StaticFS("/assets", http.FS(assets))
	router.GET("/ws/latest", hub.HandleWebSocket)

	api := router.Group("/api")
	{
		api.GET("/health", handler.Health)
		api.GET("/dashboard", handler.GetDashboard)
		api.GET("/vehicles/latest", handler.GetLatestReadings)
		api.GET("/vehicles/registrations", handler.GetRegistrations)
	}

	return &Controller{
		Handler: handler,
		Hub:     hub,
		router:  router,
		server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logWriter: logWriter,
	}, nil
}

func (c *Controller) Router() http.Handler {
	return c.router
}

// Run блокируется до остановки сервера через Shutdown.
func (c *Controller) Run() error {
	log.WithField("addr", c.server.Addr).Info("Запуск веб-интерфейса")
	if err := c.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (c *Controller) Shutdown(ctx context.Context) error {
	c.Hub.Close()
	err := c.server.Shutdown(ctx)
	_ = c.logWriter.Close()
	return err
}
