package api

import (
	"net/http"

	"github.com/daniil11ru/tracker/cli/tracker/api/dto/request"
	"github.com/daniil11ru/tracker/cli/tracker/dto/db/out"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const IconURL = "/assets/car_icon.svg"

// Page содержит настройки карты, которые подставляются в шаблон страницы.
type Page struct {
	Title             string
	CenterLat         float64
	CenterLng         float64
	Zoom              int
	TileURL           string
	RefreshIntervalMs int
}

type Handler struct {
	Repository Repository
	Dashboard  DashboardBuilder
	Page       Page
}

func NewHandler(repository Repository, dashboard DashboardBuilder, page Page) *Handler {
	return &Handler{Repository: repository, Dashboard: dashboard, Page: page}
}

func (h *Handler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Title":             h.Page.Title,
		"CenterLat":         h.Page.CenterLat,
		"CenterLng":         h.Page.CenterLng,
		"Zoom":              h.Page.Zoom,
		"TileURL":           h.Page.TileURL,
		"RefreshIntervalMs": h.Page.RefreshIntervalMs,
		"IconURL":           IconURL,
	})
}

func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (h *Handler) GetLatestReadings(c *gin.Context) {
	req := request.GetLatest{}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var (
		readings []out.Reading
		err      error
	)
	if req.Registration != "" {
		readings, err = h.Repository.GetLatestReadingsByRegNo(req.Registration)
	} else {
		readings, err = h.Repository.GetAllLatestReadings()
	}
	if err != nil {
		log.WithField("err", err).Error("Не удалось получить последние показания")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, readings)
}

func (h *Handler) GetRegistrations(c *gin.Context) {
	regNos, err := h.Repository.GetRegistrations()
	if err != nil {
		log.WithField("err", err).Error("Не удалось получить список номеров")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, regNos)
}

// GetDashboard отдает все, что нужно странице для одной перерисовки: варианты списка и маркеры.
func (h *Handler) GetDashboard(c *gin.Context) {
	req := request.GetLatest{}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dashboard, err := h.Dashboard.Run(req.Registration)
	if err != nil {
		log.WithField("err", err).Error("Не удалось построить данные для карты")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
