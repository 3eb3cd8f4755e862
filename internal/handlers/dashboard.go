package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tlmonitor/dashboard/internal/config"
	"github.com/tlmonitor/dashboard/internal/models"
)

// DashboardHandler serves the static navigation pages.
type DashboardHandler struct {
	cfg *config.Config
}

func NewDashboardHandler(cfg *config.Config) *DashboardHandler {
	return &DashboardHandler{cfg: cfg}
}

// Login handles GET /
func (h *DashboardHandler) Login(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", nil)
}

// Menu handles POST /menu
func (h *DashboardHandler) Menu(c *gin.Context) {
	if !passwordMatches(c.PostForm("password"), h.cfg.Password) {
		c.HTML(http.StatusOK, "home.html", nil)
		return
	}
	c.HTML(http.StatusOK, "menu.html", nil)
}

// BackToMenu handles POST /backtomenu
func (h *DashboardHandler) BackToMenu(c *gin.Context) {
	c.HTML(http.StatusOK, "menu.html", nil)
}

// Classify handles POST /classify
func (h *DashboardHandler) Classify(c *gin.Context) {
	h.picker(c, models.JobTypeClassify)
}

// WordFreq handles POST /wordfreq
func (h *DashboardHandler) WordFreq(c *gin.Context) {
	h.picker(c, models.JobTypeWordFreq)
}

func (h *DashboardHandler) picker(c *gin.Context, jobType models.JobType) {
	c.HTML(http.StatusOK, "picker.html", gin.H{
		"Request":   string(jobType),
		"Countries": h.cfg.Countries,
	})
}

// HealthCheck handles GET /health
func (h *DashboardHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": "1.0.0",
	})
}

func passwordMatches(given, want string) bool {
	if want == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(given), []byte(want)) == 1
}

func renderError(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", gin.H{"Message": message})
}
