package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tlmonitor/dashboard/internal/services"
)

type JobHandler struct {
	service *services.JobService
}

func NewJobHandler(service *services.JobService) *JobHandler {
	return &JobHandler{service: service}
}

// Submit handles POST /sent
func (h *JobHandler) Submit(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		_ = c.Error(err)
		renderError(c, http.StatusBadRequest, "Invalid form submission")
		return
	}

	form := make(map[string]string, len(c.Request.PostForm))
	for key, values := range c.Request.PostForm {
		if len(values) > 0 {
			form[key] = values[0]
		}
	}

	req, err := h.service.Prepare(form)
	if err != nil {
		_ = c.Error(err)
		renderError(c, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.service.Submit(c.Request.Context(), req); err != nil {
		_ = c.Error(err)
		renderError(c, http.StatusBadGateway, "The request could not be delivered")
		return
	}

	c.HTML(http.StatusOK, "sent.html", nil)
}
