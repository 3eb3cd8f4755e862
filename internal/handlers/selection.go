package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/tlmonitor/dashboard/internal/models"
	"github.com/tlmonitor/dashboard/internal/services"
)

type SelectionHandler struct {
	service *services.PreviewService
	logger  *zap.Logger
}

func NewSelectionHandler(service *services.PreviewService, logger *zap.Logger) *SelectionHandler {
	return &SelectionHandler{service: service, logger: logger}
}

// Preview handles POST /selection
func (h *SelectionHandler) Preview(c *gin.Context) {
	var form models.SelectionForm
	if err := c.ShouldBind(&form); err != nil {
		_ = c.Error(err)
		renderError(c, http.StatusBadRequest, bindErrorMessage(err))
		return
	}

	sel, err := services.ParseSelection(form)
	if err != nil {
		_ = c.Error(err)
		renderError(c, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := h.service.Preview(c.Request.Context(), sel)
	if err != nil {
		_ = c.Error(err)
		h.logger.Error("preview failed", zap.String("country", sel.CountryCode), zap.Error(err))
		renderError(c, http.StatusInternalServerError, "Failed to retrieve messages")
		return
	}

	c.HTML(http.StatusOK, "selection.html", gin.H{
		"DateCount":      summary.DateCount,
		"NumberMessages": summary.Total,
		"Country":        sel.Country,
		"StartDate":      sel.StartDate.Format(models.DateLayout),
		"EndDate":        sel.EndDate.Format(models.DateLayout),
		"Labels":         sel.LabelsDisplay(),
		"Request":        sel.Request,
	})
}

func bindErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid form submission"
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}
