package report

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/furwell/clinic-api/internal/handler"
	"github.com/furwell/clinic-api/internal/model"
	"github.com/furwell/clinic-api/internal/service/report"
	"github.com/furwell/clinic-api/internal/service/reservation"
)

type Handler struct {
	service      *report.Service
	reservations *reservation.Service
}

func NewHandler(service *report.Service, reservations *reservation.Service) *Handler {
	return &Handler{service: service, reservations: reservations}
}

func (h *Handler) MonthlyCounts(c *gin.Context) {
	year := time.Now().Year()
	if y := c.Query("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid year"))
			return
		}
		year = parsed
	}

	counts, err := h.service.MonthlyCompletedCounts(c.Request.Context(), year)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"year": year, "months": counts}))
}

func (h *Handler) Dashboard(c *gin.Context) {
	stats, err := h.service.Dashboard(c.Request.Context(), time.Now())
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(stats))
}

// History lists completed reservations for an owner, each marked with
// whether a pet of the same name is still present in the registry.
func (h *Handler) History(c *gin.Context) {
	owner := c.Query("owner_name")
	if owner == "" {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("owner_name is required"))
		return
	}

	filters := &model.ReservationFilters{
		OwnerName:   owner,
		Status:      model.ReservationStatusDone,
		NewestFirst: true,
	}
	filters.Offset, filters.Limit = handler.Pagination(c)

	done, total, err := h.reservations.ListReservations(c.Request.Context(), filters)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	reconciled, err := h.service.ReconcileHistory(c.Request.Context(), done)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(handler.ListResponse{Items: reconciled, Total: total}))
}
