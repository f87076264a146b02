package reservation

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/furwell/clinic-api/internal/handler"
	"github.com/furwell/clinic-api/internal/model"
	"github.com/furwell/clinic-api/internal/service/reservation"
)

type Handler struct {
	service *reservation.Service
}

func NewHandler(service *reservation.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateReservation(c *gin.Context) {
	var req model.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	date, err := handler.ParseDate(req.Date)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	res, err := h.service.CreateReservation(c.Request.Context(), req.PetID, date, req.TimeSlot, req.Note)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(res))
}

func (h *Handler) GetReservation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid reservation ID"))
		return
	}

	res, err := h.service.GetReservation(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(res))
}

func (h *Handler) ListReservations(c *gin.Context) {
	filters := &model.ReservationFilters{}
	filters.Offset, filters.Limit = handler.Pagination(c)

	if id := c.Query("pet_id"); id != "" {
		petID, err := uuid.Parse(id)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid pet ID"))
			return
		}
		filters.PetID = petID
	}

	if owner := c.Query("owner_name"); owner != "" {
		filters.OwnerName = owner
	}

	if status := c.Query("status"); status != "" {
		filters.Status = model.ReservationStatus(status)
	}

	if date := c.Query("start_date"); date != "" {
		start, err := handler.ParseDate(date)
		if err != nil {
			handler.RespondError(c, err)
			return
		}
		filters.StartDate = start
	}

	if date := c.Query("end_date"); date != "" {
		end, err := handler.ParseDate(date)
		if err != nil {
			handler.RespondError(c, err)
			return
		}
		filters.EndDate = end
	}

	items, total, err := h.service.ListReservations(c.Request.Context(), filters)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(handler.ListResponse{Items: items, Total: total}))
}

func (h *Handler) MarkDone(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid reservation ID"))
		return
	}

	res, err := h.service.MarkDone(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(res))
}

func (h *Handler) CancelReservation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid reservation ID"))
		return
	}

	if err := h.service.Cancel(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "reservation cancelled"})
}

func (h *Handler) DeleteRecord(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid reservation ID"))
		return
	}

	if err := h.service.DeleteRecord(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "record deleted"})
}

func (h *Handler) ListUpcoming(c *gin.Context) {
	offset, limit := handler.Pagination(c)

	items, total, err := h.service.ListUpcoming(c.Request.Context(), offset, limit)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(handler.ListResponse{Items: items, Total: total}))
}

func (h *Handler) ListToday(c *gin.Context) {
	offset, limit := handler.Pagination(c)

	status := model.ReservationStatus(c.Query("status"))
	items, total, err := h.service.ListForDay(c.Request.Context(), time.Now(), status, offset, limit)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(handler.ListResponse{Items: items, Total: total}))
}

func (h *Handler) CheckAvailability(c *gin.Context) {
	date, err := handler.ParseDate(c.Query("date"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	slot := c.Query("time_slot")
	if slot == "" {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("time_slot is required"))
		return
	}

	availability, err := h.service.CheckCapacity(c.Request.Context(), date, slot)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(availability))
}

func (h *Handler) ListFullSlots(c *gin.Context) {
	date, err := handler.ParseDate(c.Query("date"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	slots, err := h.service.ListFullSlots(c.Request.Context(), date)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"date": c.Query("date"), "full_slots": slots}))
}
