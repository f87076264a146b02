package pet

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/furwell/clinic-api/internal/handler"
	"github.com/furwell/clinic-api/internal/model"
	"github.com/furwell/clinic-api/internal/service/pet"
)

type Handler struct {
	service *pet.Service
}

func NewHandler(service *pet.Service) *Handler {
	return &Handler{service: service}
}

func petFromRequest(c *gin.Context) (*model.Pet, bool) {
	var req model.CreatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return nil, false
	}

	p := &model.Pet{
		PetName:   req.PetName,
		Breed:     req.Breed,
		OwnerName: req.OwnerName,
	}
	if req.VetCard != "" {
		p.VetCard = &req.VetCard
	}
	if req.Birthday != "" {
		birthday, err := handler.ParseDate(req.Birthday)
		if err != nil {
			handler.RespondError(c, err)
			return nil, false
		}
		p.Birthday = &birthday
	}
	return p, true
}

func (h *Handler) CreatePet(c *gin.Context) {
	p, ok := petFromRequest(c)
	if !ok {
		return
	}

	if err := h.service.CreatePet(c.Request.Context(), p); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(p))
}

func (h *Handler) GetPet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid pet ID"))
		return
	}

	p, err := h.service.GetPet(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(p))
}

func (h *Handler) ListPets(c *gin.Context) {
	owner := c.Query("owner_name")
	if owner == "" {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("owner_name is required"))
		return
	}

	offset, limit := handler.Pagination(c)
	items, total, err := h.service.ListPetsByOwner(c.Request.Context(), owner, offset, limit)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(handler.ListResponse{Items: items, Total: total}))
}

func (h *Handler) UpdatePet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid pet ID"))
		return
	}

	var req model.UpdatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.service.UpdateOwner(c.Request.Context(), id, req.OwnerName); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "pet updated"})
}

func (h *Handler) DeletePet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid pet ID"))
		return
	}

	if err := h.service.DeletePet(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "pet deleted"})
}

func (h *Handler) CreateAdminPet(c *gin.Context) {
	p, ok := petFromRequest(c)
	if !ok {
		return
	}

	adminPet := &model.AdminPet{
		PetName:   p.PetName,
		Breed:     p.Breed,
		Birthday:  p.Birthday,
		OwnerName: p.OwnerName,
		VetCard:   p.VetCard,
	}
	if err := h.service.CreateAdminPet(c.Request.Context(), adminPet); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(adminPet))
}

func (h *Handler) GetAdminPet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid pet ID"))
		return
	}

	p, err := h.service.GetAdminPet(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(p))
}

func (h *Handler) SearchAdminPets(c *gin.Context) {
	offset, limit := handler.Pagination(c)

	items, total, err := h.service.SearchAdminPets(c.Request.Context(), c.Query("owner_name"), offset, limit)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(handler.ListResponse{Items: items, Total: total}))
}

func (h *Handler) DeleteAdminPet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid pet ID"))
		return
	}

	if err := h.service.DeleteAdminPet(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "pet deleted"})
}

func (h *Handler) AddHistory(c *gin.Context) {
	petID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid pet ID"))
		return
	}

	var req model.HistoryEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	date, err := handler.ParseDate(req.Date)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	entry, err := h.service.AddHistory(c.Request.Context(), petID, date, req.Note)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(entry))
}

func (h *Handler) UpdateHistory(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("entryId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid history entry ID"))
		return
	}

	var req model.HistoryEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	date, err := handler.ParseDate(req.Date)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	if err := h.service.UpdateHistory(c.Request.Context(), entryID, date, req.Note); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "history entry updated"})
}

func (h *Handler) DeleteHistory(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("entryId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid history entry ID"))
		return
	}

	if err := h.service.DeleteHistory(c.Request.Context(), entryID); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "history entry deleted"})
}

func (h *Handler) ListHistory(c *gin.Context) {
	petID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid pet ID"))
		return
	}

	entries, err := h.service.ListHistory(c.Request.Context(), petID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(entries))
}
