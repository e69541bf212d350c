package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cuaderno/internal/service"
	"cuaderno/pkg/response"
)

type ParcelHandler struct {
	parcelService  service.ParcelService
	cascadeService service.CascadeService
}

func NewParcelHandler(parcelService service.ParcelService, cascadeService service.CascadeService) *ParcelHandler {
	return &ParcelHandler{
		parcelService:  parcelService,
		cascadeService: cascadeService,
	}
}

func (h *ParcelHandler) RegisterRoutes(router *gin.RouterGroup) {
	parcels := router.Group("/parcelas")
	{
		parcels.GET("", h.ListParcels)
		parcels.POST("", h.CreateParcel)
		parcels.PUT("/:id", h.UpdateParcel)
		parcels.DELETE("/:id", h.DeleteParcel)
	}
}

// ListParcels returns every parcel
// @Summary      List parcels
// @Tags         parcelas
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Items per page"
// @Success      200    {object}  response.Response{data=[]model.Parcel}
// @Failure      503    {object}  response.Response
// @Router       /api/parcelas [get]
func (h *ParcelHandler) ListParcels(c *gin.Context) {
	writeList(c, h.parcelService.List())
}

// CreateParcel registers a new parcel
// @Summary      Create parcel
// @Tags         parcelas
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ParcelRequest  true  "Parcel"
// @Success      201      {object}  response.Response{data=model.Parcel}
// @Failure      400      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /api/parcelas [post]
func (h *ParcelHandler) CreateParcel(c *gin.Context) {
	var req service.ParcelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	res, err := h.parcelService.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	writeResult(c, http.StatusCreated, res)
}

// UpdateParcel replaces a parcel's fields
// @Summary      Update parcel
// @Tags         parcelas
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                 true  "Parcel ID"
// @Param        payload  body      service.ParcelRequest  true  "Parcel"
// @Success      200      {object}  response.Response{data=model.Parcel}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/parcelas/{id} [put]
func (h *ParcelHandler) UpdateParcel(c *gin.Context) {
	var req service.ParcelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	res, err := h.parcelService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	writeResult(c, http.StatusOK, res)
}

// DeleteParcel deletes a parcel together with its crops and tasks
// @Summary      Delete parcel
// @Description  Removes the parcel, its crops and every task referencing either. Requires confirm=true.
// @Tags         parcelas
// @Security     BearerAuth
// @Produce      json
// @Param        id       path      string  true  "Parcel ID"
// @Param        confirm  query     bool    true  "Confirm cascading delete"
// @Success      200      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/parcelas/{id} [delete]
func (h *ParcelHandler) DeleteParcel(c *gin.Context) {
	id := c.Param("id")
	if err := h.cascadeService.DeleteParcel(c.Request.Context(), id, confirmed(c)); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"id": id}))
}
