package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cuaderno/internal/service"
	"cuaderno/pkg/response"
)

type CropHandler struct {
	cropService    service.CropService
	cascadeService service.CascadeService
}

func NewCropHandler(cropService service.CropService, cascadeService service.CascadeService) *CropHandler {
	return &CropHandler{
		cropService:    cropService,
		cascadeService: cascadeService,
	}
}

func (h *CropHandler) RegisterRoutes(router *gin.RouterGroup) {
	crops := router.Group("/cultivos")
	{
		crops.GET("", h.ListCrops)
		crops.POST("", h.CreateCrop)
		crops.PUT("/:id", h.UpdateCrop)
		crops.DELETE("/:id", h.DeleteCrop)
	}
}

// ListCrops returns the crops, optionally only those of one parcel
// @Summary      List crops
// @Tags         cultivos
// @Security     BearerAuth
// @Produce      json
// @Param        parcelaId  query     string  false  "Filter by parcel"
// @Param        page       query     int     false  "Page number"
// @Param        limit      query     int     false  "Items per page"
// @Success      200        {object}  response.Response{data=[]model.Crop}
// @Router       /api/cultivos [get]
func (h *CropHandler) ListCrops(c *gin.Context) {
	writeList(c, h.cropService.List(c.Query("parcelaId")))
}

// CreateCrop plants a crop on an existing parcel
// @Summary      Create crop
// @Tags         cultivos
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CropRequest  true  "Crop"
// @Success      201      {object}  response.Response{data=model.Crop}
// @Failure      400      {object}  response.Response
// @Router       /api/cultivos [post]
func (h *CropHandler) CreateCrop(c *gin.Context) {
	var req service.CropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	res, err := h.cropService.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	writeResult(c, http.StatusCreated, res)
}

// UpdateCrop replaces a crop's fields
// @Summary      Update crop
// @Tags         cultivos
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Crop ID"
// @Param        payload  body      service.CropRequest  true  "Crop"
// @Success      200      {object}  response.Response{data=model.Crop}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/cultivos/{id} [put]
func (h *CropHandler) UpdateCrop(c *gin.Context) {
	var req service.CropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	res, err := h.cropService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	writeResult(c, http.StatusOK, res)
}

// DeleteCrop deletes a crop together with its tasks
// @Summary      Delete crop
// @Tags         cultivos
// @Security     BearerAuth
// @Produce      json
// @Param        id       path      string  true  "Crop ID"
// @Param        confirm  query     bool    true  "Confirm cascading delete"
// @Success      200      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/cultivos/{id} [delete]
func (h *CropHandler) DeleteCrop(c *gin.Context) {
	id := c.Param("id")
	if err := h.cascadeService.DeleteCrop(c.Request.Context(), id, confirmed(c)); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"id": id}))
}
