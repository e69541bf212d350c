package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cuaderno/internal/model"
	"cuaderno/internal/service"
	"cuaderno/pkg/response"
)

type FinanceHandler struct {
	financeService service.FinanceService
}

func NewFinanceHandler(financeService service.FinanceService) *FinanceHandler {
	return &FinanceHandler{financeService: financeService}
}

func (h *FinanceHandler) RegisterRoutes(router *gin.RouterGroup) {
	records := router.Group("/registros")
	{
		records.GET("", h.ListRecords)
		records.GET("/categorias", h.ListCategories)
		records.POST("", h.CreateRecord)
		records.PUT("/:id", h.UpdateRecord)
		records.DELETE("/:id", h.DeleteRecord)
	}
}

// ListRecords returns income and expense records
// @Summary      List financial records
// @Tags         registros
// @Security     BearerAuth
// @Produce      json
// @Param        tipo   query     string  false  "ingreso or gasto"
// @Param        page   query     int     false  "Page number"
// @Param        limit  query     int     false  "Items per page"
// @Success      200    {object}  response.Response{data=[]model.FinancialRecord}
// @Router       /api/registros [get]
func (h *FinanceHandler) ListRecords(c *gin.Context) {
	writeList(c, h.financeService.List(c.Query("tipo")))
}

// ListCategories returns the categories offered for each record type
// @Summary      List record categories
// @Tags         registros
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=map[string][]string}
// @Router       /api/registros/categorias [get]
func (h *FinanceHandler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string][]string{
		model.RecordTypeExpense: model.ExpenseCategories,
		model.RecordTypeIncome:  model.IncomeCategories,
	}))
}

// CreateRecord stores an income or expense
// @Summary      Create financial record
// @Tags         registros
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.FinancialRecordRequest  true  "Record"
// @Success      201      {object}  response.Response{data=model.FinancialRecord}
// @Failure      400      {object}  response.Response
// @Router       /api/registros [post]
func (h *FinanceHandler) CreateRecord(c *gin.Context) {
	var req service.FinancialRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	res, err := h.financeService.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	writeResult(c, http.StatusCreated, res)
}

// UpdateRecord replaces a financial record
// @Summary      Update financial record
// @Tags         registros
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                          true  "Record ID"
// @Param        payload  body      service.FinancialRecordRequest  true  "Record"
// @Success      200      {object}  response.Response{data=model.FinancialRecord}
// @Failure      404      {object}  response.Response
// @Router       /api/registros/{id} [put]
func (h *FinanceHandler) UpdateRecord(c *gin.Context) {
	var req service.FinancialRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	res, err := h.financeService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	writeResult(c, http.StatusOK, res)
}

// DeleteRecord removes a financial record
// @Summary      Delete financial record
// @Tags         registros
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Record ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/registros/{id} [delete]
func (h *FinanceHandler) DeleteRecord(c *gin.Context) {
	id := c.Param("id")
	if err := h.financeService.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"id": id}))
}
