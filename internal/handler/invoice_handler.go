package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cuaderno/internal/pdf"
	"cuaderno/internal/service"
	"cuaderno/pkg/response"
)

type InvoiceHandler struct {
	invoiceService service.InvoiceService
	fiscalService  service.FiscalService
}

func NewInvoiceHandler(invoiceService service.InvoiceService, fiscalService service.FiscalService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		fiscalService:  fiscalService,
	}
}

func (h *InvoiceHandler) RegisterRoutes(router *gin.RouterGroup) {
	invoices := router.Group("/facturas")
	{
		invoices.GET("", h.ListInvoices)
		invoices.GET("/:id", h.GetInvoice)
		invoices.GET("/:id/pdf", h.DownloadInvoicePDF)
		invoices.POST("", h.CreateInvoice)
		invoices.PUT("/:id", h.UpdateInvoice)
		invoices.DELETE("/:id", h.DeleteInvoice)
	}
}

// ListInvoices returns issued and received invoices
// @Summary      List invoices
// @Tags         facturas
// @Security     BearerAuth
// @Produce      json
// @Param        tipo   query     string  false  "emitida or recibida"
// @Param        page   query     int     false  "Page number"
// @Param        limit  query     int     false  "Items per page"
// @Success      200    {object}  response.Response{data=[]model.Invoice}
// @Router       /api/facturas [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	writeList(c, h.invoiceService.List(c.Query("tipo")))
}

// GetInvoice returns one invoice
// @Summary      Get invoice
// @Tags         facturas
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=model.Invoice}
// @Failure      404  {object}  response.Response
// @Router       /api/facturas/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	inv, err := h.invoiceService.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, inv))
}

// DownloadInvoicePDF renders an invoice as PDF
// @Summary      Invoice PDF
// @Tags         facturas
// @Security     BearerAuth
// @Produce      application/pdf
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {file}    binary
// @Failure      404  {object}  response.Response
// @Router       /api/facturas/{id}/pdf [get]
func (h *InvoiceHandler) DownloadInvoicePDF(c *gin.Context) {
	inv, err := h.invoiceService.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	body, err := pdf.RenderInvoice(inv, h.fiscalService.Get())
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+pdf.InvoiceFilename(inv)+`"`)
	c.Data(http.StatusOK, "application/pdf", body)
}

// CreateInvoice stores an invoice; the total is computed from base and VAT rate
// @Summary      Create invoice
// @Tags         facturas
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.InvoiceRequest  true  "Invoice"
// @Success      201      {object}  response.Response{data=model.Invoice}
// @Failure      400      {object}  response.Response
// @Router       /api/facturas [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req service.InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	res, err := h.invoiceService.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	writeResult(c, http.StatusCreated, res)
}

// UpdateInvoice replaces an invoice
// @Summary      Update invoice
// @Tags         facturas
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                  true  "Invoice ID"
// @Param        payload  body      service.InvoiceRequest  true  "Invoice"
// @Success      200      {object}  response.Response{data=model.Invoice}
// @Failure      404      {object}  response.Response
// @Router       /api/facturas/{id} [put]
func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	var req service.InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	res, err := h.invoiceService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	writeResult(c, http.StatusOK, res)
}

// DeleteInvoice removes an invoice
// @Summary      Delete invoice
// @Tags         facturas
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/facturas/{id} [delete]
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	id := c.Param("id")
	if err := h.invoiceService.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"id": id}))
}
