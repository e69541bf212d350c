package handler

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"cuaderno/internal/service"
	"cuaderno/pkg/response"
)

// maxImportSize bounds backup uploads.
const maxImportSize = 32 << 20

type SettingsHandler struct {
	fiscalService service.FiscalService
	backupService service.BackupService
	healthService service.HealthService
	loaderService service.LoaderService
}

func NewSettingsHandler(
	fiscalService service.FiscalService,
	backupService service.BackupService,
	healthService service.HealthService,
	loaderService service.LoaderService,
) *SettingsHandler {
	return &SettingsHandler{
		fiscalService: fiscalService,
		backupService: backupService,
		healthService: healthService,
		loaderService: loaderService,
	}
}

// RegisterRoutes mounts the settings routes. Import and connection checks
// stay reachable while data is not loaded; ready guards the rest.
func (h *SettingsHandler) RegisterRoutes(router *gin.RouterGroup, ready gin.HandlerFunc) {
	settings := router.Group("/ajustes")
	{
		settings.GET("/datos-fiscales", ready, h.GetFiscalProfile)
		settings.PUT("/datos-fiscales", ready, h.SaveFiscalProfile)
		settings.GET("/export", ready, h.ExportBackup)
		settings.POST("/import", h.ImportBackup)
		settings.POST("/verificar-conexion", h.CheckConnection)
	}
}

// GetFiscalProfile returns the user's fiscal data, or null when none is saved
// @Summary      Get fiscal profile
// @Tags         ajustes
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=model.FiscalProfile}
// @Router       /api/ajustes/datos-fiscales [get]
func (h *SettingsHandler) GetFiscalProfile(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.fiscalService.Get()))
}

// SaveFiscalProfile creates or replaces the fiscal profile
// @Summary      Save fiscal profile
// @Tags         ajustes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.FiscalProfileRequest  true  "Fiscal profile"
// @Success      200      {object}  response.Response{data=model.FiscalProfile}
// @Failure      400      {object}  response.Response
// @Router       /api/ajustes/datos-fiscales [put]
func (h *SettingsHandler) SaveFiscalProfile(c *gin.Context) {
	var req service.FiscalProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	res, err := h.fiscalService.Save(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	writeResult(c, http.StatusOK, res)
}

// ExportBackup downloads every collection as a JSON document
// @Summary      Export backup
// @Tags         ajustes
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  service.BackupDocument
// @Router       /api/ajustes/export [get]
func (h *SettingsHandler) ExportBackup(c *gin.Context) {
	body, filename, err := h.backupService.ExportJSON(time.Now())
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// ImportBackup replaces every table with the contents of a backup document
// @Summary      Import backup
// @Description  Wipes all tables and inserts the backup. Accepts the document as the JSON body or as a multipart "file" field. Not transactional.
// @Tags         ajustes
// @Security     BearerAuth
// @Accept       json,mpfd
// @Produce      json
// @Param        file  formData  file  false  "Backup file"
// @Success      200   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Failure      500   {object}  response.Response
// @Router       /api/ajustes/import [post]
func (h *SettingsHandler) ImportBackup(c *gin.Context) {
	raw, err := readImportBody(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid backup upload: "+err.Error()))
		return
	}

	doc, err := h.backupService.ParseDocument(raw)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.backupService.Import(c.Request.Context(), doc.Data); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Datos importados correctamente"}))
}

func readImportBody(c *gin.Context) ([]byte, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			return nil, err
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(io.LimitReader(f, maxImportSize))
	}
	return io.ReadAll(io.LimitReader(c.Request.Body, maxImportSize))
}

// CheckConnection checks the database; when data was never loaded and the
// check succeeds, the load is retried
// @Summary      Check database connection
// @Tags         ajustes
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.ConnectionStatus}
// @Router       /api/ajustes/verificar-conexion [post]
func (h *SettingsHandler) CheckConnection(c *gin.Context) {
	ctx := c.Request.Context()
	status := h.healthService.Check(ctx)

	if status.Connected && h.loaderService.Ready() != nil {
		if err := h.loaderService.Load(ctx); err != nil {
			log.Warn().Err(err).Msg("reload after connection check failed")
		}
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, status))
}
