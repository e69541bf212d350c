package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"cuaderno/internal/assistant"
	"cuaderno/pkg/response"
)

// maxImageSize bounds images attached to assistant prompts.
const maxImageSize = 8 << 20

type AssistantHandler struct {
	client assistant.Client
}

func NewAssistantHandler(client assistant.Client) *AssistantHandler {
	return &AssistantHandler{client: client}
}

func (h *AssistantHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/asistente", h.Ask)
}

type AnswerResponse struct {
	Answer string `json:"respuesta"`
}

// Ask forwards a question, optionally with a photo, to the agronomy assistant
// @Summary      Ask the assistant
// @Tags         asistente
// @Security     BearerAuth
// @Accept       mpfd
// @Produce      json
// @Param        prompt  formData  string  true   "Question"
// @Param        image   formData  file    false  "Photo of the crop"
// @Success      200     {object}  response.Response{data=handler.AnswerResponse}
// @Failure      400     {object}  response.Response
// @Failure      503     {object}  response.Response
// @Router       /api/asistente [post]
func (h *AssistantHandler) Ask(c *gin.Context) {
	prompt := c.PostForm("prompt")

	var image *assistant.Image
	if fh, err := c.FormFile("image"); err == nil {
		image, err = readImage(fh.Header.Get("Content-Type"), fh.Size, func() (io.ReadCloser, error) { return fh.Open() })
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
			return
		}
	}

	answer, err := h.client.Ask(c.Request.Context(), prompt, image)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, AnswerResponse{Answer: answer}))
}

func readImage(mimeType string, size int64, open func() (io.ReadCloser, error)) (*assistant.Image, error) {
	if size > maxImageSize {
		return nil, fmt.Errorf("image too large: %d bytes (max %d)", size, maxImageSize)
	}
	f, err := open()
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	return &assistant.Image{Data: data, MIMEType: mimeType}, nil
}
