package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	critiqueUC "github.com/MinKhant07/Thumbnail/internal/application/usecase/critique"
	"github.com/MinKhant07/Thumbnail/pkg/apperror"
	"github.com/MinKhant07/Thumbnail/pkg/datauri"
	"github.com/MinKhant07/Thumbnail/pkg/logger"
)

type CritiqueHandler struct {
	critiqueUC     *critiqueUC.CritiqueUseCase
	maxUploadBytes int64
	logger         logger.Logger
}

func NewCritiqueHandler(uc *critiqueUC.CritiqueUseCase, maxUploadBytes int64, log logger.Logger) *CritiqueHandler {
	return &CritiqueHandler{
		critiqueUC:     uc,
		maxUploadBytes: maxUploadBytes,
		logger:         log,
	}
}

// Critique reviews one uploaded image. Same upload gate as the gallery,
// no persistence anywhere in the path.
func (h *CritiqueHandler) Critique(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.NewInvalidInput("'file' is required", err))
		return
	}
	if fileHeader.Size > h.maxUploadBytes {
		c.Error(apperror.NewPayloadTooLarge(
			fmt.Sprintf("file is %d bytes, upload limit is %d", fileHeader.Size, h.maxUploadBytes)))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.NewInternal("failed to open file", err))
		return
	}
	defer file.Close()

	imageData, err := datauri.EncodeReader(file)
	if err != nil {
		c.Error(apperror.NewInternal("failed to read uploaded file", err))
		return
	}

	output, err := h.critiqueUC.Execute(c.Request.Context(), critiqueUC.CritiqueInput{ImageData: imageData})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToCritiqueDTO(output.Critique, output.Cached))
}
