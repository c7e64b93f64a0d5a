package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/cardnexus/cardnexus-backend/internal/domain/cards"
	"github.com/cardnexus/cardnexus-backend/internal/http/response"
	apperrors "github.com/cardnexus/cardnexus-backend/internal/pkg/errors"
	"github.com/cardnexus/cardnexus-backend/internal/services"
)

// maxScanUpload caps scan uploads at 2 MiB.
const maxScanUpload = 2 << 20

type CardHandler struct {
	cardService services.CardService
}

func NewCardHandler(cardService services.CardService) *CardHandler {
	return &CardHandler{cardService: cardService}
}

// GET /api/cards
func (ch *CardHandler) ListCards(c *gin.Context) {
	var req types.CardListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	result, err := ch.cardService.CardList(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidArgument) {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "card_list_failed", err)
		return
	}
	response.RespondOK(c, result)
}

// POST /api/cards/scan
// multipart form, field "file": the card photo to match against the catalog.
func (ch *CardHandler) ScanCard(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("missing file: %w", err))
		return
	}
	if fileHeader.Size > maxScanUpload {
		response.RespondError(c, http.StatusRequestEntityTooLarge, "file_too_large",
			fmt.Errorf("file exceeds %d bytes", maxScanUpload))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxScanUpload+1))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if len(image) > maxScanUpload {
		response.RespondError(c, http.StatusRequestEntityTooLarge, "file_too_large",
			fmt.Errorf("file exceeds %d bytes", maxScanUpload))
		return
	}

	result, err := ch.cardService.CardScan(c.Request.Context(), image, fileHeader.Filename)
	if err != nil {
		response.RespondError(c, http.StatusBadGateway, "card_scan_failed", err)
		return
	}
	response.RespondOK(c, result)
}
