package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "monedero/internal/errors"
	"monedero/internal/oracle"
)

// OracleHandler handles direct requests to the generative-model oracle.
type OracleHandler struct {
	generator oracle.Generator
}

// NewOracleHandler creates a new OracleHandler.
func NewOracleHandler(generator oracle.Generator) *OracleHandler {
	return &OracleHandler{generator: generator}
}

// PromptRequest carries a free-text prompt.
type PromptRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// EmojiResponse pairs an emoji with its catalog category.
type EmojiResponse struct {
	Emoji    string `json:"emoji"`
	Category string `json:"category"`
}

// Categorize handles emoji categorization of a purchase description
// @Summary     Categorize a purchase
// @Description Ask the model for the catalog emoji and category matching a free-text purchase description. Falls back to the Default category when the model's reply cannot be decoded.
// @Tags        oracle
// @Accept      json
// @Produce     json
// @Param       request body PromptRequest true "Purchase description"
// @Success     200 {object} EmojiResponse "Emoji and category"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     502 {object} ErrorResponse "Oracle unreachable"
// @Router      /emojis [post]
func (h *OracleHandler) Categorize(c *gin.Context) {
	var req PromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	raw, err := h.generator.Generate(c.Request.Context(), oracle.BuildCategorizerPrompt(req.Prompt))
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrOracleUnavailable, err))
		return
	}

	category := oracle.ParseCategoryReply(raw)
	c.JSON(http.StatusOK, EmojiResponse{Emoji: category.Emoji, Category: category.Category})
}

// Ask handles a generic free-text prompt passthrough
// @Summary     Ask the model
// @Description Send a free-text prompt to the model and return its raw reply
// @Tags        oracle
// @Accept      json
// @Produce     json
// @Param       request body PromptRequest true "Prompt"
// @Success     200 {object} map[string]string "Raw model reply"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     502 {object} ErrorResponse "Oracle unreachable"
// @Router      /ask [post]
func (h *OracleHandler) Ask(c *gin.Context) {
	var req PromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	raw, err := h.generator.Generate(c.Request.Context(), req.Prompt)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrOracleUnavailable, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"response": raw})
}
