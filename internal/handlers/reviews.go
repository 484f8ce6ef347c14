package handlers

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/reviewpulse/reviewpulse-backend/internal/models"
	"github.com/reviewpulse/reviewpulse-backend/utils"
)

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Field() {
		case "Rating":
			return "Rating must be between 1 and 5"
		case "ReviewText":
			return "Review text must be at most 5000 characters"
		}
	}
	return "Invalid review submission"
}

// CreateReview accepts a rating plus optional review text, generates the
// three AI artifacts, and persists the review. The record is written only
// after all three artifacts exist.
func (h *Handler) CreateReview(c *fiber.Ctx) error {
	var req models.ReviewCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	req.ReviewText = strings.TrimSpace(req.ReviewText)

	if err := utils.Validate.Struct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, validationMessage(err))
	}

	ctx := c.Context()

	// Actions depend on the summary, so the three calls are sequential.
	userResponse := h.engine.GenerateUserResponse(ctx, req.Rating, req.ReviewText)
	summary := h.engine.GenerateSummary(ctx, req.ReviewText)
	actions := h.engine.GenerateRecommendedActions(ctx, req.Rating, req.ReviewText, summary)

	review := models.Review{
		Rating:             req.Rating,
		ReviewText:         req.ReviewText,
		UserResponse:       userResponse,
		AISummary:          summary,
		RecommendedActions: actions,
	}

	if err := h.store.Create(ctx, &review); err != nil {
		h.logger.Error("failed to save review", zap.Error(err))
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to process review. Please try again later.")
	}

	return c.Status(fiber.StatusCreated).JSON(models.ReviewCreateResponse{
		ID:           review.ID.Hex(),
		Rating:       review.Rating,
		ReviewText:   review.ReviewText,
		UserResponse: review.UserResponse,
		CreatedAt:    review.CreatedAt,
	})
}
