package handlers

import (
	"fmt"
	"math"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/reviewpulse/reviewpulse-backend/internal/models"
	"github.com/reviewpulse/reviewpulse-backend/utils"
)

// GetReviews returns full review rows (including the admin-only artifacts)
// newest first, with skip/limit paging.
func (h *Handler) GetReviews(c *fiber.Ctx) error {
	skip := c.QueryInt("skip", 0)
	if skip < 0 {
		skip = 0
	}
	limit := c.QueryInt("limit", 100)
	if limit < 1 || limit > 100 {
		limit = 100
	}

	reviews, err := h.store.List(c.Context(), int64(skip), int64(limit))
	if err != nil {
		h.logger.Error("failed to fetch reviews", zap.Error(err))
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch reviews")
	}
	if reviews == nil {
		reviews = []models.Review{}
	}

	return c.JSON(fiber.Map{
		"reviews": reviews,
		"skip":    skip,
		"limit":   limit,
	})
}

// GetAnalytics returns totals, the per-rating distribution, the average
// rating, and sentiment buckets (positive {4,5}, neutral {3}, negative {1,2}).
func (h *Handler) GetAnalytics(c *fiber.Ctx) error {
	ctx := c.Context()

	total, err := h.store.Count(ctx)
	if err != nil {
		h.logger.Error("failed to count reviews", zap.Error(err))
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch analytics")
	}

	counts, err := h.store.CountByRating(ctx)
	if err != nil {
		h.logger.Error("failed to count reviews by rating", zap.Error(err))
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch analytics")
	}

	avg, err := h.store.AverageRating(ctx)
	if err != nil {
		h.logger.Error("failed to compute average rating", zap.Error(err))
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch analytics")
	}

	distribution := make(map[string]int64, 5)
	for rating := 1; rating <= 5; rating++ {
		distribution[fmt.Sprintf("rating_%d", rating)] = counts[rating]
	}

	positive := counts[4] + counts[5]
	neutral := counts[3]
	negative := counts[1] + counts[2]

	sentiment := models.SentimentAnalysis{
		Positive: positive,
		Neutral:  neutral,
		Negative: negative,
	}
	if total > 0 {
		sentiment.PositivePercentage = round1(float64(positive) / float64(total) * 100)
		sentiment.NeutralPercentage = round1(float64(neutral) / float64(total) * 100)
		sentiment.NegativePercentage = round1(float64(negative) / float64(total) * 100)
	}

	return c.JSON(models.AnalyticsResponse{
		TotalReviews:       total,
		AverageRating:      round2(avg),
		RatingDistribution: distribution,
		SentimentAnalysis:  sentiment,
	})
}

// GetAIInsights feeds aggregate statistics plus a handful of recent high-
// and low-rated samples into one freeform analysis call.
func (h *Handler) GetAIInsights(c *fiber.Ctx) error {
	ctx := c.Context()

	total, err := h.store.Count(ctx)
	if err != nil {
		h.logger.Error("failed to count reviews", zap.Error(err))
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch insights")
	}

	if total == 0 {
		return c.JSON(fiber.Map{
			"insights":        "No reviews available yet. Start collecting feedback to get AI-powered insights!",
			"strengths":       []string{},
			"weaknesses":      []string{},
			"recommendations": []string{},
		})
	}

	avg, err := h.store.AverageRating(ctx)
	if err != nil {
		h.logger.Error("failed to compute average rating", zap.Error(err))
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch insights")
	}

	counts, err := h.store.CountByRating(ctx)
	if err != nil {
		h.logger.Error("failed to count reviews by rating", zap.Error(err))
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch insights")
	}

	highRated, err := h.store.SampleByRatingRange(ctx, 4, 5, 5)
	if err != nil {
		h.logger.Error("failed to sample high-rated reviews", zap.Error(err))
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch insights")
	}
	lowRated, err := h.store.SampleByRatingRange(ctx, 1, 2, 5)
	if err != nil {
		h.logger.Error("failed to sample low-rated reviews", zap.Error(err))
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch insights")
	}

	prompt := buildInsightsPrompt(total, avg, counts, highRated, lowRated)
	insights := h.engine.GenerateInsights(ctx, prompt)

	return c.JSON(fiber.Map{
		"insights":             insights,
		"totalReviewsAnalyzed": total,
		"averageRating":        round2(avg),
	})
}

func buildInsightsPrompt(total int64, avg float64, counts map[int]int64, highRated, lowRated []models.Review) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyze this customer feedback data:\n\n")
	fmt.Fprintf(&b, "Total Reviews: %d\n", total)
	fmt.Fprintf(&b, "Average Rating: %.2f/5\n", avg)
	b.WriteString("Rating Distribution:\n")
	for rating := 5; rating >= 1; rating-- {
		pct := float64(counts[rating]) / float64(total) * 100
		label := "stars"
		if rating == 1 {
			label = "star"
		}
		fmt.Fprintf(&b, "- %d %s: %d (%.1f%%)\n", rating, label, counts[rating], pct)
	}

	b.WriteString("\nSample High-Rated Reviews:\n")
	for _, r := range highRated {
		if r.ReviewText != "" {
			fmt.Fprintf(&b, "- %s\n", snippet(r.ReviewText, 100))
		}
	}

	b.WriteString("\nSample Low-Rated Reviews:\n")
	for _, r := range lowRated {
		if r.ReviewText != "" {
			fmt.Fprintf(&b, "- %s\n", snippet(r.ReviewText, 100))
		}
	}

	b.WriteString("\nBased on this data, provide:\n")
	b.WriteString("1. Overall insights about customer satisfaction\n")
	b.WriteString("2. Key strengths (what customers love)\n")
	b.WriteString("3. Key weaknesses (what needs improvement)\n")
	b.WriteString("4. Strategic recommendations for the business")

	return b.String()
}

// snippet caps s at n characters.
func snippet(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
