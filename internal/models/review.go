package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is one submitted rating plus the three AI-generated artifacts.
// Reviews are immutable once written; all three generated fields are
// populated before the document is inserted.
type Review struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Rating             int                `json:"rating" bson:"rating"`
	ReviewText         string             `json:"reviewText" bson:"reviewText"`
	UserResponse       string             `json:"userResponse" bson:"userResponse"`
	AISummary          string             `json:"aiSummary" bson:"aiSummary"`
	RecommendedActions string             `json:"recommendedActions" bson:"recommendedActions"`
	CreatedAt          time.Time          `json:"createdAt" bson:"createdAt"`
}

type ReviewCreateRequest struct {
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	ReviewText string `json:"reviewText" validate:"max=5000"`
}

type ReviewCreateResponse struct {
	ID           string    `json:"id"`
	Rating       int       `json:"rating"`
	ReviewText   string    `json:"reviewText"`
	UserResponse string    `json:"userResponse"`
	CreatedAt    time.Time `json:"createdAt"`
}

type SentimentAnalysis struct {
	Positive           int64   `json:"positive"`
	PositivePercentage float64 `json:"positivePercentage"`
	Neutral            int64   `json:"neutral"`
	NeutralPercentage  float64 `json:"neutralPercentage"`
	Negative           int64   `json:"negative"`
	NegativePercentage float64 `json:"negativePercentage"`
}

type AnalyticsResponse struct {
	TotalReviews       int64             `json:"totalReviews"`
	AverageRating      float64           `json:"averageRating"`
	RatingDistribution map[string]int64  `json:"ratingDistribution"`
	SentimentAnalysis  SentimentAnalysis `json:"sentimentAnalysis"`
}
