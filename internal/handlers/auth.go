package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/reviewpulse/reviewpulse-backend/internal/config"
	"github.com/reviewpulse/reviewpulse-backend/internal/database"
	"github.com/reviewpulse/reviewpulse-backend/internal/models"
	"github.com/reviewpulse/reviewpulse-backend/utils"
)

// EnsureAdminUser seeds the single operator account from config if it does
// not exist yet. There is no signup flow.
func EnsureAdminUser(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	collection := database.GetCollection("users")

	var existing models.User
	err := collection.FindOne(ctx, bson.M{"email": cfg.AdminEmail}).Decode(&existing)
	if err == nil {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		ID:        primitive.NewObjectID(),
		Email:     cfg.AdminEmail,
		Password:  string(hashed),
		Role:      "admin",
		CreatedAt: time.Now(),
	}

	if _, err := collection.InsertOne(ctx, admin); err != nil {
		return err
	}

	logger.Info("seeded admin user", zap.String("email", cfg.AdminEmail))
	return nil
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := utils.Validate.Struct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	collection := database.GetCollection("users")
	var user models.User
	err := collection.FindOne(c.Context(), bson.M{"email": req.Email}).Decode(&user)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid credentials")
	}

	token, err := utils.GenerateJWT(h.cfg.JWTSecret, user.ID.Hex(), user.Role)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(fiber.Map{
		"user": fiber.Map{
			"id":    user.ID.Hex(),
			"email": user.Email,
			"role":  user.Role,
		},
		"token": token,
	})
}

func (h *Handler) AuthMiddleware(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Missing authorization header")
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(h.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid token")
	}

	if userID, ok := claims["userId"].(string); ok {
		c.Locals("userId", userID)
	}
	if role, ok := claims["role"].(string); ok {
		c.Locals("role", role)
	}

	return c.Next()
}

// AdminMiddleware ensures the requester has role == "admin"
func (h *Handler) AdminMiddleware(c *fiber.Ctx) error {
	role, _ := c.Locals("role").(string)
	if role != "admin" {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Admins only")
	}
	return c.Next()
}
