package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vardhaman/furnishing-shop/internal/chat"
	"github.com/vardhaman/furnishing-shop/internal/models"
	"github.com/vardhaman/furnishing-shop/internal/service/token"
)

type ChatbotHandler struct {
	DB        *gorm.DB
	Completer chat.Completer
}

// catalogSnapshot is the product context handed to the model; prices and
// stock are read fresh on every request.
type catalogSnapshot struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	Quantity int     `json:"quantity"`
}

func (h *ChatbotHandler) Chat(c echo.Context) error {
	userID, err := token.ContextUserID(c)
	if err != nil {
		return err
	}

	var req struct {
		Messages []chat.Message `json:"messages"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(req.Messages) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Messages are required")
	}

	var products []models.Product
	if err := h.DB.Select([]string{"id", "name", "price", "category", "quantity"}).Find(&products).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	snapshot := make([]catalogSnapshot, 0, len(products))
	for _, p := range products {
		snapshot = append(snapshot, catalogSnapshot{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Category: p.Category,
			Quantity: p.Quantity,
		})
	}
	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	conversation := make([]chat.Message, 0, len(req.Messages)+2)
	conversation = append(conversation,
		chat.Message{Role: "system", Content: chat.SystemPrompt},
		chat.Message{Role: "system", Content: "Available products: " + string(snapshotJSON)},
	)
	conversation = append(conversation, req.Messages...)

	reply, err := h.Completer.Complete(c.Request().Context(), conversation)
	if err != nil {
		c.Logger().Errorf("chat completion error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	// The per-user log is append-only: user turns first, then the reply.
	logEntries := make([]models.ChatMessage, 0, len(req.Messages)+1)
	for _, m := range req.Messages {
		logEntries = append(logEntries, models.ChatMessage{UserID: userID, Role: m.Role, Content: m.Content})
	}
	logEntries = append(logEntries, models.ChatMessage{UserID: userID, Role: reply.Role, Content: reply.Content})
	if err := h.DB.Create(&logEntries).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"aiResponse": reply})
}
