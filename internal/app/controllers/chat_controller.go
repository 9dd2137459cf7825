package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/eren/driveshare/internal/app/services"
	"github.com/eren/driveshare/internal/middleware"
)

// ChatController exposes a read-only REST view of chats. Live messaging goes
// through the websocket endpoint.
type ChatController struct {
	chatService *services.ChatService
	logger      zerolog.Logger
}

// NewChatController creates a new ChatController
func NewChatController(chatService *services.ChatService, logger zerolog.Logger) *ChatController {
	return &ChatController{
		chatService: chatService,
		logger:      logger,
	}
}

// GetChat returns a chat with its recent message history. Members only.
func (c *ChatController) GetChat(ctx *gin.Context) {
	chatID, err := idParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp, err := c.chatService.GetChat(ctx.Request.Context(), chatID, middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// GetLenderChats lists every chat on the calling lender's cars.
func (c *ChatController) GetLenderChats(ctx *gin.Context) {
	resp, err := c.chatService.GetLenderChats(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}
