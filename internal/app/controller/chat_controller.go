package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/minhtvo/storefront-gateway/internal/app/service"
	"github.com/minhtvo/storefront-gateway/internal/errors"
	"github.com/minhtvo/storefront-gateway/internal/middleware"
	ws "github.com/minhtvo/storefront-gateway/internal/websocket"
)

type ChatController struct {
	chatService service.ChatService
	hub         *ws.Hub
	upgrader    gorillaws.Upgrader
}

func NewChatController(chatService service.ChatService, hub *ws.Hub) *ChatController {
	return &ChatController{
		chatService: chatService,
		hub:         hub,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The session token already gates the upgrade
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

type AskRequest struct {
	Question string `json:"question" binding:"required"`
}

// Ask relays a question to the assistant over plain HTTP
// POST /api/v1/chat
func (ctrl *ChatController) Ask(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid chat request", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ChatEmptyQuestion, "Vui lòng nhập câu hỏi")
		return
	}

	answer, err := ctrl.chatService.Ask(c.Request.Context(), middleware.GetSessionID(c), req.Question)
	if err != nil {
		errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": answer,
	})
}

// History returns the session's transcript
// GET /api/v1/chat/history
func (ctrl *ChatController) History(c *gin.Context) {
	messages, err := ctrl.chatService.History(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
	})
}

// Reset clears the session's transcript
// DELETE /api/v1/chat
func (ctrl *ChatController) Reset(c *gin.Context) {
	if err := ctrl.chatService.Reset(c.Request.Context(), middleware.GetSessionID(c)); err != nil {
		errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Đã xóa hội thoại",
	})
}

// wsQuestion is the only frame the widget sends over the socket
type wsQuestion struct {
	Question string `json:"question"`
}

// Connect upgrades to a WebSocket. Inbound frames are chat questions; the
// socket also receives cart and wishlist change events pushed by the hub.
// GET /api/v1/chat/ws
func (ctrl *ChatController) Connect(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID := middleware.GetSessionID(c)

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket upgrade failed", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return
	}

	client := &ws.Client{
		Hub:       ctrl.hub,
		Conn:      &ws.Conn{Conn: conn},
		SessionID: sessionID,
		Send:      make(chan []byte, 256),
	}
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump(ctrl.handleFrame)
}

func (ctrl *ChatController) handleFrame(client *ws.Client, message []byte) {
	var frame wsQuestion
	if err := json.Unmarshal(message, &frame); err != nil || frame.Question == "" {
		return
	}

	// Detached from the request; the socket outlives it
	answer, err := ctrl.chatService.Ask(context.Background(), client.SessionID, frame.Question)
	if err != nil {
		ctrl.hub.SendToSession(client.SessionID, ws.Event{
			Type:    "chat_error",
			Payload: gin.H{"message": "Trợ lý đang bận. Vui lòng thử lại sau"},
		})
		return
	}

	ctrl.hub.SendToSession(client.SessionID, ws.Event{
		Type:    "chat_answer",
		Payload: answer,
	})
}
