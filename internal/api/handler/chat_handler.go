package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/safespace/support-portal/internal/core/domain"
	"github.com/safespace/support-portal/internal/core/ports"
)

type ChatHandler struct {
	conversation ports.ConversationService
	sessions     ports.SessionStore
}

func NewChatHandler(conversation ports.ConversationService, sessions ports.SessionStore) *ChatHandler {
	return &ChatHandler{conversation: conversation, sessions: sessions}
}

type chatRequest struct {
	Prompt string `json:"prompt" validate:"notblank"`
}

type chatResponse struct {
	Reply string        `json:"reply"`
	Turns []domain.Turn `json:"turns"`
}

// History returns the session's conversation.
//
// @Summary   Conversation
// @Tags      chat
// @Produce   json
// @Security  BearerAuth
// @Success   200  {array}   domain.Turn
// @Failure   401  {object}  map[string]string
// @Router    /v1/chat [get]
func (h *ChatHandler) History(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	turns := sess.Conversation
	if turns == nil {
		turns = []domain.Turn{}
	}
	return c.JSON(http.StatusOK, turns)
}

// Send records a prompt and returns the assistant's reply.
//
// @Summary   Chat
// @Tags      chat
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      chatRequest  true  "Prompt"
// @Success   200   {object}  chatResponse
// @Failure   401   {object}  map[string]string
// @Failure   422   {object}  map[string]string
// @Router    /v1/chat [post]
func (h *ChatHandler) Send(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req chatRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	reply, err := h.conversation.Chat(ctx, sess, req.Prompt)
	if err != nil {
		return err
	}
	if err := h.sessions.Save(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return c.JSON(http.StatusOK, chatResponse{Reply: reply, Turns: sess.Conversation})
}
