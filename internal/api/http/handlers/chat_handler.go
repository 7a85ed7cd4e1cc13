package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-desk/internal/api/dto"
	"github.com/spec-kit/complaint-desk/internal/service"
	apperrors "github.com/spec-kit/complaint-desk/pkg/util/errorutil"
)

// ChatHandler exposes the ticket conversation thread.
type ChatHandler struct {
	messages *service.MessageService
}

// NewChatHandler constructs handler.
func NewChatHandler(messages *service.MessageService) *ChatHandler {
	return &ChatHandler{messages: messages}
}

// Send POST /chat/send.
func (h *ChatHandler) Send(c *fiber.Ctx) error {
	var req dto.ChatSendRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := ValidateStruct(req); err != nil {
		return err
	}
	msg, err := h.messages.Send(c.UserContext(), service.MessageSendInput{
		TicketID: req.TicketID,
		SenderID: req.SenderID,
		Content:  req.Content,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewMessageResponse(*msg))
}
