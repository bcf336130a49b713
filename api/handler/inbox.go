package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskhive/backend/api/transport"
	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/pkg/httpcontext"
	inboxUC "github.com/taskhive/backend/usecase/inbox"
)

type InboxHandler struct {
	baseHandler
	uc *inboxUC.UseCase
}

func NewInboxHandler(uc *inboxUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *InboxHandler {
	return &InboxHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Senders with their latest message
// @Tags inbox
// @Router /api/v1/inbox [get]
func (h *InboxHandler) Senders(ctx *fasthttp.RequestCtx) {
	actor, ok := h.actor(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	senders, err := h.uc.Senders(stdCtx, actor)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if senders == nil {
		senders = []domain.SenderDigest{}
	}
	h.respondList(ctx, senders, len(senders))
}

// @Summary Conversation with another user
// @Tags inbox
// @Router /api/v1/inbox/{id} [get]
func (h *InboxHandler) Open(ctx *fasthttp.RequestCtx) {
	actor, ok := h.actor(ctx)
	if !ok {
		return
	}
	otherID, _ := ctx.UserValue("id").(string)
	if otherID == "" {
		h.respondInvalid(ctx, "missing user id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	conversation, err := h.uc.Open(stdCtx, actor, otherID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, conversation)
}

// @Summary Send a message
// @Tags inbox
// @Router /api/v1/inbox [post]
func (h *InboxHandler) Send(ctx *fasthttp.RequestCtx) {
	actor, ok := h.actor(ctx)
	if !ok {
		return
	}

	var req transport.MessageSendRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.ReceiverID == "" {
		h.respondInvalid(ctx, "receiver_id is required")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	message, err := h.uc.Send(stdCtx, actor, req.ReceiverID, req.Content)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, message)
}
