package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/listline/engine/pkg/httpcontext"
	"github.com/listline/engine/usecase/tasklist"
)

type HealthHandler struct {
	baseHandler
	model *tasklist.Model
}

func NewHealthHandler(model *tasklist.Model, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		model:       model,
	}
}

type healthResponse struct {
	Store string         `json:"store"`
	Tasks tasklist.Stats `json:"tasks"`
}

// Check reports the backing store identity and collection counts.
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	h.respondSuccess(ctx, http.StatusOK, healthResponse{
		Store: h.model.StoreIdentity(),
		Tasks: h.model.Stats(true),
	})
}
