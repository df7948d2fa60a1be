package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/elitepro/quotation/internal/ai"
	"github.com/elitepro/quotation/internal/httpx"
)

type describeRequest struct {
	Prompt string `json:"prompt"`
}

type describeResponse struct {
	Description string `json:"description"`
}

// Describe is the JSON face of the description assist: POST /ai/describe
// with {"prompt": "..."} returns {"description": "..."}.
func (h *QuoteHandler) Describe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	var req describeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	desc, err := h.AI.GenerateDescription(r.Context(), req.Prompt)
	if err != nil {
		if errors.Is(err, ai.ErrNotConfigured) {
			httpx.JSONError(w, http.StatusServiceUnavailable, msgAINotSet, nil)
			return
		}
		h.Log.Warn("description assist failed", zap.Error(err))
		httpx.JSONError(w, http.StatusBadGateway, msgAIFailed, nil)
		return
	}
	httpx.JSON(w, http.StatusOK, describeResponse{Description: desc})
}
