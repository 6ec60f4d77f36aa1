package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/courtvision/courtvision/internal/usecase"
)

type warmJobRequest struct {
	Dates      []string `json:"dates"`
	MaxWorkers int      `json:"max_workers"`
}

// RunWarmJob pre-fetches and merges the requested dates so the first
// dashboard hit after a deploy or cache flush is already warm. An empty
// body warms today.
func (h *Handler) RunWarmJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunWarmJob")
	defer span.End()

	req, err := decodeWarmJobRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.warm.Warm(ctx, usecase.WarmInput{
		Dates:      req.Dates,
		MaxWorkers: req.MaxWorkers,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "run warm job failed", "dates", req.Dates, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func decodeWarmJobRequest(r *http.Request) (warmJobRequest, error) {
	var req warmJobRequest
	if r.Body == nil {
		return req, nil
	}

	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if errors.Is(err, io.EOF) {
		return warmJobRequest{}, nil
	}
	if err != nil {
		return warmJobRequest{}, fmt.Errorf("%w: invalid warm job body: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}
