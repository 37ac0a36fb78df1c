package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"spirebridge/internal/app/action"
	"spirebridge/internal/app/observe"
	"spirebridge/internal/app/ports"
	"spirebridge/internal/app/replay"
	"spirebridge/internal/app/status"
	"spirebridge/internal/domain/spire"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// Handler exposes the coordinator over HTTP. It is a thin wrapper: every
// decision lives in the usecases, this only decodes, dispatches, and maps
// errors to statuses.
type Handler struct {
	StatusUC  status.UseCase
	ObserveUC observe.UseCase
	SubmitUC  action.SubmitUseCase
	ClearUC   action.ClearUseCase
	ReplayUC  replay.UseCase
	Session   ports.Coordinator
	KPI       kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())
	s.GET("/health", h.health)
	s.GET("/state", h.state)
	s.POST("/action", h.action)
	s.POST("/queue/clear", h.clear)
	s.POST("/ready", h.ready)
	s.GET("/replay", h.replay)
	s.GET("/ops/kpi", h.kpi)
}

// corsMiddleware lets browser-based agents poll the bridge from any origin.
// The API binds to loopback, so the policy is just answering preflights.
func corsMiddleware() app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		ctx.Response.Header.Set("Access-Control-Allow-Origin", "*")
		ctx.Response.Header.Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		ctx.Response.Header.Set("Access-Control-Allow-Headers", "Content-Type")
		if string(ctx.Method()) == consts.MethodOptions {
			ctx.AbortWithStatus(consts.StatusNoContent)
			return
		}
		ctx.Next(c)
	}
}

func (h Handler) health(c context.Context, ctx *app.RequestContext) {
	resp, err := h.StatusUC.Execute(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) state(c context.Context, ctx *app.RequestContext) {
	resp, err := h.ObserveUC.Execute(c)
	if errors.Is(err, ports.ErrNotFound) {
		ctx.SetStatusCode(consts.StatusNoContent)
		return
	}
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) action(c context.Context, ctx *app.RequestContext) {
	var intent spire.ActionIntent
	if err := json.Unmarshal(ctx.Request.Body(), &intent); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.SubmitUC.Execute(c, action.Request{Intent: intent})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) clear(c context.Context, ctx *app.RequestContext) {
	resp, err := h.ClearUC.Execute(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) ready(_ context.Context, ctx *app.RequestContext) {
	if err := h.Session.TriggerHandshake(); err != nil {
		writeErrorBody(ctx, consts.StatusInternalServerError, "ack_failed", err.Error())
		return
	}
	ctx.JSON(consts.StatusOK, map[string]bool{"ready": true})
}

func (h Handler) replay(c context.Context, ctx *app.RequestContext) {
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	resp, err := h.ReplayUC.Execute(c, replay.Request{Limit: limit})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, action.ErrUnknownActionType):
		writeRejection(ctx, consts.StatusBadRequest, "unknown_action_type", err)
	case errors.Is(err, action.ErrMissingParameter):
		writeRejection(ctx, consts.StatusBadRequest, "missing_parameter", err)
	case errors.Is(err, action.ErrParameterOutOfRange):
		writeRejection(ctx, consts.StatusBadRequest, "parameter_out_of_range", err)
	case errors.Is(err, action.ErrActionNotAllowed):
		writeRejection(ctx, consts.StatusConflict, "action_not_allowed", err)
	case errors.Is(err, action.ErrNoState):
		writeRejection(ctx, consts.StatusConflict, "no_state_yet", err)
	case errors.Is(err, replay.ErrNoRecorder):
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

// writeRejection attaches the structured detail a client needs to repair
// its request: which parameter, which screen.
func writeRejection(ctx *app.RequestContext, httpStatus int, code string, err error) {
	details := map[string]any{}
	var notAllowed *action.NotAllowedError
	var missing *action.MissingParameterError
	var outOfRange *action.OutOfRangeError
	switch {
	case errors.As(err, &notAllowed):
		details["action"] = notAllowed.Type
		details["screen"] = notAllowed.Screen
		if notAllowed.Reason != "" {
			details["reason"] = notAllowed.Reason
		}
	case errors.As(err, &missing):
		details["action"] = missing.Type
		details["parameter"] = missing.Param
	case errors.As(err, &outOfRange):
		details["action"] = outOfRange.Type
		details["parameter"] = outOfRange.Param
		details["detail"] = outOfRange.Detail
	}
	if len(details) == 0 {
		details = nil
	}
	ctx.JSON(httpStatus, map[string]any{
		"status": "rejected",
		"error": map[string]any{
			"code":    code,
			"message": err.Error(),
			"details": details,
		},
	})
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
