package attendance

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	// self-reported statuses (modal submits)
	r.POST("/reports/late", h.ReportLate)
	r.POST("/reports/absent", h.ReportAbsent)
	r.POST("/reports/sick-leave", h.OpenSickLeave)

	// attachment-bearing messages observed by the gateway
	r.POST("/messages", h.HandleMessage)

	// teacher-gated views
	r.GET("/attendance/today", h.TodayView)
	r.GET("/attendance/stats", h.MonthlyView)

	// caller-scoped view
	r.GET("/attendance/me", h.MyView)
}

func (h *Handler) ReportLate(c *gin.Context) {
	h.handleReport(c, h.svc.ReportLate)
}

func (h *Handler) ReportAbsent(c *gin.Context) {
	h.handleReport(c, h.svc.ReportAbsent)
}

func (h *Handler) handleReport(c *gin.Context, fn func(ctx context.Context, in ReportRequest) (ReportResponse, error)) {
	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "invalid json or missing required fields"))
		return
	}

	res, err := fn(c.Request.Context(), req)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *Handler) OpenSickLeave(c *gin.Context) {
	var req SickLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "invalid json or missing required fields"))
		return
	}

	res, err := h.svc.OpenSickLeave(c.Request.Context(), req)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *Handler) HandleMessage(c *gin.Context) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "invalid json or missing required fields"))
		return
	}

	res, err := h.svc.HandleMessage(c.Request.Context(), req)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	if res == nil {
		// ignorable message, nothing recorded
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *Handler) TodayView(c *gin.Context) {
	res, err := h.svc.TodayView(c.Request.Context(), c.Query("user_id"))
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) MonthlyView(c *gin.Context) {
	res, err := h.svc.MonthlyView(c.Request.Context(), c.Query("user_id"))
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) MyView(c *gin.Context) {
	res, err := h.svc.MyView(c.Request.Context(), c.Query("user_id"), c.Query("status"))
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

// ---------- helpers ----------

type errorDTO struct {
	Error struct {
		Code    Code   `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func errorBody(code Code, msg string) errorDTO {
	var e errorDTO
	e.Error.Code = code
	e.Error.Message = msg
	return e
}

func errorFromErr(err error) errorDTO {
	var msg string
	var code Code = CodeInternal
	if api, ok := err.(*APIError); ok {
		code, msg = api.Code, api.Message
	} else {
		msg = err.Error()
	}
	return errorBody(code, msg)
}
