package leave

import (
	"net/http"
	"strconv"

	"go-attend/internal/shared/apperror"
	"go-attend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func currentUserID(c *gin.Context) (int64, bool) {
	raw := c.GetString("user_id_validated")
	if raw == "" {
		raw = c.GetString("user_id")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (h *Handler) Request(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User tidak terautentikasi", nil)
		return
	}

	var req CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http request leave validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	resp, err := h.service.Request(c.Request.Context(), userID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Leave requested successfully.", resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", "id must be a positive integer")
		return
	}

	var req DecideLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http approve leave validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	result, err := h.service.Approve(c.Request.Context(), id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result.Message, result.Leave, nil)
}

func (h *Handler) Reject(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", "id must be a positive integer")
		return
	}

	var req DecideLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http reject leave validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	result, err := h.service.Reject(c.Request.Context(), id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result.Message, result.Leave, nil)
}

func (h *Handler) GetMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User tidak terautentikasi", nil)
		return
	}

	resp, err := h.service.GetMine(c.Request.Context(), userID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Leaves found successfully.", resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if pageSize < 1 {
		pageSize = 20
	}

	resp, total, err := h.service.GetAll(c.Request.Context(), page, pageSize)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, "Leaves found successfully.", resp, &meta)
}

func (h *Handler) GetByUser(c *gin.Context) {
	targetID, ok := pathID(c)
	if !ok {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", "id must be a positive integer")
		return
	}

	resp, err := h.service.GetByUser(c.Request.Context(), targetID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Leaves found successfully.", resp, nil)
}

func (h *Handler) GetById(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", "id must be a positive integer")
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Leave found successfully.", resp, nil)
}
