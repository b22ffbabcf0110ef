package task

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go-attend/internal/shared/apperror"
	"go-attend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("task.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("task.handler")
	}
	return &Handler{service: service, logger: l}
}

func NewHandlerWithRedis(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	h := NewHandler(service, logger...)
	h.rdb = rdb
	return h
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("task request failed",
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

func (h *Handler) Create(c *gin.Context) {
	lockKey, _ := c.Get("idempotency_lock_key")
	cacheKey, _ := c.Get("idempotency_cache_key")

	// Lock dilepas apapun hasilnya; retry dengan key yang sama dijawab
	// dari cache, bukan dari eksekusi ulang.
	if h.rdb != nil {
		if lk, ok := lockKey.(string); ok && lk != "" {
			defer h.rdb.Del(c.Request.Context(), lk)
		}
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create task validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if h.rdb != nil {
		if ck, ok := cacheKey.(string); ok && ck != "" {
			if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
				_ = h.rdb.Set(c.Request.Context(), ck, payload, 24*time.Hour).Err()
			}
		}
	}

	response.Success(c, http.StatusCreated, "Task created successfully.", resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", "id must be a positive integer")
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http update task validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	resp, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Task updated successfully.", resp, nil)
}

func (h *Handler) Submit(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", "id must be a positive integer")
		return
	}
	userID, okUser := currentUserID(c)
	if !okUser {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User tidak terautentikasi", nil)
		return
	}

	var req SubmitTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http submit task validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), id, userID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Task submitted successfully.", resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	h.decide(c, true)
}

func (h *Handler) Reject(c *gin.Context) {
	h.decide(c, false)
}

func (h *Handler) decide(c *gin.Context, approve bool) {
	id, ok := pathID(c)
	if !ok {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", "id must be a positive integer")
		return
	}

	var req DecideTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http decide task validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	var (
		resp TaskResponse
		err  error
		msg  string
	)
	if approve {
		resp, err = h.service.Approve(c.Request.Context(), id, req)
		msg = "Task approved successfully."
	} else {
		resp, err = h.service.Reject(c.Request.Context(), id, req)
		msg = "Task rejected successfully."
	}
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, msg, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	resp, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if pageSize < 1 {
		pageSize = 20
	}

	total := int64(len(resp))
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(resp) {
		start = len(resp)
	}
	if end > len(resp) {
		end = len(resp)
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, "Tasks found successfully.", resp[start:end], &meta)
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

	response.Success(c, http.StatusOK, "Tasks found successfully.", resp, nil)
}

func (h *Handler) GetMineToday(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User tidak terautentikasi", nil)
		return
	}

	resp, err := h.service.GetMineToday(c.Request.Context(), userID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Tasks found successfully.", resp, nil)
}

// GetMineById membatasi detail task ke pemiliknya
func (h *Handler) GetMineById(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", "id must be a positive integer")
		return
	}
	userID, okUser := currentUserID(c)
	if !okUser {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User tidak terautentikasi", nil)
		return
	}

	resp, err := h.service.GetByIDAndUser(c.Request.Context(), id, userID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Task found successfully.", resp, nil)
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

	response.Success(c, http.StatusOK, "Tasks found successfully.", resp, nil)
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

	response.Success(c, http.StatusOK, "Task found successfully.", resp, nil)
}
