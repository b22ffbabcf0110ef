package attendance

import (
	"net/http"
	"strconv"
	"time"

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
	l := zap.L().Named("attendance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("attendance request failed",
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

func parseDateParam(c *gin.Context, key string) (time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}, false
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func (h *Handler) Mark(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User tidak terautentikasi", nil)
		return
	}
	h.logger.Debug("http mark attendance", zap.Int64("user_id", userID))

	resp, err := h.service.Mark(c.Request.Context(), userID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Attendance marked successfully.", resp, nil)
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

	response.Success(c, http.StatusOK, "Attendances found successfully.", resp, nil)
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

	response.Success(c, http.StatusOK, "Attendance found successfully.", resp, nil)
}

func (h *Handler) GetMyGrade(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User tidak terautentikasi", nil)
		return
	}
	h.gradeFor(c, userID)
}

func (h *Handler) GetGradeByUser(c *gin.Context) {
	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || targetID <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", "id must be a positive integer")
		return
	}
	h.gradeFor(c, targetID)
}

func (h *Handler) gradeFor(c *gin.Context, userID int64) {
	start, okStart := parseDateParam(c, "start")
	end, okEnd := parseDateParam(c, "end")
	if !okStart || !okEnd {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", "start and end must be YYYY-MM-DD")
		return
	}

	resp, err := h.service.Grade(c.Request.Context(), userID, start, end)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Grade calculated successfully.", resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	resp, err := h.service.GetAllOfAllTime(c.Request.Context())
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
	response.Success(c, http.StatusOK, "Attendances found successfully.", resp[start:end], &meta)
}

func (h *Handler) GetAllToday(c *gin.Context) {
	resp, err := h.service.GetAllToday(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Attendances found successfully.", resp, nil)
}

func (h *Handler) GetAllByDate(c *gin.Context) {
	date, ok := parseDateParam(c, "date")
	if !ok {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", "date must be YYYY-MM-DD")
		return
	}

	resp, err := h.service.GetAllByDate(c.Request.Context(), date)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Attendances found successfully.", resp, nil)
}

func (h *Handler) GetAbsentees(c *gin.Context) {
	date, ok := parseDateParam(c, "date")
	if !ok {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", "date must be YYYY-MM-DD")
		return
	}

	resp, err := h.service.Absentees(c.Request.Context(), date)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Absentees found successfully.", resp, nil)
}

func (h *Handler) GetByUser(c *gin.Context) {
	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || targetID <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", "id must be a positive integer")
		return
	}

	resp, err2 := h.service.GetByUser(c.Request.Context(), targetID)
	if err2 != nil {
		h.writeServiceError(c, err2)
		return
	}

	response.Success(c, http.StatusOK, "Attendances found successfully.", resp, nil)
}

func (h *Handler) GetById(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", "id must be a positive integer")
		return
	}

	resp, err2 := h.service.GetByID(c.Request.Context(), id)
	if err2 != nil {
		h.writeServiceError(c, err2)
		return
	}

	response.Success(c, http.StatusOK, "Attendance found successfully.", resp, nil)
}
