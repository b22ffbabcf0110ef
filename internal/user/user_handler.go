package user

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

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
	l := zap.L().Named("user.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("user request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// currentUserID membaca user_id hasil decode token dari context
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

func (h *Handler) GetMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User tidak terautentikasi", nil)
		return
	}
	h.logger.Debug("http get me", zap.Int64("user_id", userID))

	resp, err := h.service.GetMe(c.Request.Context(), userID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "User found successfully.", resp, nil)
}

func (h *Handler) UpdateMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User tidak terautentikasi", nil)
		return
	}
	h.logger.Debug("http update profile", zap.Int64("user_id", userID))

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http update profile validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	resp, err := h.service.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "User updated successfully.", resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	ctx := c.Request.Context()
	h.logger.Debug("http get all users")

	resp, err := h.service.GetAll(ctx)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	q := strings.TrimSpace(strings.ToLower(c.Query("q")))
	if q != "" {
		filtered := make([]UserResponse, 0, len(resp))
		for _, u := range resp {
			if strings.Contains(strings.ToLower(u.Name), q) || strings.Contains(strings.ToLower(u.Email), q) {
				filtered = append(filtered, u)
			}
		}
		resp = filtered
	}

	sortBy := strings.ToLower(strings.TrimSpace(c.DefaultQuery("sort_by", "name")))
	sortDir := strings.ToLower(strings.TrimSpace(c.DefaultQuery("sort_dir", "asc")))
	if sortDir != "desc" {
		sortDir = "asc"
	}
	sort.Slice(resp, func(i, j int) bool {
		var less bool
		switch sortBy {
		case "email":
			less = strings.ToLower(resp[i].Email) < strings.ToLower(resp[j].Email)
		case "id":
			less = resp[i].ID < resp[j].ID
		default:
			less = strings.ToLower(resp[i].Name) < strings.ToLower(resp[j].Name)
		}
		if sortDir == "desc" {
			return !less
		}
		return less
	})

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if pageSize < 1 {
		pageSize = 10
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
	response.Success(c, http.StatusOK, "Users found successfully.", resp[start:end], &meta)
}

func (h *Handler) GetOptions(c *gin.Context) {
	ctx := c.Request.Context()
	h.logger.Debug("http get user options")

	resp, err := h.service.GetOptions(ctx)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "User options found successfully.", resp, nil)
}

func (h *Handler) GetById(c *gin.Context) {
	ctx := c.Request.Context()
	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || targetID <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", "id must be a positive integer")
		return
	}
	h.logger.Debug("http get user by id", zap.Int64("user_id", targetID))

	resp, err := h.service.GetByID(ctx, targetID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "User found successfully.", resp, nil)
}
