package leave_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-attend/internal/leave"
	leaveerrors "go-attend/internal/leave/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok      bool            `json:"ok"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeLeaveService struct {
	requestFn   func(ctx context.Context, userID int64, req leave.CreateLeaveRequest) (leave.LeaveResponse, error)
	approveFn   func(ctx context.Context, id int64, req leave.DecideLeaveRequest) (leave.DecisionResult, error)
	rejectFn    func(ctx context.Context, id int64, req leave.DecideLeaveRequest) (leave.DecisionResult, error)
	getMineFn   func(ctx context.Context, userID int64) ([]leave.LeaveResponse, error)
	getByUserFn func(ctx context.Context, userID int64) ([]leave.LeaveResponse, error)
	getByIDFn   func(ctx context.Context, id int64) (leave.LeaveResponse, error)
	getAllFn    func(ctx context.Context, page, pageSize int) ([]leave.LeaveResponse, int64, error)
}

func (f *fakeLeaveService) Request(ctx context.Context, userID int64, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	return f.requestFn(ctx, userID, req)
}
func (f *fakeLeaveService) Approve(ctx context.Context, id int64, req leave.DecideLeaveRequest) (leave.DecisionResult, error) {
	return f.approveFn(ctx, id, req)
}
func (f *fakeLeaveService) Reject(ctx context.Context, id int64, req leave.DecideLeaveRequest) (leave.DecisionResult, error) {
	return f.rejectFn(ctx, id, req)
}
func (f *fakeLeaveService) GetMine(ctx context.Context, userID int64) ([]leave.LeaveResponse, error) {
	return f.getMineFn(ctx, userID)
}
func (f *fakeLeaveService) GetByUser(ctx context.Context, userID int64) ([]leave.LeaveResponse, error) {
	return f.getByUserFn(ctx, userID)
}
func (f *fakeLeaveService) GetByID(ctx context.Context, id int64) (leave.LeaveResponse, error) {
	return f.getByIDFn(ctx, id)
}
func (f *fakeLeaveService) GetAll(ctx context.Context, page, pageSize int) ([]leave.LeaveResponse, int64, error) {
	return f.getAllFn(ctx, page, pageSize)
}

func TestLeaveHandler_Request(t *testing.T) {
	t.Run("success uses user_id_validated fallback", func(t *testing.T) {
		svc := &fakeLeaveService{
			requestFn: func(ctx context.Context, userID int64, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, int64(7), userID)
				assert.Equal(t, "2026-09-07", req.Date)
				return leave.LeaveResponse{
					ID:     1,
					UserID: userID,
					Date:   req.Date,
					Reason: req.Reason,
					Status: leave.StatusPending,
				}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"date":"2026-09-07","reason":"Family matters"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("user_id_validated", "7")

		h.Request(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got leave.LeaveResponse
		err := json.Unmarshal(env.Data, &got)
		assert.NoError(t, err)
		assert.Equal(t, int64(7), got.UserID)
		assert.Equal(t, leave.StatusPending, got.Status)
	})

	t.Run("negative validation error", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("user_id_validated", "7")

		h.Request(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.NotNil(t, env.Error)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})

	t.Run("negative missing user context", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"date":"2026-09-07","reason":"Family matters"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Request(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("negative weekend returns validation error", func(t *testing.T) {
		svc := &fakeLeaveService{
			requestFn: func(ctx context.Context, userID int64, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrLeaveDateWeekend
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"date":"2026-09-05","reason":"Family matters"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("user_id_validated", "7")

		h.Request(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.NotNil(t, env.Error)
		assert.Equal(t, "Leave cannot be requested for Saturday or Sunday.", env.Error.Message)
	})
}

func TestLeaveHandler_Approve(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, id int64, req leave.DecideLeaveRequest) (leave.DecisionResult, error) {
				assert.Equal(t, int64(3), id)
				assert.Equal(t, "Good reason", req.AdminComment)
				return leave.DecisionResult{
					Leave: leave.LeaveResponse{
						ID:           id,
						Status:       leave.StatusApproved,
						AdminComment: req.AdminComment,
					},
					Message: "Leave approved successfully.",
				}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPatch, "/leaves/3/approve", strings.NewReader(`{"adminComment":"Good reason"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = []gin.Param{{Key: "id", Value: "3"}}

		h.Approve(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		assert.Equal(t, "Leave approved successfully.", env.Message)
		var got leave.LeaveResponse
		err := json.Unmarshal(env.Data, &got)
		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, got.Status)
	})

	t.Run("negative already decided returns conflict", func(t *testing.T) {
		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, id int64, req leave.DecideLeaveRequest) (leave.DecisionResult, error) {
				return leave.DecisionResult{}, leaveerrors.ErrLeaveNotPending
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPatch, "/leaves/3/approve", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = []gin.Param{{Key: "id", Value: "3"}}

		h.Approve(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.NotNil(t, env.Error)
		assert.Equal(t, "Leave request has already been decided.", env.Error.Message)
	})

	t.Run("negative malformed id", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPatch, "/leaves/abc/approve", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = []gin.Param{{Key: "id", Value: "abc"}}

		h.Approve(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLeaveHandler_Reject(t *testing.T) {
	t.Run("already decided is still ok", func(t *testing.T) {
		svc := &fakeLeaveService{
			rejectFn: func(ctx context.Context, id int64, req leave.DecideLeaveRequest) (leave.DecisionResult, error) {
				return leave.DecisionResult{
					Leave: leave.LeaveResponse{
						ID:           id,
						Status:       leave.StatusApproved,
						AdminComment: leave.DefaultApproveComment,
					},
					Message: "Leave is already approved or rejected.",
				}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPatch, "/leaves/3/reject", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = []gin.Param{{Key: "id", Value: "3"}}

		h.Reject(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		assert.Equal(t, "Leave is already approved or rejected.", env.Message)
		var got leave.LeaveResponse
		err := json.Unmarshal(env.Data, &got)
		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, got.Status)
	})

	t.Run("negative service error", func(t *testing.T) {
		svc := &fakeLeaveService{
			rejectFn: func(ctx context.Context, id int64, req leave.DecideLeaveRequest) (leave.DecisionResult, error) {
				return leave.DecisionResult{}, errors.New("db error")
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPatch, "/leaves/3/reject", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = []gin.Param{{Key: "id", Value: "3"}}

		h.Reject(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.NotNil(t, env.Error)
		assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
	})
}

func TestLeaveHandler_GetAll(t *testing.T) {
	t.Run("success passes pagination to service", func(t *testing.T) {
		svc := &fakeLeaveService{
			getAllFn: func(ctx context.Context, page, pageSize int) ([]leave.LeaveResponse, int64, error) {
				assert.Equal(t, 2, page)
				assert.Equal(t, 2, pageSize)
				return []leave.LeaveResponse{
					{ID: 3, Status: leave.StatusPending},
					{ID: 4, Status: leave.StatusPending},
				}, 5, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves?page=2&page_size=2", nil)

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got []leave.LeaveResponse
		err := json.Unmarshal(env.Data, &got)
		assert.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Equal(t, int64(3), got[0].ID)
	})

	t.Run("defaults when query params absent", func(t *testing.T) {
		svc := &fakeLeaveService{
			getAllFn: func(ctx context.Context, page, pageSize int) ([]leave.LeaveResponse, int64, error) {
				assert.Equal(t, 1, page)
				assert.Equal(t, 20, pageSize)
				return nil, 0, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves", nil)

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
