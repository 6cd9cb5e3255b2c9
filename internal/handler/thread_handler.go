package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gridtalk/gridtalk/internal/dto"
	"github.com/gridtalk/gridtalk/internal/service"
	"github.com/gridtalk/gridtalk/pkg/response"
	"github.com/gridtalk/gridtalk/pkg/validator"
)

type ThreadHandler struct {
	service     service.ThreadService
	viewService service.ViewService
}

func NewThreadHandler(service service.ThreadService, viewService service.ViewService) *ThreadHandler {
	return &ThreadHandler{service: service, viewService: viewService}
}

func (h *ThreadHandler) CreateThread(c *gin.Context) {
	var req dto.CreateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	thread, err := h.service.CreateThread(c.Request.Context(), userID, req)
	if err != nil {
		if rateLimitErr, ok := err.(*service.RateLimitError); ok {
			c.Header("Retry-After", fmt.Sprintf("%.0f", rateLimitErr.RetryAfter.Seconds()))
			c.JSON(http.StatusTooManyRequests, gin.H{"error": rateLimitErr.Message})
			return
		}
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, thread)
}

func (h *ThreadHandler) GetAllThreads(c *gin.Context) {
	var filter dto.ThreadFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, err)
		return
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	threads, err := h.service.GetAllThreads(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, threads)
}

// GetThread returns the thread with its assembled comment tree and counts
// the view as a side effect.
func (h *ThreadHandler) GetThread(c *gin.Context) {
	threadID, err := uuid.Parse(c.Param("thread_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid thread id"})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	detail, err := h.service.GetThread(c.Request.Context(), threadID)
	if err != nil {
		response.Error(c, err)
		return
	}

	// Increment view (async, in background)
	go func() {
		_ = h.viewService.IncrementView(context.Background(), threadID, userID)
	}()

	c.JSON(http.StatusOK, detail)
}

func (h *ThreadHandler) UpdateThread(c *gin.Context) {
	threadID, err := uuid.Parse(c.Param("thread_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid thread id"})
		return
	}

	var req dto.UpdateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	thread, err := h.service.UpdateThread(c.Request.Context(), userID, threadID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, thread)
}

func (h *ThreadHandler) DeleteThread(c *gin.Context) {
	threadID, err := uuid.Parse(c.Param("thread_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid thread id"})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.DeleteThread(c.Request.Context(), userID, threadID); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "thread deleted successfully"})
}
