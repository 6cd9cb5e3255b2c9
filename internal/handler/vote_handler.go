package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gridtalk/gridtalk/internal/dto"
	"github.com/gridtalk/gridtalk/internal/service"
	"github.com/gridtalk/gridtalk/pkg/response"
	"github.com/gridtalk/gridtalk/pkg/validator"
)

type VoteHandler struct {
	service service.VoteService
}

func NewVoteHandler(service service.VoteService) *VoteHandler {
	return &VoteHandler{service: service}
}

// Vote shares its body shape with the push channel's vote frame.
func (h *VoteHandler) Vote(c *gin.Context) {
	var req dto.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.Vote(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
