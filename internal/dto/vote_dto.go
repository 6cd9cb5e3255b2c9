package dto

import "github.com/google/uuid"

type VoteRequest struct {
	TargetType string `json:"targetType" binding:"required,oneof=thread comment"`
	TargetID   string `json:"targetId" binding:"required,uuid"`
	VoteType   string `json:"voteType" binding:"required,oneof=like dislike"`
}

type VoteResponse struct {
	TargetType string    `json:"targetType"`
	TargetID   uuid.UUID `json:"targetId"`
	Outcome    string    `json:"outcome"` // "liked", "disliked" or "removed"
	Score      int       `json:"score"`
	Likes      int       `json:"likes"`
	Dislikes   int       `json:"dislikes"`
}
