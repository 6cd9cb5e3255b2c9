package model

// VoteAction is the vote requested by a user.
type VoteAction string

const (
	VoteLike    VoteAction = "like"
	VoteDislike VoteAction = "dislike"
)

// VoteOutcome is the net effect of applying a vote action.
type VoteOutcome string

const (
	VoteOutcomeLiked    VoteOutcome = "liked"
	VoteOutcomeDisliked VoteOutcome = "disliked"
	VoteOutcomeRemoved  VoteOutcome = "removed"
)

// ApplyVote computes the next like/dislike membership for a user on a target.
// Any prior vote is cleared first; repeating the same action toggles the vote
// off. Membership is set-based, so applying the same action twice can never
// double-count. Both the REST handlers and the push dispatcher go through
// this single function.
func ApplyVote(liked, disliked []string, userID string, action VoteAction) (nextLiked, nextDisliked []string, outcome VoteOutcome) {
	hadLiked := contains(liked, userID)
	hadDisliked := contains(disliked, userID)

	nextLiked = remove(liked, userID)
	nextDisliked = remove(disliked, userID)

	if (action == VoteLike && hadLiked) || (action == VoteDislike && hadDisliked) {
		return nextLiked, nextDisliked, VoteOutcomeRemoved
	}

	if action == VoteLike {
		nextLiked = append(nextLiked, userID)
		return nextLiked, nextDisliked, VoteOutcomeLiked
	}

	nextDisliked = append(nextDisliked, userID)
	return nextLiked, nextDisliked, VoteOutcomeDisliked
}

// Score is the derived vote total: |likedBy| - |dislikedBy|.
func Score(liked, disliked []string) int {
	return len(liked) - len(disliked)
}

func contains(s []string, v string) bool {
	for _, e := range s {
		if e == v {
			return true
		}
	}
	return false
}

func remove(s []string, v string) []string {
	out := make([]string, 0, len(s))
	for _, e := range s {
		if e != v {
			out = append(out, e)
		}
	}
	return out
}
