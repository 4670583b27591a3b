package dto

import (
	"time"

	"cardbox_backend/internal/models"
)

type PrizeInput struct {
	Rank   int    `json:"rank" validate:"omitempty,min=1"`
	Title  string `json:"title" validate:"required,min=1,max=120"`
	Amount string `json:"amount" validate:"omitempty,max=40"`
}

type CreateChallengeRequest struct {
	Title      string       `json:"title" validate:"required,min=1,max=120"`
	Brief      string       `json:"brief" validate:"omitempty,max=5000"`
	Rules      string       `json:"rules" validate:"omitempty,max=5000"`
	Status     string       `json:"status" validate:"omitempty,is-publish-status"`
	EntryState string       `json:"entryState" validate:"omitempty,is-entry-state"`
	Deadline   *time.Time   `json:"deadline"`
	Prizes     []PrizeInput `json:"prizes" validate:"omitempty,max=20,dive"`
}

type UpdateChallengeRequest struct {
	Slug       *string       `json:"slug" validate:"omitempty,min=1,max=60"`
	Title      *string       `json:"title" validate:"omitempty,min=1,max=120"`
	Brief      *string       `json:"brief" validate:"omitempty,max=5000"`
	Rules      *string       `json:"rules" validate:"omitempty,max=5000"`
	Status     *string       `json:"status" validate:"omitempty,is-publish-status"`
	EntryState *string       `json:"entryState" validate:"omitempty,is-entry-state"`
	Deadline   *time.Time    `json:"deadline"`
	Prizes     *[]PrizeInput `json:"prizes" validate:"omitempty,max=20,dive"`
}

type ChallengeView struct {
	ID              string                  `json:"id"`
	Slug            string                  `json:"slug"`
	Title           string                  `json:"title"`
	Brief           string                  `json:"brief"`
	Rules           string                  `json:"rules"`
	Status          models.PublishStatus    `json:"status"`
	PublishedAt     *time.Time              `json:"publishedAt"`
	EntryState      models.EntryState       `json:"entryState"`
	Deadline        *time.Time              `json:"deadline"`
	SubmissionCount int64                   `json:"submissionCount"`
	Prizes          []models.ChallengePrize `json:"prizes"`
	IsOwner         bool                    `json:"isOwner"`
	CreatedAt       time.Time               `json:"createdAt"`
	UpdatedAt       time.Time               `json:"updatedAt"`
}

func NewChallengeView(challenge *models.Challenge, isOwner bool) *ChallengeView {
	view := &ChallengeView{
		ID:              challenge.ID,
		Slug:            challenge.Slug,
		Title:           challenge.Title,
		Brief:           challenge.Brief,
		Rules:           challenge.Rules,
		Status:          challenge.Status,
		PublishedAt:     challenge.PublishedAt,
		EntryState:      challenge.EntryState,
		Deadline:        challenge.Deadline,
		SubmissionCount: challenge.SubmissionCounter,
		Prizes:          challenge.Prizes,
		IsOwner:         isOwner,
		CreatedAt:       challenge.CreatedAt,
		UpdatedAt:       challenge.UpdatedAt,
	}
	if view.Prizes == nil {
		view.Prizes = []models.ChallengePrize{}
	}
	return view
}

// ToPrizes converts prize inputs into model rows.
func ToPrizes(inputs []PrizeInput) []models.ChallengePrize {
	prizes := make([]models.ChallengePrize, 0, len(inputs))
	for _, in := range inputs {
		rank := in.Rank
		if rank == 0 {
			rank = 1
		}
		prizes = append(prizes, models.ChallengePrize{
			Rank:   rank,
			Title:  in.Title,
			Amount: in.Amount,
		})
	}
	return prizes
}
