package handler

import "story-engine/internal/models"

// pageDTO is the wire shape of a page presented to a reader.
type pageDTO struct {
	ID          int64       `json:"id"`
	StoryID     int64       `json:"story_id"`
	Text        string      `json:"text"`
	IsEnding    bool        `json:"is_ending"`
	EndingLabel *string     `json:"ending_label,omitempty"`
	Choices     []choiceDTO `json:"choices"`
}

type choiceDTO struct {
	ID         int64  `json:"id"`
	Text       string `json:"text"`
	NextPageID int64  `json:"next_page_id"`
}

// traversalDTO is a page plus the session bookkeeping outcome of the step.
type traversalDTO struct {
	Page           pageDTO `json:"page"`
	Ended          bool    `json:"ended"`
	EndingRecorded bool    `json:"ending_recorded"`
}

type chooseRequest struct {
	NextPageID int64 `json:"next_page_id" binding:"required"`
}

type createStoryRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// updateStoryRequest is a full replacement of the story's mutable fields,
// PUT semantics rather than patch.
type updateStoryRequest struct {
	Title       string             `json:"title" binding:"required"`
	Description string             `json:"description"`
	Status      models.StoryStatus `json:"status"`
	StartPageID *int64             `json:"start_page_id"`
}

type createPageRequest struct {
	Text        string  `json:"text" binding:"required"`
	IsEnding    bool    `json:"is_ending"`
	EndingLabel *string `json:"ending_label"`
}

type createChoiceRequest struct {
	Text       string `json:"text" binding:"required"`
	NextPageID int64  `json:"next_page_id" binding:"required"`
}

func toPageDTO(pw *models.PageWithChoices) pageDTO {
	choices := make([]choiceDTO, 0, len(pw.Choices))
	for _, ch := range pw.Choices {
		choices = append(choices, choiceDTO{ID: ch.ID, Text: ch.Text, NextPageID: ch.NextPageID})
	}
	return pageDTO{
		ID:          pw.Page.ID,
		StoryID:     pw.Page.StoryID,
		Text:        pw.Page.Text,
		IsEnding:    pw.Page.IsEnding,
		EndingLabel: pw.Page.EndingLabel,
		Choices:     choices,
	}
}

func toTraversalDTO(res *models.TraversalResult) traversalDTO {
	return traversalDTO{
		Page:           toPageDTO(&models.PageWithChoices{Page: res.Page, Choices: res.Choices}),
		Ended:          res.Ended,
		EndingRecorded: res.EndingRecorded,
	}
}
