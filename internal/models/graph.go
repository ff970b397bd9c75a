package models

// StoryStatus governs traversal eligibility of a story.
type StoryStatus string

const (
	StoryStatusDraft     StoryStatus = "draft"
	StoryStatusPublished StoryStatus = "published"
	StoryStatusSuspended StoryStatus = "suspended"
)

// Story is a named narrative graph held by the external graph store.
// Entity ids are assigned by the store.
type Story struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Status      StoryStatus `json:"status"`
	StartPageID *int64      `json:"start_page_id"`
}

// Page is a node in the narrative graph. A page with IsEnding set is a
// terminal node of the traversal state machine.
type Page struct {
	ID          int64   `json:"id"`
	StoryID     int64   `json:"story_id"`
	Text        string  `json:"text"`
	IsEnding    bool    `json:"is_ending"`
	EndingLabel *string `json:"ending_label"`
}

// Choice is a directed edge from one page to another, labeled with
// reader-facing text. Cycles are permitted and not checked here.
type Choice struct {
	ID         int64  `json:"id"`
	PageID     int64  `json:"page_id"`
	Text       string `json:"text"`
	NextPageID int64  `json:"next_page_id"`
}

// PageWithChoices is the unit the graph store returns for a traversal step.
type PageWithChoices struct {
	Page    Page     `json:"page"`
	Choices []Choice `json:"choices"`
}

// StoryInput carries the mutable fields for story create/update calls.
type StoryInput struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Status      StoryStatus `json:"status"`
	StartPageID *int64      `json:"start_page_id,omitempty"`
}

// PageInput carries the fields for adding a page under a story.
type PageInput struct {
	Text        string  `json:"text"`
	IsEnding    bool    `json:"is_ending"`
	EndingLabel *string `json:"ending_label,omitempty"`
}

// ChoiceInput carries the fields for adding a choice under a page.
type ChoiceInput struct {
	Text       string `json:"text"`
	NextPageID int64  `json:"next_page_id"`
}
