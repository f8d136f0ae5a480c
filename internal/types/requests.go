package types

import (
	"github.com/go-playground/validator/v10"
)

// AgendaItemInput is an agenda item supplied by a client when creating a meeting.
type AgendaItemInput struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title" validate:"required,min=1,max=500"`
	Duration    int    `json:"duration,omitempty" validate:"gte=0,lte=600"`
	Presenter   string `json:"presenter,omitempty"`
	Objective   string `json:"objective,omitempty" validate:"omitempty,oneof=Decision Information"`
	Description string `json:"description,omitempty"`
}

// CreateMeetingRequest represents the request to create a meeting with its agenda.
type CreateMeetingRequest struct {
	Title         string            `json:"title" validate:"required,min=1,max=500"`
	Date          string            `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02T15:04"`
	MeetingNumber string            `json:"meetingNumber,omitempty" validate:"omitempty,numeric,max=4"`
	AgendaItems   []AgendaItemInput `json:"agendaItems" validate:"agendaids,dive"`
}

// MatchRequest asks the server to match parsed minutes against an existing agenda.
type MatchRequest struct {
	Parsed   []AgendaItem `json:"parsed" validate:"required,min=1"`
	Existing []AgendaItem `json:"existing" validate:"required,min=1,agendaids=required"`
}

// MatchResponse maps existing agenda item IDs to the parsed item bound to them.
type MatchResponse struct {
	Matches   map[string]AgendaItem `json:"matches"`
	Unmatched int                   `json:"unmatched"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("agendaids", uniqueAgendaIDs); err != nil {
		panic(err)
	}
	return v
}

// uniqueAgendaIDs rejects a list of agenda items that repeats an ID.
// With the "required" param empty IDs are rejected as well.
func uniqueAgendaIDs(fl validator.FieldLevel) bool {
	var ids []string
	switch items := fl.Field().Interface().(type) {
	case []AgendaItemInput:
		for _, item := range items {
			ids = append(ids, item.ID)
		}
	case []AgendaItem:
		for _, item := range items {
			ids = append(ids, item.ID)
		}
	default:
		return false
	}

	required := fl.Param() == "required"
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" {
			if required {
				return false
			}
			continue
		}
		if seen[id] {
			return false
		}
		seen[id] = true
	}
	return true
}

// Validate validates the CreateMeetingRequest using the validator.
func (r *CreateMeetingRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the MatchRequest using the validator.
func (r *MatchRequest) Validate() error {
	return validate.Struct(r)
}

// ToAgendaItems converts the request items into agenda items with defaults applied.
// Items without an ID receive one from newID.
func (r *CreateMeetingRequest) ToAgendaItems(newID func() string) []AgendaItem {
	items := make([]AgendaItem, 0, len(r.AgendaItems))
	for i, in := range r.AgendaItems {
		item := AgendaItem{
			ID:            in.ID,
			Order:         i,
			Title:         in.Title,
			Duration:      in.Duration,
			Presenter:     in.Presenter,
			Objective:     in.Objective,
			Description:   in.Description,
			MinuteEntries: []MinuteEntry{},
		}
		if item.ID == "" {
			item.ID = newID()
		}
		if item.Duration == 0 {
			item.Duration = DefaultItemDuration
		}
		if item.Presenter == "" {
			item.Presenter = DefaultItemPresenter
		}
		if item.Objective == "" {
			item.Objective = ObjectiveInformation
		}
		items = append(items, item)
	}
	return items
}
