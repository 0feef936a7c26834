package filters

import (
	"time"

	"goqualtrics/internal/domain/filter"
	"goqualtrics/internal/domain/response"
)

type nameInput struct {
	Name string `path:"name" example:"early-reds" doc:"Имя фильтра"`
}

type createInput struct {
	Body createRequest
}

type createRequest struct {
	Name string              `json:"name" minLength:"1" doc:"Имя фильтра"`
	Kind filter.Kind         `json:"kind" enum:"text,date" doc:"Вид фильтра"`
	Text map[string][]string `json:"text,omitempty" doc:"Поле -> допустимые значения"`
	Date map[string][]string `json:"date,omitempty" doc:"Поле -> [YYYY-MM-DD HH:MM:SS, before|after]"`
}

type output struct {
	Body filterResponse
}

type listOutput struct {
	Body listResponse
}

type listResponse struct {
	Count   int              `json:"count"`
	Filters []filterResponse `json:"filters"`
}

type deleteOutput struct {
	Body statusResponse
}

type statusResponse struct {
	Status string `json:"status"`
}

type dateCondition struct {
	Reference string      `json:"reference" example:"2021-03-01 00:00:00"`
	Mode      filter.Mode `json:"mode" enum:"before,after"`
}

type filterResponse struct {
	ID        string                   `json:"id"`
	Name      string                   `json:"name"`
	Kind      filter.Kind              `json:"kind"`
	Text      map[string][]string      `json:"text,omitempty"`
	Date      map[string]dateCondition `json:"date,omitempty"`
	CreatedAt time.Time                `json:"created_at"`
}

func toResponse(s *filter.Saved) filterResponse {
	out := filterResponse{
		ID:        s.ID.String(),
		Name:      s.Name,
		Kind:      s.Spec.Kind,
		Text:      s.Spec.Text,
		CreatedAt: s.CreatedAt,
	}
	if len(s.Spec.Date) > 0 {
		out.Date = make(map[string]dateCondition, len(s.Spec.Date))
		for field, c := range s.Spec.Date {
			out.Date[field] = dateCondition{
				Reference: c.Reference.Format(response.TimestampLayout),
				Mode:      c.Mode,
			}
		}
	}
	return out
}

func (r createRequest) spec() (filter.Spec, error) {
	if r.Kind == filter.KindDate {
		return filter.ParseDateSpec(r.Date)
	}
	return filter.TextSpec(r.Text), nil
}
