package responses

import (
	"goqualtrics/internal/domain/directory"
	"goqualtrics/internal/domain/response"
)

type surveysOutput struct {
	Body surveysResponse
}

type surveysResponse struct {
	Count   int                `json:"count"`
	Surveys []directory.Survey `json:"surveys"`
}

type listInput struct {
	SurveyID string `path:"id" example:"SV_1" doc:"ID опроса"`
	Filter   string `query:"filter" doc:"Имя сохраненного фильтра"`
	Refresh  bool   `query:"refresh" doc:"Выгрузить ответы заново"`
	Offset   int    `query:"offset" minimum:"0" doc:"Сколько ответов пропустить"`
	Limit    int    `query:"limit" minimum:"0" doc:"Максимум ответов, 0 - без ограничения"`
}

type listOutput struct {
	Body listResponse
}

type listResponse struct {
	Total     int               `json:"total" doc:"Ответов после фильтра"`
	Count     int               `json:"count" doc:"Ответов в этой странице"`
	Responses []response.Record `json:"responses"`
}

type findInput struct {
	SurveyID   string `path:"id" example:"SV_1" doc:"ID опроса"`
	ResponseID string `path:"responseId" example:"R_1" doc:"ID ответа"`
	Refresh    bool   `query:"refresh" doc:"Выгрузить ответы заново"`
}

type findOutput struct {
	Body response.Record
}

type historyInput struct {
	SurveyID string `path:"id" example:"SV_1" doc:"ID опроса"`
	Limit    int    `query:"limit" default:"20" minimum:"0" doc:"Сколько последних выгрузок вернуть"`
}

type historyOutput struct {
	Body historyResponse
}

type historyResponse struct {
	Count   int                     `json:"count"`
	Exports []response.HistoryEntry `json:"exports"`
}
