package dto

import "time"

// QuestionStat accumulates the raw values submitted for a question.
type QuestionStat struct {
	Responses int           `json:"responses"`
	Values    []interface{} `json:"values"`
}

// SurveyStatsResponse summarises the responses of a survey.
type SurveyStatsResponse struct {
	SurveyID       string                  `json:"survey_id"`
	TotalResponses int                     `json:"total_responses"`
	QuestionStats  map[string]QuestionStat `json:"question_stats"`
	GeneratedAt    time.Time               `json:"generated_at"`
	CacheHit       bool                    `json:"cache_hit"`
}

// SurveyResponseCount reports how many responses a survey collected.
type SurveyResponseCount struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	ResponseCount int64  `json:"response_count"`
}

// UserAnalyticsResponse aggregates response counts across the surveys a user owns.
type UserAnalyticsResponse struct {
	TotalSurveys              int                   `json:"total_surveys"`
	TotalResponses            int64                 `json:"total_responses"`
	AverageResponsesPerSurvey float64               `json:"average_responses_per_survey"`
	Surveys                   []SurveyResponseCount `json:"surveys"`
	GeneratedAt               time.Time             `json:"generated_at"`
	CacheHit                  bool                  `json:"cache_hit"`
}
