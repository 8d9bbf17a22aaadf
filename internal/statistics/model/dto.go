// Package model provides data transfer objects for statistics module.
package model

// RecommendationStatistics summarizes the recommendations assigned on one day.
type RecommendationStatistics struct {
	Day            string `json:"day"`
	CompanyBatches int64  `json:"company_batches"`
	MemberBatches  int64  `json:"member_batches"`
	CompanyEntries int64  `json:"company_entries"`
	MemberEntries  int64  `json:"member_entries"`
	RefusedEntries int64  `json:"refused_entries"`
}

// PipelineStatistics counts rows downstream of recommendations, keyed by
// status or support category.
type PipelineStatistics struct {
	Applications map[string]int64 `json:"applications"`
	Invitations  map[string]int64 `json:"invitations"`
	Interviews   map[string]int64 `json:"interviews"`
}

// MatchingStatisticsResponse represents response for matching statistics.
type MatchingStatisticsResponse struct {
	Recommendations RecommendationStatistics `json:"recommendations"`
	Pipeline        PipelineStatistics       `json:"pipeline"`
}
