package pipeline

import (
	"ineta/internal/matching"
	"ineta/internal/merge"
	"ineta/internal/network"
	"ineta/internal/peaks"
	"ineta/internal/report"
)

// ClusterOutput is the checkpoint written by the cluster step.
type ClusterOutput struct {
	Picked    int          `json:"picked"`
	Centroids peaks.Levels `json:"centroids"`
}

// Clustered counts the centroids over every level.
func (o ClusterOutput) Clustered() int {
	return o.Centroids.Total()
}

// FindOutput is the checkpoint written by the find step.
type FindOutput struct {
	Merged     []peaks.Point    `json:"merged"`
	MergeStats merge.Stats      `json:"merge_stats"`
	Aligned    []peaks.Pair     `json:"aligned"`
	Networks   [][]peaks.Point  `json:"networks"`
	Pairs      []peaks.Pair     `json:"pairs"`
	Tagged     []network.Tagged `json:"tagged"`
}

// MatchOutput is the checkpoint written by the match step.
type MatchOutput struct {
	LibraryFile    string                    `json:"library_file"`
	LibraryEntries int                       `json:"library_entries"`
	LibrarySkipped int                       `json:"library_skipped"`
	Networks       []matching.NetworkMatches `json:"networks"`
}

// SummaryOutput is the checkpoint written by the summary step.
type SummaryOutput struct {
	Summary report.Summary `json:"summary"`
	Files   report.Paths   `json:"files"`
}
