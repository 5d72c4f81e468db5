package model

import "time"

// ImportBatch records one import run and its outcome counts.
type ImportBatch struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	ImportedAt time.Time `json:"importedAt"`
	TotalRows  int       `json:"totalRows"`
	Accepted   int       `json:"accepted"`
	Duplicates int       `json:"duplicates"`
	Skipped    int       `json:"skipped"`
}
