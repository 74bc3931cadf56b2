package model

import "time"

// Answers holds in-progress answers of an experiment, keyed by question id.
type Answers struct {
	Choice map[int64]string `json:"choice"`
	Fill   map[int64]string `json:"fill"`
	Coding map[int64]string `json:"coding"`
}

// Progress is the saved answer state of one experiment.
type Progress struct {
	Answers   Answers   `json:"answers"`
	LastSaved time.Time `json:"lastSaved"`
}

// CodingProgress is the saved editor state of one coding question.
type CodingProgress struct {
	Code      string    `json:"code"`
	Timestamp time.Time `json:"timestamp"`
}
