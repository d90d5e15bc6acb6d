package models

// ScoringProfile is the vocabulary and cutoff a batch is screened against.
type ScoringProfile struct {
	Skills    []string `json:"skills"`
	Education []string `json:"education"`
	Cutoff    float64  `json:"cutoff"`
}
