package models

type ScreenResponse struct {
	ID      string `json:"id,omitempty"`
	Status  string `json:"status"`
	Total   int    `json:"total"`
	Message string `json:"message,omitempty"`
}

type ResultResponse struct {
	ID        string            `json:"id"`
	Status    string            `json:"status"`
	Processed int               `json:"processed"`
	Total     int               `json:"total"`
	Progress  float64           `json:"progress"`
	Records   []CandidateRecord `json:"records"`
	Summary   *Summary          `json:"summary,omitempty"`
}

type ProfileResponse struct {
	Cutoff     float64  `json:"cutoff"`
	SkillCount int      `json:"skill_count"`
	Skills     []string `json:"skills"`
	Education  []string `json:"education"`
}

type ExportResponse struct {
	ID       string `json:"id"`
	Location string `json:"location"`
}
