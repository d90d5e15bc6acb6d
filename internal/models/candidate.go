package models

import (
	"fmt"
	"math"
	"strconv"
)

type CandidateStatus string

const (
	StatusSelected CandidateStatus = "SELECTED"
	StatusRejected CandidateStatus = "REJECTED"
)

// ParseCandidateStatus accepts the exported status strings.
func ParseCandidateStatus(s string) (CandidateStatus, error) {
	switch CandidateStatus(s) {
	case StatusSelected, StatusRejected:
		return CandidateStatus(s), nil
	}
	return "", fmt.Errorf("unknown candidate status %q", s)
}

// NotificationOutcome values are the strings shown in the exported report.
type NotificationOutcome string

const (
	NotificationSkipped      NotificationOutcome = "Skipped"
	NotificationSentInvite   NotificationOutcome = "Sent (Invite)"
	NotificationSentReject   NotificationOutcome = "Sent (Reject)"
	NotificationFailed       NotificationOutcome = "Failed"
	NotificationNoEmailFound NotificationOutcome = "No Email Found in PDF"
)

func ParseNotificationOutcome(s string) (NotificationOutcome, error) {
	switch o := NotificationOutcome(s); o {
	case NotificationSkipped, NotificationSentInvite, NotificationSentReject,
		NotificationFailed, NotificationNoEmailFound:
		return o, nil
	}
	return "", fmt.Errorf("unknown notification outcome %q", s)
}

type CandidateRecord struct {
	Filename            string              `json:"filename"`
	ExtractedText       string              `json:"-"`
	Email               *string             `json:"email"`
	Score               float64             `json:"score"`
	EducationScore      float64             `json:"education_score"`
	SkillScore          float64             `json:"skill_score"`
	MatchedSkills       []string            `json:"matched_skills"`
	MatchedEducation    []string            `json:"matched_education"`
	Status              CandidateStatus     `json:"status"`
	NotificationOutcome NotificationOutcome `json:"notification_outcome"`

	// Failure reasons are kept for diagnostics; they never change the outcome fields.
	ExtractionError   string `json:"extraction_error,omitempty"`
	NotificationError string `json:"notification_error,omitempty"`
}

// EmailOrEmpty returns the extracted address or "".
func (c CandidateRecord) EmailOrEmpty() string {
	if c.Email == nil {
		return ""
	}
	return *c.Email
}

// FormatScore renders a score the way it appears in candidate emails. Whole
// numbers keep one decimal place: 100.0, 0.0, 56.25.
func FormatScore(score float64) string {
	if score == math.Trunc(score) {
		return strconv.FormatFloat(score, 'f', 1, 64)
	}
	return strconv.FormatFloat(score, 'f', -1, 64)
}
