package services

import (
	"math"
	"strings"

	"alfredoptarigan/resume-screener/internal/models"
)

const (
	EducationWeight = 30.0
	SkillWeight     = 70.0
)

type ScoreBreakdown struct {
	Total            float64
	EducationScore   float64
	SkillScore       float64
	MatchedSkills    []string
	MatchedEducation []string
}

// Scorer rates resume text by keyword presence. It holds no mutable state.
type Scorer struct {
	skills    []string
	education []string
}

func NewScorer(profile models.ScoringProfile) *Scorer {
	return &Scorer{
		skills:    normalizeTerms(profile.Skills),
		education: normalizeTerms(profile.Education),
	}
}

func (s *Scorer) Skills() []string {
	return append([]string(nil), s.skills...)
}

func (s *Scorer) Education() []string {
	return append([]string(nil), s.education...)
}

// Score awards a flat education bonus for any education term and
// proportional credit per distinct skill term, matched as plain substrings.
func (s *Scorer) Score(text string) ScoreBreakdown {
	text = strings.ToLower(text)

	var b ScoreBreakdown
	b.MatchedEducation = matchTerms(text, s.education)
	if len(b.MatchedEducation) > 0 {
		b.EducationScore = EducationWeight
	}

	b.MatchedSkills = matchTerms(text, s.skills)
	if len(s.skills) > 0 {
		b.SkillScore = float64(len(b.MatchedSkills)) / float64(len(s.skills)) * SkillWeight
	}

	b.Total = round2(b.EducationScore + b.SkillScore)
	return b
}

func matchTerms(text string, terms []string) []string {
	var matched []string
	for _, term := range terms {
		if strings.Contains(text, term) {
			matched = append(matched, term)
		}
	}
	return matched
}

// normalizeTerms lowercases, trims and de-duplicates while keeping order.
func normalizeTerms(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, term)
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Decide applies the cutoff. A score equal to the cutoff is selected.
func Decide(score, cutoff float64) models.CandidateStatus {
	if score >= cutoff {
		return models.StatusSelected
	}
	return models.StatusRejected
}
