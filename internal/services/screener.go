package services

import (
	"context"

	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/models"
)

type RunOptions struct {
	SendEmail bool
	// OnRecord is called once per document, after its record is built.
	OnRecord func(done, total int, record models.CandidateRecord)
}

type ScreenerService interface {
	Run(ctx context.Context, documents []models.Document, opts RunOptions) []models.CandidateRecord
	Screen(ctx context.Context, doc models.Document, sendEmail bool) models.CandidateRecord
	Profile() models.ScoringProfile
}

type screenerService struct {
	pdfParser PDFParserService
	scorer    *Scorer
	cutoff    float64
	notifier  Notifier
	logger    *zap.Logger
}

// NewScreenerService wires the pipeline. notifier may be nil when mail is
// not configured; sending is then reported as failed.
func NewScreenerService(
	profile models.ScoringProfile,
	pdfParser PDFParserService,
	notifier Notifier,
	logger *zap.Logger,
) ScreenerService {
	return &screenerService{
		pdfParser: pdfParser,
		scorer:    NewScorer(profile),
		cutoff:    profile.Cutoff,
		notifier:  notifier,
		logger:    logger.Named("screener"),
	}
}

func (s *screenerService) Profile() models.ScoringProfile {
	return models.ScoringProfile{
		Skills:    s.scorer.Skills(),
		Education: s.scorer.Education(),
		Cutoff:    s.cutoff,
	}
}

// Run screens documents one at a time, in order. Results keep upload order.
func (s *screenerService) Run(ctx context.Context, documents []models.Document, opts RunOptions) []models.CandidateRecord {
	if len(documents) == 0 {
		return nil
	}

	records := make([]models.CandidateRecord, 0, len(documents))
	for i, doc := range documents {
		record := s.Screen(ctx, doc, opts.SendEmail)
		records = append(records, record)

		if opts.OnRecord != nil {
			opts.OnRecord(i+1, len(documents), record)
		}
	}

	return records
}

func (s *screenerService) Screen(ctx context.Context, doc models.Document, sendEmail bool) models.CandidateRecord {
	log := s.logger.With(zap.String("file", doc.Filename))

	extraction := s.pdfParser.Extract(doc.Content)
	record := models.CandidateRecord{
		Filename:      doc.Filename,
		ExtractedText: extraction.Text,
	}
	if !extraction.OK() {
		record.ExtractionError = extraction.Err.Error()
		log.Warn("text extraction degraded", zap.Error(extraction.Err))
	}
	if len(extraction.FailedPages) > 0 {
		log.Debug("pages skipped", zap.Ints("pages", extraction.FailedPages))
	}

	if email, ok := ExtractEmail(extraction.Text); ok {
		record.Email = &email
	}

	breakdown := s.scorer.Score(extraction.Text)
	record.Score = breakdown.Total
	record.EducationScore = breakdown.EducationScore
	record.SkillScore = breakdown.SkillScore
	record.MatchedSkills = breakdown.MatchedSkills
	record.MatchedEducation = breakdown.MatchedEducation
	record.Status = Decide(record.Score, s.cutoff)

	record.NotificationOutcome = s.notify(ctx, &record, sendEmail)

	log.Info("candidate screened",
		zap.Float64("score", record.Score),
		zap.String("status", string(record.Status)),
		zap.String("notification", string(record.NotificationOutcome)),
	)

	return record
}

func (s *screenerService) notify(ctx context.Context, record *models.CandidateRecord, sendEmail bool) models.NotificationOutcome {
	if !sendEmail {
		return models.NotificationSkipped
	}
	if record.Email == nil {
		return models.NotificationNoEmailFound
	}
	if s.notifier == nil {
		record.NotificationError = "mail delivery is not configured"
		return models.NotificationFailed
	}

	subject, body := ComposeNotification(record.Status, record.Score)
	result := s.notifier.Send(ctx, *record.Email, subject, body)
	if !result.Sent {
		if result.Err != nil {
			record.NotificationError = result.Err.Error()
		}
		return models.NotificationFailed
	}

	if record.Status == models.StatusSelected {
		return models.NotificationSentInvite
	}
	return models.NotificationSentReject
}
