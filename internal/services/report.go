package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"alfredoptarigan/resume-screener/internal/models"
)

const ReportFilename = "hiring_report.csv"

var reportHeader = []string{"Filename", "Email Extracted", "Score", "Status", "Email Status"}

// WriteCSV writes the exportable columns of records, UTF-8, one row per record.
func WriteCSV(w io.Writer, records []models.CandidateRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(reportHeader); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.Filename,
			r.EmailOrEmpty(),
			strconv.FormatFloat(r.Score, 'f', 2, 64),
			string(r.Status),
			string(r.NotificationOutcome),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write report row for %s: %w", r.Filename, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ParseCSV reads a report produced by WriteCSV. Only exported columns are restored.
func ParseCSV(r io.Reader) ([]models.CandidateRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(reportHeader)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty report")
		}
		return nil, fmt.Errorf("failed to read report header: %w", err)
	}
	for i, name := range reportHeader {
		if header[i] != name {
			return nil, fmt.Errorf("unexpected report column %q, want %q", header[i], name)
		}
	}

	var records []models.CandidateRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read report row: %w", err)
		}

		score, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid score %q: %w", row[2], err)
		}
		status, err := models.ParseCandidateStatus(row[3])
		if err != nil {
			return nil, err
		}
		outcome, err := models.ParseNotificationOutcome(row[4])
		if err != nil {
			return nil, err
		}

		record := models.CandidateRecord{
			Filename:            row[0],
			Score:               score,
			Status:              status,
			NotificationOutcome: outcome,
		}
		if row[1] != "" {
			email := row[1]
			record.Email = &email
		}
		records = append(records, record)
	}

	return records, nil
}

// Summarize aggregates counts by status and outcome along with the score distribution.
func Summarize(records []models.CandidateRecord) models.Summary {
	summary := models.Summary{
		Total:         len(records),
		Notifications: make(map[models.NotificationOutcome]int),
		Scores:        make([]models.ScoreEntry, 0, len(records)),
	}
	if len(records) == 0 {
		return summary
	}

	summary.MinScore = records[0].Score
	summary.MaxScore = records[0].Score
	var sum float64

	for _, r := range records {
		switch r.Status {
		case models.StatusSelected:
			summary.Selected++
		case models.StatusRejected:
			summary.Rejected++
		}
		summary.Notifications[r.NotificationOutcome]++

		summary.MinScore = min(summary.MinScore, r.Score)
		summary.MaxScore = max(summary.MaxScore, r.Score)
		sum += r.Score

		summary.Scores = append(summary.Scores, models.ScoreEntry{Filename: r.Filename, Score: r.Score})
	}
	summary.MeanScore = round2(sum / float64(len(records)))

	return summary
}
