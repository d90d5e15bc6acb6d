package services

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

var ErrNoText = errors.New("no text content found in PDF")

type PDFParserService interface {
	// Extract never fails: an unreadable document yields empty text and
	// the cause in ExtractionResult.Err.
	Extract(data []byte) *ExtractionResult
}

type ExtractionResult struct {
	Text        string
	PageCount   int
	FailedPages []int
	Err         error
}

func (r *ExtractionResult) OK() bool {
	return r.Err == nil
}

type pdfParserService struct{}

func NewPDFParserService() PDFParserService {
	return &pdfParserService{}
}

func (p *pdfParserService) Extract(data []byte) (result *ExtractionResult) {
	result = &ExtractionResult{}

	// The pdf package panics on some malformed cross reference tables.
	defer func() {
		if r := recover(); r != nil {
			result = &ExtractionResult{Err: fmt.Errorf("failed to open PDF: %v", r)}
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		result.Err = fmt.Errorf("failed to open PDF: %w", err)
		return result
	}

	var textBuilder strings.Builder
	result.PageCount = r.NumPage()

	for pageIndex := 1; pageIndex <= result.PageCount; pageIndex++ {
		text, err := pageText(r, pageIndex)
		if err != nil {
			result.FailedPages = append(result.FailedPages, pageIndex)
			continue
		}
		textBuilder.WriteString(text)
	}

	result.Text = textBuilder.String()
	if strings.TrimSpace(result.Text) == "" {
		result.Err = ErrNoText
	}

	return result
}

// pageText extracts one page, turning a panic inside that page into an error
// so the remaining pages are still read.
func pageText(r *pdf.Reader, pageIndex int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("page %d: %v", pageIndex, rec)
		}
	}()

	page := r.Page(pageIndex)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d: missing page object", pageIndex)
	}

	return page.GetPlainText(nil)
}
