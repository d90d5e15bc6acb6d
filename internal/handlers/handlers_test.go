package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/config"
	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/pdftest"
	"alfredoptarigan/resume-screener/internal/repositories"
	"alfredoptarigan/resume-screener/internal/services"
)

type stubSink struct {
	batchID string
	records int
}

func (s *stubSink) Upload(_ context.Context, batchID string, records []models.CandidateRecord) (string, error) {
	s.batchID = batchID
	s.records = len(records)
	return "s3://bucket/" + batchID, nil
}

type testServer struct {
	app  *fiber.App
	repo repositories.BatchRepository
}

func newTestServer(t *testing.T, sink services.ReportSink, maxFileSize int64) *testServer {
	t.Helper()

	repo := repositories.NewBatchRepository()
	screener := services.NewScreenerService(models.ScoringProfile{
		Skills:    config.DefaultSkills,
		Education: config.DefaultEducation,
		Cutoff:    config.DefaultCutoff,
	}, services.NewPDFParserService(), nil, zap.NewNop())

	worker := services.NewWorker(repo, screener, 1, 10, zap.NewNop())
	worker.Start(context.Background())
	t.Cleanup(worker.Stop)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(app,
		NewScreenHandler(repo, services.NewUploadService(maxFileSize), screener, worker, false),
		NewResultHandler(repo, sink),
	)

	return &testServer{app: app, repo: repo}
}

type upload struct {
	name    string
	content []byte
}

func multipartRequest(t *testing.T, fields map[string]string, files ...upload) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		part, err := w.CreateFormFile(uploadField, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/screen", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (s *testServer) waitResult(t *testing.T, id string) models.ResultResponse {
	t.Helper()

	var result models.ResultResponse
	require.Eventually(t, func() bool {
		resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/result/"+id, nil))
		if err != nil || resp.StatusCode != fiber.StatusOK {
			return false
		}
		result = decode[models.ResultResponse](t, resp)
		return result.Status == string(models.BatchCompleted)
	}, 5*time.Second, 20*time.Millisecond)
	return result
}

func TestScreenAndFetchResult(t *testing.T) {
	srv := newTestServer(t, nil, 1<<20)

	req := multipartRequest(t, nil,
		upload{name: "strong.pdf", content: pdftest.Build("MCA Python SQL Machine Learning Tableau Excel Communication Java AWS jo@example.com")},
		upload{name: "weak.pdf", content: pdftest.Build("Python, SQL, AWS, B.Tech Computer Science")},
		upload{name: "broken.pdf", content: []byte("garbage")},
	)
	resp, err := srv.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	accepted := decode[models.ScreenResponse](t, resp)
	assert.Equal(t, "queued", accepted.Status)
	assert.Equal(t, 3, accepted.Total)

	result := srv.waitResult(t, accepted.ID)
	require.Len(t, result.Records, 3)
	assert.Equal(t, 3, result.Processed)
	assert.Equal(t, 1.0, result.Progress)

	assert.Equal(t, "strong.pdf", result.Records[0].Filename)
	assert.Equal(t, 100.0, result.Records[0].Score)
	assert.Equal(t, models.StatusSelected, result.Records[0].Status)
	assert.Equal(t, models.NotificationSkipped, result.Records[0].NotificationOutcome)

	assert.Equal(t, 56.25, result.Records[1].Score)
	assert.Equal(t, models.StatusRejected, result.Records[1].Status)

	assert.Zero(t, result.Records[2].Score)

	require.NotNil(t, result.Summary)
	assert.Equal(t, 1, result.Summary.Selected)
	assert.Equal(t, 2, result.Summary.Rejected)
}

func TestDownloadReport(t *testing.T) {
	srv := newTestServer(t, nil, 1<<20)

	resp, err := srv.app.Test(multipartRequest(t, nil,
		upload{name: "weak.pdf", content: pdftest.Build("Python, SQL, AWS, B.Tech Computer Science x@y.io")},
	), -1)
	require.NoError(t, err)
	accepted := decode[models.ScreenResponse](t, resp)
	srv.waitResult(t, accepted.ID)

	resp, err = srv.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/result/"+accepted.ID+"/report.csv", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "hiring_report.csv")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	records, err := services.ParseCSV(bytes.NewReader(body))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "x@y.io", records[0].EmailOrEmpty())
	assert.Equal(t, 56.25, records[0].Score)
}

func TestScreenWithoutFiles(t *testing.T) {
	srv := newTestServer(t, nil, 1<<20)

	resp, err := srv.app.Test(multipartRequest(t, map[string]string{"send_email": "true"}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	out := decode[models.ScreenResponse](t, resp)
	assert.Equal(t, "waiting", out.Status)
	assert.Empty(t, out.ID)
}

func TestScreenRejectsInvalidUploads(t *testing.T) {
	srv := newTestServer(t, nil, 64)

	tests := []struct {
		name   string
		req    *http.Request
		status int
	}{
		{
			name:   "not multipart",
			req:    httptest.NewRequest(http.MethodPost, "/api/v1/screen", strings.NewReader("{}")),
			status: fiber.StatusBadRequest,
		},
		{
			name:   "wrong extension",
			req:    multipartRequest(t, nil, upload{name: "cv.docx", content: []byte("x")}),
			status: fiber.StatusBadRequest,
		},
		{
			name:   "too large",
			req:    multipartRequest(t, nil, upload{name: "cv.pdf", content: bytes.Repeat([]byte("x"), 128)}),
			status: fiber.StatusBadRequest,
		},
		{
			name:   "bad send_email",
			req:    multipartRequest(t, map[string]string{"send_email": "maybe"}, upload{name: "cv.pdf", content: []byte("x")}),
			status: fiber.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := srv.app.Test(tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestSendEmailOverrideWithoutNotifier(t *testing.T) {
	srv := newTestServer(t, nil, 1<<20)

	resp, err := srv.app.Test(multipartRequest(t, map[string]string{"send_email": "true"},
		upload{name: "a.pdf", content: pdftest.Build("Python a@b.io")},
		upload{name: "b.pdf", content: pdftest.Build("Python only")},
	), -1)
	require.NoError(t, err)
	accepted := decode[models.ScreenResponse](t, resp)

	result := srv.waitResult(t, accepted.ID)
	require.Len(t, result.Records, 2)
	assert.Equal(t, models.NotificationFailed, result.Records[0].NotificationOutcome)
	assert.Equal(t, models.NotificationNoEmailFound, result.Records[1].NotificationOutcome)
}

func TestResultErrors(t *testing.T) {
	srv := newTestServer(t, nil, 1<<20)

	resp, err := srv.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/result/not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = srv.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/result/"+uuid.NewString(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	assert.Equal(t, "Batch not found", body["error"])

	queued := &models.Batch{Documents: []models.Document{{Filename: "a.pdf"}}}
	require.NoError(t, srv.repo.Create(queued))
	_, err = srv.repo.Claim(queued.ID)
	require.NoError(t, err)

	resp, err = srv.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/result/"+queued.ID.String()+"/report.csv", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestExport(t *testing.T) {
	sink := &stubSink{}
	srv := newTestServer(t, sink, 1<<20)

	resp, err := srv.app.Test(multipartRequest(t, nil, upload{name: "a.pdf", content: pdftest.Build("Python")}), -1)
	require.NoError(t, err)
	accepted := decode[models.ScreenResponse](t, resp)
	srv.waitResult(t, accepted.ID)

	resp, err = srv.app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/result/"+accepted.ID+"/export", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	out := decode[models.ExportResponse](t, resp)
	assert.Equal(t, "s3://bucket/"+accepted.ID, out.Location)
	assert.Equal(t, accepted.ID, sink.batchID)
	assert.Equal(t, 1, sink.records)
}

func TestExportNotConfigured(t *testing.T) {
	srv := newTestServer(t, nil, 1<<20)

	resp, err := srv.app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/result/"+uuid.NewString()+"/export", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotImplemented, resp.StatusCode)
}

func TestProfileAndHealth(t *testing.T) {
	srv := newTestServer(t, nil, 1<<20)

	resp, err := srv.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil))
	require.NoError(t, err)
	profile := decode[models.ProfileResponse](t, resp)
	assert.Equal(t, 65.0, profile.Cutoff)
	assert.Equal(t, 8, profile.SkillCount)

	resp, err = srv.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
