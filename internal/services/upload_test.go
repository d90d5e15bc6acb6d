package services

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartFile(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("resumes", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, "/", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File["resumes"][0]
}

func TestReadUpload(t *testing.T) {
	t.Parallel()

	svc := NewUploadService(1024)

	doc, err := svc.ReadUpload(multipartFile(t, "CV.PDF", []byte("%PDF-1.4 data")))
	require.NoError(t, err)
	assert.Equal(t, "CV.PDF", doc.Filename)
	assert.Equal(t, []byte("%PDF-1.4 data"), doc.Content)

	_, err = svc.ReadUpload(multipartFile(t, "cv.docx", []byte("data")))
	assert.ErrorIs(t, err, ErrInvalidFileType)

	_, err = svc.ReadUpload(multipartFile(t, "big.pdf", bytes.Repeat([]byte("x"), 2048)))
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestReadFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.pdf", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644))
	}
	single := filepath.Join(t.TempDir(), "z.pdf")
	require.NoError(t, os.WriteFile(single, []byte("z"), 0o644))

	docs, err := NewUploadService(0).ReadFiles([]string{single, dir})
	require.NoError(t, err)

	require.Len(t, docs, 3)
	assert.Equal(t, "z.pdf", docs[0].Filename)
	assert.Equal(t, "a.pdf", docs[1].Filename)
	assert.Equal(t, "b.pdf", docs[2].Filename)
	assert.Equal(t, []byte("a.pdf"), docs[1].Content)
}

func TestReadFilesErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	txt := filepath.Join(dir, "cv.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0o644))

	svc := NewUploadService(0)

	_, err := svc.ReadFiles([]string{txt})
	assert.ErrorIs(t, err, ErrInvalidFileType)

	_, err = svc.ReadFiles([]string{filepath.Join(dir, "missing.pdf")})
	assert.Error(t, err)

	docs, err := svc.ReadFiles(nil)
	require.NoError(t, err)
	assert.Empty(t, docs)
}
