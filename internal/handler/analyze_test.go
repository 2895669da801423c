package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/resumehelp-api/internal/extract"
	"github.com/yourusername/resumehelp-api/internal/model"
	"github.com/yourusername/resumehelp-api/internal/service"
	"github.com/yourusername/resumehelp-api/mocks"
)

const testOrigin = "https://frontend.example.com"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// echoExtractor returns the upload's bytes as its text
type echoExtractor struct{}

func (echoExtractor) Extract(fileName string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	return string(b), err
}

type upload struct {
	field, name, content string
}

func multipartRequest(t *testing.T, path string, fields map[string]string, files ...upload) *http.Request {
	t.Helper()

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	for _, f := range files {
		part, err := writer.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func serve(h *AnalyzeHandler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	NewRouter(h, testOrigin).ServeHTTP(rr, req)
	return rr
}

func errorBody(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body["error"]
}

func TestAnalyzeFile_CandidateSuccess(t *testing.T) {
	evaluator := new(mocks.MockEvaluator)
	evaluator.On("Evaluate", mock.Anything, mock.MatchedBy(func(r model.EvaluationRequest) bool {
		return r.Mode.IsCandidate() &&
			r.Role == "Go Developer" &&
			len(r.Resumes) == 1 &&
			r.Resumes[0].FileName == "resume.pdf" &&
			r.Resumes[0].Text == "resume body" &&
			r.JobDescription == ""
	})).Return("{\n  \"status\": \"success\",\n  \"candidate_name\": \"Ada\"\n}", nil).Once()

	h := NewAnalyzeHandler(evaluator, echoExtractor{}, 1<<20)
	rr := serve(h, multipartRequest(t, "/api/analyze-file",
		map[string]string{"mode": "candidate", "role": "Go Developer"},
		upload{"file", "resume.pdf", "resume body"},
	))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"success","candidate_name":"Ada"}`, rr.Body.String())
	assert.Less(t, strings.Index(rr.Body.String(), "status"), strings.Index(rr.Body.String(), "candidate_name"))
	evaluator.AssertExpectations(t)
}

func TestAnalyzeFile_CompanySuccess(t *testing.T) {
	evaluator := new(mocks.MockEvaluator)
	evaluator.On("Evaluate", mock.Anything, mock.MatchedBy(func(r model.EvaluationRequest) bool {
		return r.Mode.IsCompany() &&
			len(r.Resumes) == 2 &&
			r.Resumes[0].FileName == "a.pdf" &&
			r.Resumes[1].FileName == "b.docx" &&
			r.JobDescription == "Go developer wanted"
	})).Return(`{"ranked_resumes":[],"top_fits":[]}`, nil).Once()

	h := NewAnalyzeHandler(evaluator, echoExtractor{}, 1<<20)
	rr := serve(h, multipartRequest(t, "/api/analyze-file",
		map[string]string{"mode": "Company", "role": "Go Developer"},
		upload{"files", "a.pdf", "alpha"},
		upload{"files", "b.docx", "beta"},
		upload{"jd_file", "jd.pdf", "Go developer wanted"},
	))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"ranked_resumes":[],"top_fits":[]}`, rr.Body.String())
	evaluator.AssertExpectations(t)
}

func TestAnalyzeFile_MissingInputs(t *testing.T) {
	tests := []struct {
		name    string
		fields  map[string]string
		files   []upload
		wantErr string
	}{
		{
			name:    "company without jd_file",
			fields:  map[string]string{"mode": "company", "role": "x"},
			files:   []upload{{"files", "a.pdf", "alpha"}},
			wantErr: "Missing JD or resumes.",
		},
		{
			name:    "company without resumes",
			fields:  map[string]string{"mode": "company", "role": "x"},
			files:   []upload{{"jd_file", "jd.pdf", "jd"}},
			wantErr: "Missing JD or resumes.",
		},
		{
			name:    "company with single file field only",
			fields:  map[string]string{"mode": "company", "role": "x"},
			files:   []upload{{"file", "a.pdf", "alpha"}, {"jd_file", "jd.pdf", "jd"}},
			wantErr: "Missing JD or resumes.",
		},
		{
			name:    "candidate without file",
			fields:  map[string]string{"mode": "candidate", "role": "x"},
			files:   []upload{{"files", "a.pdf", "alpha"}},
			wantErr: "Missing resume file.",
		},
		{
			name:    "unrecognized mode without file",
			fields:  map[string]string{"mode": "recruiter", "role": "x"},
			wantErr: "Missing resume file.",
		},
		{
			name:    "missing mode",
			fields:  map[string]string{"role": "x"},
			files:   []upload{{"file", "a.pdf", "alpha"}},
			wantErr: "Missing mode or role.",
		},
		{
			name:    "missing role",
			fields:  map[string]string{"mode": "candidate"},
			files:   []upload{{"file", "a.pdf", "alpha"}},
			wantErr: "Missing mode or role.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evaluator := new(mocks.MockEvaluator)
			h := NewAnalyzeHandler(evaluator, echoExtractor{}, 1<<20)

			rr := serve(h, multipartRequest(t, "/api/analyze-file", tt.fields, tt.files...))

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, tt.wantErr, errorBody(t, rr))
			evaluator.AssertNotCalled(t, "Evaluate", mock.Anything, mock.Anything)
		})
	}
}

func TestAnalyzeFile_ExtractionFailure(t *testing.T) {
	evaluator := new(mocks.MockEvaluator)
	h := NewAnalyzeHandler(evaluator, extract.New(), 1<<20)

	rr := serve(h, multipartRequest(t, "/api/analyze-file",
		map[string]string{"mode": "candidate", "role": "x"},
		upload{"file", "resume.txt", "plain text"},
	))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, errorBody(t, rr), "unsupported file type")
	evaluator.AssertNotCalled(t, "Evaluate", mock.Anything, mock.Anything)
}

func TestAnalyzeFile_CorruptResumeInBatch(t *testing.T) {
	evaluator := new(mocks.MockEvaluator)
	h := NewAnalyzeHandler(evaluator, extract.New(), 1<<20)

	rr := serve(h, multipartRequest(t, "/api/analyze-file",
		map[string]string{"mode": "company", "role": "x"},
		upload{"files", "broken.pdf", "not a pdf"},
		upload{"jd_file", "jd.pdf", "also not a pdf"},
	))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, errorBody(t, rr), "broken.pdf")
	evaluator.AssertNotCalled(t, "Evaluate", mock.Anything, mock.Anything)
}

func TestAnalyzeFile_FileTooLarge(t *testing.T) {
	evaluator := new(mocks.MockEvaluator)
	h := NewAnalyzeHandler(evaluator, echoExtractor{}, 4)

	rr := serve(h, multipartRequest(t, "/api/analyze-file",
		map[string]string{"mode": "candidate", "role": "x"},
		upload{"file", "resume.pdf", "more than four bytes"},
	))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, errorBody(t, rr), "too large")
}

func TestAnalyzeFile_PipelineErrors(t *testing.T) {
	tests := []struct {
		name       string
		result     string
		err        error
		wantStatus int
		wantErr    string
	}{
		{
			name:       "provider failure",
			err:        &service.CompletionError{Err: service.ErrEmptyChoices},
			wantStatus: http.StatusBadGateway,
			wantErr:    "API Error: Empty OpenAI response",
		},
		{
			name:       "no json in model output",
			err:        service.ErrNoJSON,
			wantStatus: http.StatusBadGateway,
			wantErr:    "Failed to extract JSON from response",
		},
		{
			name:       "invalid request",
			err:        model.ErrInvalidRequest,
			wantStatus: http.StatusBadRequest,
			wantErr:    "invalid evaluation request",
		},
		{
			name:       "unexpected error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantErr:    "boom",
		},
		{
			name:       "malformed model json",
			result:     `{"status": "success",}`,
			wantStatus: http.StatusInternalServerError,
			wantErr:    "Invalid JSON from AI",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evaluator := new(mocks.MockEvaluator)
			evaluator.On("Evaluate", mock.Anything, mock.Anything).Return(tt.result, tt.err).Once()
			h := NewAnalyzeHandler(evaluator, echoExtractor{}, 1<<20)

			rr := serve(h, multipartRequest(t, "/api/analyze-file",
				map[string]string{"mode": "candidate", "role": "x"},
				upload{"file", "resume.pdf", "body"},
			))

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Contains(t, errorBody(t, rr), tt.wantErr)
		})
	}
}

func TestImproveFile(t *testing.T) {
	evaluator := new(mocks.MockEvaluator)
	evaluator.On("ImproveResume", mock.Anything, "old resume", "PM").
		Return(`{"status":"success","improved_resume":"new resume"}`, nil).Once()
	h := NewAnalyzeHandler(evaluator, echoExtractor{}, 1<<20)

	rr := serve(h, multipartRequest(t, "/api/improve-file",
		map[string]string{"role": "PM"},
		upload{"file", "resume.docx", "old resume"},
	))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"success","improved_resume":"new resume"}`, rr.Body.String())
	evaluator.AssertExpectations(t)
}

func TestImproveFile_MissingFile(t *testing.T) {
	evaluator := new(mocks.MockEvaluator)
	h := NewAnalyzeHandler(evaluator, echoExtractor{}, 1<<20)

	rr := serve(h, multipartRequest(t, "/api/improve-file", map[string]string{"role": "PM"}))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	evaluator.AssertNotCalled(t, "ImproveResume", mock.Anything, mock.Anything, mock.Anything)
}
