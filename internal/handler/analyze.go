package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/resumehelp-api/internal/middleware"
	"github.com/yourusername/resumehelp-api/internal/model"
	"github.com/yourusername/resumehelp-api/internal/service"
)

// Evaluator runs the evaluation pipeline
type Evaluator interface {
	Evaluate(ctx context.Context, req model.EvaluationRequest) (string, error)
	ImproveResume(ctx context.Context, resumeText, role string) (string, error)
}

// TextExtractor turns an uploaded document into plain text
type TextExtractor interface {
	Extract(fileName string, r io.Reader) (string, error)
}

type AnalyzeHandler struct {
	analyzer       Evaluator
	extractor      TextExtractor
	maxUploadBytes int64
}

func NewAnalyzeHandler(analyzer Evaluator, extractor TextExtractor, maxUploadBytes int64) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer:       analyzer,
		extractor:      extractor,
		maxUploadBytes: maxUploadBytes,
	}
}

type analyzeForm struct {
	Mode   string                  `form:"mode" binding:"required"`
	Role   string                  `form:"role" binding:"required"`
	File   *multipart.FileHeader   `form:"file"`
	Files  []*multipart.FileHeader `form:"files"`
	JDFile *multipart.FileHeader   `form:"jd_file"`
}

// AnalyzeFile handles POST /api/analyze-file
// Company mode ranks several resumes against a JD file; every other mode
// evaluates a single resume for the role.
func (h *AnalyzeHandler) AnalyzeFile(c *gin.Context) {
	var form analyzeForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing mode or role."})
		return
	}

	mode := model.ParseMode(form.Mode)
	req := model.EvaluationRequest{Mode: mode, Role: form.Role}

	if mode.IsCompany() {
		if len(form.Files) == 0 || form.JDFile == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing JD or resumes."})
			return
		}

		for _, f := range form.Files {
			doc, ok := h.readDocument(c, f)
			if !ok {
				return
			}
			req.Resumes = append(req.Resumes, doc)
		}

		jd, ok := h.readDocument(c, form.JDFile)
		if !ok {
			return
		}
		req.JobDescription = jd.Text
	} else {
		if form.File == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing resume file."})
			return
		}

		doc, ok := h.readDocument(c, form.File)
		if !ok {
			return
		}
		req.Resumes = []model.Document{doc}
	}

	log.Info().
		Str("requestId", middleware.GetRequestID(c)).
		Str("mode", mode.String()).
		Str("role", req.Role).
		Int("resumes", len(req.Resumes)).
		Bool("hasJD", req.JobDescription != "").
		Msg("Running resume evaluation")

	result, err := h.analyzer.Evaluate(c.Request.Context(), req)
	respondResult(c, result, err)
}

type improveForm struct {
	Role string                `form:"role" binding:"required"`
	File *multipart.FileHeader `form:"file" binding:"required"`
}

// ImproveFile handles POST /api/improve-file
// Returns an ATS-friendly rewrite of the uploaded resume
func (h *AnalyzeHandler) ImproveFile(c *gin.Context) {
	var form improveForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing role or resume file."})
		return
	}

	doc, ok := h.readDocument(c, form.File)
	if !ok {
		return
	}

	log.Info().
		Str("requestId", middleware.GetRequestID(c)).
		Str("role", form.Role).
		Int("resumeLen", len(doc.Text)).
		Msg("Running resume improvement")

	result, err := h.analyzer.ImproveResume(c.Request.Context(), doc.Text, form.Role)
	respondResult(c, result, err)
}

// ── Helpers ──────────────────────────────────────────

// readDocument extracts text from one upload, writing the error response itself on failure
func (h *AnalyzeHandler) readDocument(c *gin.Context, fh *multipart.FileHeader) (model.Document, bool) {
	if h.maxUploadBytes > 0 && fh.Size > h.maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("File %s too large. Maximum size is %d bytes.", fh.Filename, h.maxUploadBytes),
		})
		return model.Document{}, false
	}

	file, err := fh.Open()
	if err != nil {
		log.Error().Err(err).Str("filename", fh.Filename).Msg("Failed to open uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return model.Document{}, false
	}
	defer file.Close()

	text, err := h.extractor.Extract(fh.Filename, file)
	if err != nil {
		log.Error().Err(err).Str("filename", fh.Filename).Msg("Failed to extract text from upload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return model.Document{}, false
	}

	log.Info().
		Str("filename", fh.Filename).
		Int64("bytes", fh.Size).
		Int("textLen", len(text)).
		Msg("Upload text extracted")

	return model.Document{FileName: fh.Filename, Text: text}, true
}

// respondResult maps pipeline output and errors onto the HTTP response
func respondResult(c *gin.Context, result string, err error) {
	var complErr *service.CompletionError
	switch {
	case err == nil:
	case errors.Is(err, model.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.As(err, &complErr), errors.Is(err, service.ErrNoJSON):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	default:
		log.Error().Err(err).Msg("Evaluation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	body, err := service.DecodeResult(result)
	if err != nil {
		log.Error().Err(err).Msg("Model result is not valid JSON")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, body)
}
