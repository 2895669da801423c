package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/yourusername/resumehelp-api/internal/model"
	"github.com/yourusername/resumehelp-api/internal/normalize"
	"github.com/yourusername/resumehelp-api/internal/prompt"
)

// ErrNoJSON means the model answered without any JSON payload
var ErrNoJSON = errors.New("Failed to extract JSON from response")

// CompletionError wraps any failure reaching the completion provider
type CompletionError struct {
	Err error
}

func (e *CompletionError) Error() string {
	return "API Error: " + e.Err.Error()
}

func (e *CompletionError) Unwrap() error { return e.Err }

// Completer returns the raw text completion for a prompt
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Analyzer drives prompt building, the provider call and normalization.
// It holds no per-request state.
type Analyzer struct {
	completer Completer
}

func NewAnalyzer(completer Completer) *Analyzer {
	return &Analyzer{completer: completer}
}

// Evaluate validates req and routes it to the company or single-resume flow.
// The result is JSON text ready to be decoded for the response.
func (a *Analyzer) Evaluate(ctx context.Context, req model.EvaluationRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	if req.Mode.IsCompany() {
		return a.CompareResumesWithJD(ctx, req.Resumes, req.JobDescription)
	}

	if req.Mode.Kind == model.ModeUnrecognized {
		log.Warn().Str("mode", req.Mode.Raw).Msg("Unrecognized mode, using non-candidate evaluation")
	}
	return a.AnalyzeResume(ctx, req.Resumes[0].Text, req.Role, req.Mode)
}

// AnalyzeResume evaluates one resume for a role and normalizes the result
func (a *Analyzer) AnalyzeResume(ctx context.Context, resumeText, role string, mode model.Mode) (string, error) {
	payload, err := a.completeObject(ctx, prompt.SingleResume(resumeText, role, mode))
	if err != nil {
		return "", err
	}

	result := normalize.Normalize(payload, mode)

	shape := normalize.ShapeReview
	if mode.IsCandidate() {
		shape = normalize.ShapeCandidate
	}
	checkShape(shape, result)

	return result, nil
}

// CompareResumesWithJD ranks resumes against a job description
func (a *Analyzer) CompareResumesWithJD(ctx context.Context, resumes []model.Document, jobDescription string) (string, error) {
	req := model.EvaluationRequest{Resumes: resumes}

	payload, err := a.completeObject(ctx, prompt.BatchWithJD(req.Texts(), req.FileNames(), jobDescription))
	if err != nil {
		return "", err
	}

	result := normalize.NormalizeRanking(payload)
	checkShape(normalize.ShapeRanking, result)

	return result, nil
}

// CompareResumes scores resumes against a role without a job description.
// The result is a JSON array, one element per resume.
func (a *Analyzer) CompareResumes(ctx context.Context, resumes []model.Document, role string) (string, error) {
	req := model.EvaluationRequest{Resumes: resumes}

	raw, err := a.complete(ctx, prompt.Batch(req.Texts(), req.FileNames(), role))
	if err != nil {
		return "", err
	}

	payload, ok := normalize.ExtractJSONArray(raw)
	if !ok {
		return "", ErrNoJSON
	}

	var out bytes.Buffer
	if err := json.Indent(&out, []byte(payload), "", "  "); err != nil {
		// Leave malformed arrays for the caller's decode step to reject
		return payload, nil
	}
	return out.String(), nil
}

// ImproveResume asks for an ATS-friendly rewrite of a resume
func (a *Analyzer) ImproveResume(ctx context.Context, resumeText, role string) (string, error) {
	return a.completeObject(ctx, prompt.Improve(resumeText, role))
}

// ── Helpers ──────────────────────────────────────────

func (a *Analyzer) complete(ctx context.Context, p string) (string, error) {
	raw, err := a.completer.Complete(ctx, p)
	if err != nil {
		log.Error().Err(err).Msg("Completion request failed")
		return "", &CompletionError{Err: err}
	}
	return raw, nil
}

func (a *Analyzer) completeObject(ctx context.Context, p string) (string, error) {
	raw, err := a.complete(ctx, p)
	if err != nil {
		return "", err
	}

	payload, ok := normalize.ExtractJSON(raw)
	if !ok {
		log.Warn().Int("responseLen", len(raw)).Msg("No JSON object in model response")
		return "", ErrNoJSON
	}
	return payload, nil
}

// checkShape logs schema violations; the result is returned regardless
func checkShape(shape normalize.Shape, result string) {
	err := normalize.CheckShape(shape, result)
	if err == nil {
		return
	}

	var shapeErr *normalize.ShapeError
	if errors.As(err, &shapeErr) {
		log.Warn().Str("shape", string(shape)).Int("violations", len(shapeErr.Errors)).Msg(shapeErr.Error())
		return
	}
	log.Debug().Err(err).Str("shape", string(shape)).Msg("Result not checkable against schema")
}

// DecodeResult checks that pipeline output decodes as a JSON value and returns
// it raw, so the response keeps the key order the result was built with.
func DecodeResult(text string) (json.RawMessage, error) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, fmt.Errorf("Invalid JSON from AI: %w", err)
	}
	return json.RawMessage(text), nil
}
