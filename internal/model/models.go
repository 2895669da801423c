package model

import (
	"errors"
	"fmt"
	"strings"
)

// ── Evaluation mode ────────────────────────────────────

// ModeKind selects the evaluation context of a request
type ModeKind int

const (
	// ModeUnrecognized is any mode string other than candidate or company.
	// It follows the non-candidate single-resume branch.
	ModeUnrecognized ModeKind = iota
	ModeCandidate
	ModeCompany
)

// Mode is the parsed form of the free-form "mode" field. Raw keeps the
// caller's original string so unrecognized values can still be reported.
type Mode struct {
	Kind ModeKind
	Raw  string
}

// ParseMode compares s case-insensitively against the known modes
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "candidate":
		return Mode{Kind: ModeCandidate, Raw: s}
	case "company":
		return Mode{Kind: ModeCompany, Raw: s}
	default:
		return Mode{Kind: ModeUnrecognized, Raw: s}
	}
}

func (m Mode) IsCandidate() bool { return m.Kind == ModeCandidate }
func (m Mode) IsCompany() bool   { return m.Kind == ModeCompany }

func (m Mode) String() string {
	switch m.Kind {
	case ModeCandidate:
		return "candidate"
	case ModeCompany:
		return "company"
	default:
		return m.Raw
	}
}

// ── Request values ─────────────────────────────────────

// Document is one uploaded file after text extraction
type Document struct {
	FileName string
	Text     string
}

// EvaluationRequest is the validated input of one analyze call.
// Company mode carries Resumes and JobDescription; every other mode carries
// exactly one entry in Resumes and no JobDescription.
type EvaluationRequest struct {
	Mode           Mode
	Role           string
	Resumes        []Document
	JobDescription string
}

// ErrInvalidRequest marks an EvaluationRequest that breaks its mode's invariants
var ErrInvalidRequest = errors.New("invalid evaluation request")

// Validate checks the per-mode invariants
func (r EvaluationRequest) Validate() error {
	if r.Mode.IsCompany() {
		if len(r.Resumes) == 0 || strings.TrimSpace(r.JobDescription) == "" {
			return fmt.Errorf("%w: company mode needs resumes and a job description", ErrInvalidRequest)
		}
		return nil
	}
	if len(r.Resumes) != 1 {
		return fmt.Errorf("%w: %s mode needs exactly one resume, got %d", ErrInvalidRequest, r.Mode, len(r.Resumes))
	}
	if r.JobDescription != "" {
		return fmt.Errorf("%w: %s mode takes no job description", ErrInvalidRequest, r.Mode)
	}
	return nil
}

// FileNames lists the resume file names in order
func (r EvaluationRequest) FileNames() []string {
	names := make([]string, len(r.Resumes))
	for i, d := range r.Resumes {
		names[i] = d.FileName
	}
	return names
}

// Texts lists the resume texts in order
func (r EvaluationRequest) Texts() []string {
	texts := make([]string, len(r.Resumes))
	for i, d := range r.Resumes {
		texts[i] = d.Text
	}
	return texts
}

// ── Company-mode result ────────────────────────────────

type Company struct {
	Name string `json:"name"`
}

// RankedCandidate is one entry of ranked_resumes. Ranks come from the model
// as-is; they are neither re-sorted nor checked against scores.
type RankedCandidate struct {
	FileName      string  `json:"file_name"`
	CandidateName string  `json:"candidate_name"`
	Company       Company `json:"company"`
	Score         int     `json:"score"`
	Rank          int     `json:"rank"`
	Summary       string  `json:"summary"`
	RankSummary   string  `json:"rank_summary"`
}

// RankingResult is the company-mode response body
type RankingResult struct {
	RankedResumes []RankedCandidate `json:"ranked_resumes"`
	TopFits       []string          `json:"top_fits"`
}

// BatchEntry is one element of the batch-without-JD array result
type BatchEntry struct {
	Index         int    `json:"index"`
	FileName      string `json:"file_name"`
	CandidateName string `json:"candidate_name"`
	Score         int    `json:"score"`
	Summary       string `json:"summary"`
}
