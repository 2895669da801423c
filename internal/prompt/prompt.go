// Package prompt renders the instruction text sent to the completion provider.
// Every builder is a pure function; callers validate inputs beforehand.
package prompt

import (
	"fmt"
	"strings"

	"github.com/yourusername/resumehelp-api/internal/model"
)

// ── Single resume ──────────────────────────────────────

// SingleResume builds the evaluation prompt for one resume against a role.
// Candidate mode asks for a recommendations object; every other mode asks
// for a comparison score instead.
func SingleResume(resumeText, role string, mode model.Mode) string {
	var sb strings.Builder

	sb.WriteString("You are an honest and intelligent AI career advisor and resume evaluator.\n")
	fmt.Fprintf(&sb, "Strictly analyze the resume below ONLY for the role: '%s'.\n\n", role)

	sb.WriteString("### TASK:\n")
	sb.WriteString("1. Compare required skills vs resume.\n")
	sb.WriteString("2. Return \"suited_for_role\": \"Yes\" or \"No\"\n")
	sb.WriteString("3. Extract candidate name or fallback to 'Unnamed Candidate'\n")
	sb.WriteString("4. Include strong_points (include 6+ years exp even if unrelated)\n")
	sb.WriteString("5. weak_points must describe real gaps or general ones\n")

	if mode.IsCandidate() {
		sb.WriteString("6. Always provide:\n")
		for _, key := range RecommendationKeys {
			fmt.Fprintf(&sb, "   - %s\n", key)
		}
	} else {
		sb.WriteString("6. Provide comparison_score and suggestions\n")
	}

	sb.WriteString("\nOnly return this JSON (never leave fields blank):\n{\n")
	sb.WriteString("  \"status\": \"success\",\n")
	sb.WriteString("  \"candidate_name\": \"...\",\n")
	sb.WriteString("  \"suited_for_role\": \"Yes\" or \"No\",\n")
	sb.WriteString("  \"strong_points\": [\"...\"],\n")
	sb.WriteString("  \"weak_points\": [\"...\"],\n")

	if mode.IsCandidate() {
		sb.WriteString("  \"improvement_suggestions\": [\"...\"],\n")
		sb.WriteString("  \"recommendations\": {\n")
		for i, key := range RecommendationKeys {
			sep := ","
			if i == len(RecommendationKeys)-1 {
				sep = ""
			}
			fmt.Fprintf(&sb, "    \"%s\": [\"...\"]%s\n", key, sep)
		}
		sb.WriteString("  }\n")
	} else {
		sb.WriteString("  \"comparison_score\": \"Ranks higher than XX%\",\n")
		sb.WriteString("  \"improvement_suggestions\": [\"...\"]\n")
	}

	sb.WriteString("}\n\n### Resume:\n")
	sb.WriteString(resumeText)

	return sb.String()
}

// RecommendationKeys are the fixed sub-keys of the candidate-mode recommendations object
var RecommendationKeys = []string{
	"online_courses",
	"youtube_channels",
	"career_guides",
	"alternative_roles",
	"skills_to_learn",
}

// ── Batch comparison ───────────────────────────────────

// ResumeLabel is the stable label used for the i-th (0-based) resume in batch prompts
// and in the top_fits list the model returns.
func ResumeLabel(i int) string {
	return fmt.Sprintf("Resume %d", i+1)
}

// combineResumes lays resumes out one after another under their labels.
// texts and fileNames are parallel slices of equal length.
func combineResumes(texts, fileNames []string) string {
	var sb strings.Builder
	for i := range texts {
		fmt.Fprintf(&sb, "%s (File: %s):\n%s\n\n", ResumeLabel(i), fileNames[i], texts[i])
	}
	return sb.String()
}

// Batch asks for a JSON array scoring every resume against a role
func Batch(resumeTexts, fileNames []string, role string) string {
	return fmt.Sprintf("You are an AI recruiter evaluating candidates for the role: '%s'.\n", role) +
		"- Extract name or fallback to file name.\n" +
		"- Score (0–100) based on match.\n" +
		"Output JSON array:\n" +
		"[ { \"index\": 0, \"file_name\": \"...\", \"candidate_name\": \"...\", \"score\": 87, \"summary\": \"...\" } ]\n\n" +
		"### Resumes:\n" + combineResumes(resumeTexts, fileNames)
}

// BatchWithJD asks for resumes ranked against a job description
func BatchWithJD(resumeTexts, fileNames []string, jobDescription string) string {
	return "You are an AI recruiter comparing resumes to the following Job Description:\n\n" +
		jobDescription + "\n\n" +
		"- Carefully review each resume for relevance and match to the JD.\n" +
		"- Score each resume from 0 to 100 based on how well it fits the JD.\n" +
		"- Extract candidate name from resume, fallback to 'Unnamed' if missing.\n" +
		"- Extract current or most recent company name, fallback to 'N/A' if missing.\n" +
		"- Output a JSON object with:\n" +
		"    1. \"ranked_resumes\": a list of resumes sorted by score (highest first), each with:\n" +
		"       - file_name\n" +
		"       - candidate_name\n" +
		"       - company { name }\n" +
		"       - score\n" +
		"       - rank (1 for best match, 2 for second best, etc.)\n" +
		"       - summary (brief overview)\n" +
		"       - rank_summary (1-line reason why this resume fits the JD)\n" +
		fmt.Sprintf("    2. \"top_fits\": list of resume labels (e.g., \"%s\", \"%s\") where score ≥ %d.\n\n",
			ResumeLabel(0), ResumeLabel(1), TopFitScore) +
		"Return **only** a valid JSON object with the structure above — no explanation or extra text.\n\n" +
		"### Resumes:\n" + combineResumes(resumeTexts, fileNames)
}

// TopFitScore is the minimum score for a resume to be listed in top_fits
const TopFitScore = 80

// ── Improve ────────────────────────────────────────────

// Improve asks for an ATS-friendly rewrite of a resume for a role
func Improve(resumeText, role string) string {
	return fmt.Sprintf("You are an AI resume optimizer. Improve this resume for the role: '%s'.\n", role) +
		"- Use bullet points and relevant keywords.\n" +
		"- Make it clear and ATS-friendly.\n" +
		"Return:\n{ \"status\": \"success\", \"improved_resume\": \"...\" }\n\n" +
		"### Resume:\n" + resumeText
}
