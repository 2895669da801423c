// Package normalize pulls JSON out of raw model output and patches in
// defaults for the fields a result is required to carry.
package normalize

import (
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/yourusername/resumehelp-api/internal/model"
	"github.com/yourusername/resumehelp-api/internal/prompt"
)

// ExtractFailed is returned by ExtractJSON when the response has no object delimiters
const ExtractFailed = `{"error":"Failed to extract JSON from response"}`

// ExtractJSON returns the text between the first '{' and the last '}' inclusive.
// Braces outside the payload (e.g. in surrounding prose) are not balanced out.
// Without delimiters it returns ExtractFailed and ok=false, so a model that
// echoes the sentinel text itself is still ok=true.
func ExtractJSON(raw string) (payload string, ok bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return ExtractFailed, false
	}
	return strings.TrimSpace(raw[start : end+1]), true
}

// ExtractJSONArray is the '['/']' counterpart used for array-shaped results.
// It returns ok=false when no array delimiters are found.
func ExtractJSONArray(raw string) (string, bool) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return strings.TrimSpace(raw[start : end+1]), true
}

// ── Single-resume results ──────────────────────────────

const (
	fallbackStrongPoint = "Possesses significant experience or background worth building upon"
	fallbackWeakPoint   = "Lacks some role-specific tools or certifications"
)

var recommendationFallbacks = map[string]string{
	"online_courses":    "Try 'Career Essentials in Tech' on Coursera or edX",
	"youtube_channels":  "Search 'Tech With Tim' or 'Simplilearn'",
	"career_guides":     "See careerfoundry.com or indeed.com/career-advice",
	"alternative_roles": "Consider roles like QA Analyst, Support Engineer",
	"skills_to_learn":   "Communication, project documentation, basic SQL",
}

// Normalize guarantees the minimum shape of a single-resume result.
// Text that is not a JSON object comes back unchanged.
//
// strong_points and weak_points are always non-empty. In candidate mode the
// recommendations object always carries its five sub-keys; in every other
// mode a recommendations key is dropped.
func Normalize(text string, mode model.Mode) string {
	obj, err := parseObject([]byte(text))
	if err != nil {
		log.Debug().Err(err).Msg("Skipping normalization of non-object response")
		return text
	}

	ensureList(obj, "strong_points", fallbackStrongPoint)
	ensureList(obj, "weak_points", fallbackWeakPoint)

	if mode.IsCandidate() {
		recs := newObject()
		if raw, ok := obj.get("recommendations"); ok {
			if parsed, err := parseObject(raw); err == nil {
				recs = parsed
			}
		}
		for _, key := range prompt.RecommendationKeys {
			ensureList(recs, key, recommendationFallbacks[key])
		}
		obj.setObject("recommendations", recs)
	} else {
		obj.remove("recommendations")
	}

	out, err := obj.indent()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to re-serialize normalized response")
		return text
	}
	return out
}

// ensureList replaces anything but a non-empty JSON array with a
// one-element fallback list
func ensureList(obj *object, key, fallback string) {
	if raw, ok := obj.get(key); ok && isNonEmptyArray(raw) {
		return
	}
	obj.setValue(key, []string{fallback})
}

func isNonEmptyArray(raw json.RawMessage) bool {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return false
	}
	return len(items) > 0
}

// ── Company-mode results ───────────────────────────────

const (
	fallbackCandidateName = "Unnamed"
	fallbackCompanyName   = "N/A"
)

// NormalizeRanking guarantees ranked_resumes and top_fits are arrays and that
// every ranked entry names a candidate and a company. Order, scores and
// ranks are left exactly as the model produced them.
func NormalizeRanking(text string) string {
	obj, err := parseObject([]byte(text))
	if err != nil {
		log.Debug().Err(err).Msg("Skipping normalization of non-object ranking")
		return text
	}

	var entries []json.RawMessage
	if raw, ok := obj.get("ranked_resumes"); ok {
		if err := json.Unmarshal(raw, &entries); err != nil {
			entries = nil
		}
	}

	ranked := make([]json.RawMessage, 0, len(entries))
	for _, raw := range entries {
		entry, err := parseObject(raw)
		if err != nil {
			ranked = append(ranked, raw)
			continue
		}
		normalizeRankedEntry(entry)
		b, err := entry.MarshalJSON()
		if err != nil {
			ranked = append(ranked, raw)
			continue
		}
		ranked = append(ranked, b)
	}
	obj.set("ranked_resumes", joinArray(ranked))

	var topFits []json.RawMessage
	if raw, ok := obj.get("top_fits"); ok {
		if err := json.Unmarshal(raw, &topFits); err != nil {
			topFits = nil
		}
	}
	obj.set("top_fits", joinArray(topFits))

	out, err := obj.indent()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to re-serialize normalized ranking")
		return text
	}
	return out
}

func normalizeRankedEntry(entry *object) {
	if raw, ok := entry.get("candidate_name"); !ok || isEmpty(raw) {
		entry.setValue("candidate_name", fallbackCandidateName)
	}

	company := newObject()
	if raw, ok := entry.get("company"); ok {
		var name string
		if parsed, err := parseObject(raw); err == nil {
			company = parsed
		} else if json.Unmarshal(raw, &name) == nil && strings.TrimSpace(name) != "" {
			// Models sometimes flatten company { name } to a bare string
			company.setValue("name", name)
		}
	}
	if raw, ok := company.get("name"); !ok || isEmpty(raw) {
		company.setValue("name", fallbackCompanyName)
	}
	entry.setObject("company", company)
}
