package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/resumehelp-api/internal/config"
	"github.com/yourusername/resumehelp-api/internal/service"
	"github.com/yourusername/resumehelp-api/mocks"
)

type rawExtractor struct{}

func (rawExtractor) Extract(_ string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	return string(b), err
}

// setupCLI points the commands at a mock provider and plain-text "documents"
func setupCLI(t *testing.T) *mocks.MockCompleter {
	t.Helper()

	completer := new(mocks.MockCompleter)
	origCompleter, origExtractor := newCompleter, extractor
	newCompleter = func(*config.Config) service.Completer { return completer }
	extractor = rawExtractor{}
	apiKey, outFile = "sk-test", ""

	t.Cleanup(func() {
		newCompleter, extractor = origCompleter, origExtractor
		apiKey, outFile = "", ""
	})
	return completer
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func testCommand() (*cobra.Command, *bytes.Buffer) {
	out := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetOut(out)
	return cmd, out
}

func TestRunAnalyze_Candidate(t *testing.T) {
	completer := setupCLI(t)
	completer.On("Complete", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "role: 'SRE'") && strings.Contains(p, "my resume")
	})).Return(`{"status":"success","candidate_name":"Ada"}`, nil).Once()

	analyzeMode, analyzeRole, analyzeJD, analyzeTable = "candidate", "SRE", "", false
	analyzeResumes = []string{writeFile(t, "cv.pdf", "my resume")}

	cmd, out := testCommand()
	require.NoError(t, runAnalyze(cmd, nil))

	assert.Contains(t, out.String(), `"candidate_name": "Ada"`)
	assert.Contains(t, out.String(), `"recommendations"`)
	completer.AssertExpectations(t)
}

func TestRunAnalyze_CompanyTable(t *testing.T) {
	completer := setupCLI(t)
	completer.On("Complete", mock.Anything, mock.Anything).Return(
		`{"ranked_resumes":[{"file_name":"b.pdf","candidate_name":"Bo","company":{"name":"Acme"},"score":91,"rank":1},`+
			`{"file_name":"a.pdf","candidate_name":"Al","score":60,"rank":2}],"top_fits":["Resume 2"]}`, nil).Once()

	analyzeMode, analyzeRole, analyzeTable = "company", "", true
	analyzeResumes = []string{writeFile(t, "a.pdf", "alpha"), writeFile(t, "b.pdf", "beta")}
	analyzeJD = writeFile(t, "jd.pdf", "Go developer wanted")

	cmd, out := testCommand()
	require.NoError(t, runAnalyze(cmd, nil))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Contains(t, lines[0], "RANK")
	assert.Contains(t, lines[1], "Bo")
	assert.Contains(t, lines[1], "Acme")
	assert.Contains(t, lines[2], "Al")
	assert.Contains(t, lines[2], "N/A")
	assert.Contains(t, out.String(), "Top fits: [Resume 2]")
}

func TestRunAnalyze_CompanyWithoutJD(t *testing.T) {
	completer := setupCLI(t)

	analyzeMode, analyzeRole, analyzeJD, analyzeTable = "company", "", "", false
	analyzeResumes = []string{writeFile(t, "a.pdf", "alpha")}

	cmd, _ := testCommand()
	err := runAnalyze(cmd, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--jd")
	completer.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestRunCompare_Table(t *testing.T) {
	completer := setupCLI(t)
	completer.On("Complete", mock.Anything, mock.Anything).Return(
		`[{"index":0,"file_name":"a.pdf","candidate_name":"Al","score":72,"summary":"solid"}]`, nil).Once()

	compareRole, compareTable = "SRE", true
	compareResumes = []string{writeFile(t, "a.pdf", "alpha")}

	cmd, out := testCommand()
	require.NoError(t, runCompare(cmd, nil))

	assert.Contains(t, out.String(), "SCORE")
	assert.Contains(t, out.String(), "72")
	assert.Contains(t, out.String(), "solid")
}

func TestRunImprove_WritesOutFile(t *testing.T) {
	completer := setupCLI(t)
	completer.On("Complete", mock.Anything, mock.Anything).
		Return(`{"status":"success","improved_resume":"- Led X"}`, nil).Once()

	improveRole = "PM"
	improveResume = writeFile(t, "cv.docx", "old")
	outFile = filepath.Join(t.TempDir(), "nested", "improved.json")

	cmd, out := testCommand()
	require.NoError(t, runImprove(cmd, nil))

	assert.Empty(t, out.String())
	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"success","improved_resume":"- Led X"}`, string(data))
}

func TestReadDocument_MissingFile(t *testing.T) {
	setupCLI(t)

	_, err := readDocument(filepath.Join(t.TempDir(), "nope.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open")
}

func TestNewAnalyzer_RequiresKey(t *testing.T) {
	setupCLI(t)
	apiKey = ""
	t.Setenv("OPENAI_API_KEY", "")

	_, err := newAnalyzer()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestRankLabel(t *testing.T) {
	assert.Equal(t, "-", rankLabel(0))
	assert.Equal(t, "3", rankLabel(3))
}
