package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/resumehelp-api/internal/model"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Evaluate a resume, or rank several against a job description",
	Long: `Runs the same evaluation as POST /api/analyze-file.

In candidate mode (the default) a single --resume is evaluated for --role.
In company mode every --resume is ranked against the --jd document.`,
	Example: `  resumectl analyze --role "Backend Engineer" --resume cv.pdf
  resumectl analyze --mode company --jd jd.docx --resume a.pdf --resume b.docx --table`,
	RunE: runAnalyze,
}

var (
	analyzeMode    string
	analyzeRole    string
	analyzeResumes []string
	analyzeJD      string
	analyzeTable   bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeMode, "mode", "m", "candidate", "Evaluation mode: candidate or company")
	analyzeCmd.Flags().StringVarP(&analyzeRole, "role", "r", "", "Target role")
	analyzeCmd.Flags().StringArrayVar(&analyzeResumes, "resume", nil, "Resume PDF or DOCX (repeat for company mode)")
	analyzeCmd.Flags().StringVar(&analyzeJD, "jd", "", "Job description PDF or DOCX (company mode)")
	analyzeCmd.Flags().BoolVar(&analyzeTable, "table", false, "Print company-mode rankings as a table")

	if err := analyzeCmd.MarkFlagRequired("resume"); err != nil {
		panic(fmt.Sprintf("failed to mark resume flag as required: %v", err))
	}

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	req := model.EvaluationRequest{
		Mode: model.ParseMode(analyzeMode),
		Role: analyzeRole,
	}

	resumes, err := readDocuments(analyzeResumes)
	if err != nil {
		return err
	}
	req.Resumes = resumes

	if analyzeJD != "" {
		jd, err := readDocument(analyzeJD)
		if err != nil {
			return err
		}
		req.JobDescription = jd.Text
	}

	if err := req.Validate(); err != nil {
		if req.Mode.IsCompany() {
			return fmt.Errorf("company mode needs --jd and at least one --resume: %w", err)
		}
		return fmt.Errorf("exactly one --resume and no --jd expected: %w", err)
	}

	analyzer, err := newAnalyzer()
	if err != nil {
		return err
	}

	result, err := analyzer.Evaluate(cmd.Context(), req)
	if err != nil {
		return err
	}

	if analyzeTable && req.Mode.IsCompany() && outFile == "" {
		return printRanking(cmd.OutOrStdout(), result)
	}
	return writeResult(cmd.OutOrStdout(), result)
}
