package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Score several resumes for a role without a job description",
	Example: `  resumectl compare --role "Data Engineer" --resume a.pdf --resume b.pdf --table`,
	RunE:    runCompare,
}

var (
	compareRole    string
	compareResumes []string
	compareTable   bool
)

func init() {
	compareCmd.Flags().StringVarP(&compareRole, "role", "r", "", "Target role (required)")
	compareCmd.Flags().StringArrayVar(&compareResumes, "resume", nil, "Resume PDF or DOCX (repeatable, required)")
	compareCmd.Flags().BoolVar(&compareTable, "table", false, "Print the scores as a table")

	if err := compareCmd.MarkFlagRequired("role"); err != nil {
		panic(fmt.Sprintf("failed to mark role flag as required: %v", err))
	}
	if err := compareCmd.MarkFlagRequired("resume"); err != nil {
		panic(fmt.Sprintf("failed to mark resume flag as required: %v", err))
	}

	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, _ []string) error {
	resumes, err := readDocuments(compareResumes)
	if err != nil {
		return err
	}

	analyzer, err := newAnalyzer()
	if err != nil {
		return err
	}

	result, err := analyzer.CompareResumes(cmd.Context(), resumes, compareRole)
	if err != nil {
		return err
	}

	if compareTable && outFile == "" {
		return printBatch(cmd.OutOrStdout(), result)
	}
	return writeResult(cmd.OutOrStdout(), result)
}
