package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var improveCmd = &cobra.Command{
	Use:   "improve",
	Short: "Rewrite a resume to be ATS-friendly for a role",
	RunE:  runImprove,
}

var (
	improveRole   string
	improveResume string
)

func init() {
	improveCmd.Flags().StringVarP(&improveRole, "role", "r", "", "Target role (required)")
	improveCmd.Flags().StringVar(&improveResume, "resume", "", "Resume PDF or DOCX (required)")

	if err := improveCmd.MarkFlagRequired("role"); err != nil {
		panic(fmt.Sprintf("failed to mark role flag as required: %v", err))
	}
	if err := improveCmd.MarkFlagRequired("resume"); err != nil {
		panic(fmt.Sprintf("failed to mark resume flag as required: %v", err))
	}

	rootCmd.AddCommand(improveCmd)
}

func runImprove(cmd *cobra.Command, _ []string) error {
	doc, err := readDocument(improveResume)
	if err != nil {
		return err
	}

	analyzer, err := newAnalyzer()
	if err != nil {
		return err
	}

	result, err := analyzer.ImproveResume(cmd.Context(), doc.Text, improveRole)
	if err != nil {
		return err
	}
	return writeResult(cmd.OutOrStdout(), result)
}
