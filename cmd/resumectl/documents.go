package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/yourusername/resumehelp-api/internal/model"
	"github.com/yourusername/resumehelp-api/internal/service"
)

func readDocument(path string) (model.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Document{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	name := filepath.Base(path)
	text, err := extractor.Extract(name, f)
	if err != nil {
		return model.Document{}, err
	}
	return model.Document{FileName: name, Text: text}, nil
}

func readDocuments(paths []string) ([]model.Document, error) {
	docs := make([]model.Document, 0, len(paths))
	for _, p := range paths {
		doc, err := readDocument(p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// writeResult checks that result is JSON and writes it to --out or w
func writeResult(w io.Writer, result string) error {
	body, err := service.DecodeResult(result)
	if err != nil {
		return err
	}

	if outFile == "" {
		_, err = fmt.Fprintln(w, string(body))
		return err
	}

	if dir := filepath.Dir(outFile); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(outFile, append(body, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// ── Tables ───────────────────────────────────────────

func printRanking(w io.Writer, result string) error {
	var ranking model.RankingResult
	if err := json.Unmarshal([]byte(result), &ranking); err != nil {
		return fmt.Errorf("failed to decode ranking: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tSCORE\tCANDIDATE\tCOMPANY\tFILE")
	for _, c := range ranking.RankedResumes {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", rankLabel(c.Rank), c.Score, c.CandidateName, c.Company.Name, c.FileName)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(ranking.TopFits) > 0 {
		fmt.Fprintf(w, "\nTop fits: %v\n", ranking.TopFits)
	}
	return nil
}

func printBatch(w io.Writer, result string) error {
	var entries []model.BatchEntry
	if err := json.Unmarshal([]byte(result), &entries); err != nil {
		return fmt.Errorf("failed to decode comparison: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSCORE\tCANDIDATE\tFILE\tSUMMARY")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\n", e.Index+1, e.Score, e.CandidateName, e.FileName, e.Summary)
	}
	return tw.Flush()
}

func rankLabel(rank int) string {
	if rank <= 0 {
		return "-"
	}
	return strconv.Itoa(rank)
}
