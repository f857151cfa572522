package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docsum/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/docsum/internal/core/domain"
)

var summariseCmd = &cobra.Command{
	Use:     "summarise [file]",
	Aliases: []string{"summarize"},
	Short:   "Summarise a document",
	Long: `Extract the text of a document and summarise it with the configured LLM.

Short documents are summarised in a single call. Documents above the token
budget are split into chunks, each chunk is summarised, and the partial
summaries are combined.

Supported formats: pdf, docx, png, jpg, jpeg, csv, txt.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarise,
}

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Print the extracted text of a document",
	Long:  `Extract the plain text of a document without summarising it.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

func init() {
	summariseCmd.Flags().Bool("json", false, "print the result as JSON")
	summariseCmd.Flags().Bool("show-text", false, "also print the extracted text")
	extractCmd.Flags().Bool("json", false, "print the result as JSON")
	rootCmd.AddCommand(summariseCmd)
	rootCmd.AddCommand(extractCmd)
}

// readDocument loads a file of at most limit bytes, checking its size before reading.
func readDocument(path string, limit int64) (string, []byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if info.IsDir() {
		return "", nil, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}
	if limit > 0 && info.Size() > limit {
		return "", nil, fmt.Errorf("%w: %s is %d bytes, limit is %d", domain.ErrPayloadTooLarge, path, info.Size(), limit)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if limit > 0 {
		// The file may have grown since Stat.
		r = io.LimitReader(f, limit+1)
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return "", nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if limit > 0 && int64(len(content)) > limit {
		return "", nil, fmt.Errorf("%w: %s exceeds %d bytes", domain.ErrPayloadTooLarge, path, limit)
	}
	return filepath.Base(path), content, nil
}

func runSummarise(cmd *cobra.Command, args []string) error {
	if err := requirePipeline(); err != nil {
		return err
	}
	asJSON, _ := cmd.Flags().GetBool("json")        //nolint:errcheck // flag registered above
	showText, _ := cmd.Flags().GetBool("show-text") //nolint:errcheck // flag registered above

	name, content, err := readDocument(args[0], pipelineService.MaxBytes())
	if err != nil {
		return err
	}

	result, err := pipelineService.Summarise(cmd.Context(), name, content)
	if err != nil {
		return err
	}

	if asJSON {
		resp := httpapi.SummaryResponse{
			ID:          result.ID,
			Summary:     result.Summary.Text,
			Truncated:   result.Summary.Truncated,
			ChunksTotal: result.Summary.ChunksTotal,
			ChunksUsed:  result.Summary.ChunksUsed,
			Strategy:    string(result.Summary.Strategy),
		}
		if showText && result.Extraction != nil {
			resp.ExtractedText = result.Extraction.Text
		}
		return printJSON(cmd, resp)
	}

	printSummary(cmd, result, showText)
	return nil
}

func printSummary(cmd *cobra.Command, result *domain.Result, showText bool) {
	if showText && result.Extraction != nil {
		cmd.Println("Extracted Text")
		cmd.Println("==============")
		cmd.Println(result.Extraction.Text)
		cmd.Println()
	}

	s := result.Summary
	cmd.Println("Summary")
	cmd.Println("=======")
	cmd.Println(s.Text)
	cmd.Println()
	cmd.Printf("Strategy: %s, chunks: %d/%d", s.Strategy, s.ChunksUsed, s.ChunksTotal)
	if s.Model != "" {
		cmd.Printf(", model: %s", s.Model)
	}
	cmd.Println()
	if s.Truncated {
		cmd.Printf("Note: only the first %d of %d chunks were summarised.\n", s.ChunksUsed, s.ChunksTotal)
	}
}

func runExtract(cmd *cobra.Command, args []string) error {
	if err := requirePipeline(); err != nil {
		return err
	}
	asJSON, _ := cmd.Flags().GetBool("json") //nolint:errcheck // flag registered above

	name, content, err := readDocument(args[0], pipelineService.MaxBytes())
	if err != nil {
		return err
	}

	extraction, err := pipelineService.Extract(cmd.Context(), name, content)
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(cmd, httpapi.ExtractResponse{
			Text:        extraction.Text,
			Fingerprint: extraction.Fingerprint.String(),
			Cached:      extraction.Cached,
			Method:      string(extraction.Method),
		})
	}
	cmd.Println(extraction.Text)
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}
