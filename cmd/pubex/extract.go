package main

import (
	"bufio"
	"io"
	"iter"
	"os"

	"github.com/matsen/pubex/internal/classifier"
	"github.com/matsen/pubex/internal/config"
	"github.com/matsen/pubex/internal/corpus"
	"github.com/matsen/pubex/internal/export"
	"github.com/matsen/pubex/internal/extractor"
	"github.com/matsen/pubex/internal/publication"
	"github.com/matsen/pubex/internal/storage"
	"github.com/spf13/cobra"
)

var (
	extractRaw      bool
	extractOutput   string
	extractFormat   string
	extractJSONLOut string
)

func init() {
	extractCmd.Flags().BoolVarP(&extractRaw, "raw", "r", false, "Write records in their native mapping form (same as --output-format dict)")
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "Write records to this file instead of stdout")
	extractCmd.Flags().StringVarP(&extractFormat, "output-format", "f", "", "Output format: "+export.FormatNames()+" (default from config, else dict)")
	extractCmd.Flags().StringVar(&extractJSONLOut, "jsonl-out", "", "Also append the records to this JSONL store")
	rootCmd.AddCommand(extractCmd)
}

var extractCmd = &cobra.Command{
	Use:   "extract [files...]",
	Short: "Extract structured records from citation files",
	Long: `Extract structured records from citation files, one citation per line.

Files are read in order; a file that cannot be opened is reported and
skipped. With no files, or with "-", citations are read from standard input.
PDF files are read page by page as plain text.

Records are written as they are extracted, so memory use does not grow with
the size of the input.

Examples:
  pubex extract publications.txt
  pubex extract -f xml -o pubs.xml a.txt b.txt
  pubex extract -f bibtex --jsonl-out records.jsonl refs.pdf
  cat refs.txt | pubex extract -f jsonl`,
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	// Validate the format before touching any input.
	format, err := resolveFormat(cfg, extractRaw, extractFormat)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	output := extractOutput
	if output == "" {
		output = cfg.Output
	}

	w, closeOutput, err := openOutput(output)
	if err != nil {
		logger.Error("extract.output.failed", "path", output, "error", err)
		os.Exit(ExitError)
	}

	var stats extractor.Stats
	records := stats.Count(extractor.New(classifier.Default()).Records(corpus.Concat(inputNames(args), logger)))

	var store *storage.JSONLWriter
	var storeErr error
	if extractJSONLOut != "" {
		store, err = storage.OpenJSONL(extractJSONLOut)
		if err != nil {
			logger.Error("extract.store.failed", "path", extractJSONLOut, "error", err)
			closeOutput()
			os.Exit(ExitError)
		}
		records = teeRecords(records, store, &storeErr)
	}

	n, writeErr := export.Write(w, format, records)

	if err := closeOutput(); err != nil && writeErr == nil {
		writeErr = err
	}
	if store != nil {
		if err := store.Close(); err != nil && storeErr == nil {
			storeErr = err
		}
	}

	if writeErr != nil {
		logger.Error("extract.write.failed", "path", output, "format", format, "records", n, "error", writeErr)
		os.Exit(ExitError)
	}
	if storeErr != nil {
		logger.Error("extract.store.failed", "path", extractJSONLOut, "error", storeErr)
		os.Exit(ExitError)
	}

	logger.Info("extract.done", "records", n, "by_type", stats.ByType, "format", string(format))
	return nil
}

// resolveFormat picks the output format: --raw, then the flag, then config.
func resolveFormat(cfg *config.Config, raw bool, flag string) (export.Format, error) {
	if raw {
		return export.FormatDict, nil
	}
	if flag != "" {
		return export.ParseFormat(flag)
	}
	return export.ParseFormat(cfg.OutputFormat)
}

// inputNames returns the sources to read; none means standard input.
func inputNames(args []string) []string {
	if len(args) == 0 {
		return []string{corpus.Stdin}
	}
	return args
}

// openOutput opens the record sink. Empty or "-" is stdout.
func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		bw := bufio.NewWriter(os.Stdout)
		return bw, bw.Flush, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	bw := bufio.NewWriter(f)
	return bw, func() error {
		if err := bw.Flush(); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}, nil
}

// teeRecords appends every record to store before passing it on. The first
// store error ends the stream and is left in *errp.
func teeRecords(records iter.Seq[*publication.Record], store *storage.JSONLWriter, errp *error) iter.Seq[*publication.Record] {
	return func(yield func(*publication.Record) bool) {
		for rec := range records {
			if err := store.Write(rec); err != nil {
				*errp = err
				return
			}
			if !yield(rec) {
				return
			}
		}
	}
}
