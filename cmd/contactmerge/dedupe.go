package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/contactmerge/contactmerge/internal/addressbook"
	"github.com/contactmerge/contactmerge/internal/contact"
	"github.com/contactmerge/contactmerge/internal/deduplication"
)

type dedupeOptions struct {
	InputFile     string
	InputFormat   string
	OutputFile    string
	OutputFormat  string
	InputEncoding string
	ConfigFile    string
	Threshold     float64
	Merge         bool
	DryRun        bool
	Quiet         bool
}

var dedupeOpts dedupeOptions

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Link or merge duplicate contacts",
	Long: `Compare every contact against the ones before it and resolve duplicates.

By default duplicates are linked: every contact is exported, and the match and
certainty columns name the earlier contact it matched and the score (0-100).
With --merge, duplicates are folded into the first matching contact, keeping
every distinct value (multiple values are separated by ';').

Settings are read from defaults, then --config (YAML), then CONTACTMERGE_*
environment variables, then command-line flags.

Examples:
  contactmerge dedupe --input-file contacts.vcf --output-file linked.csv
  contactmerge dedupe --input-file contacts.csv --output-file merged.vcf --merge
  contactmerge dedupe --input-file contacts.vcf --merge --dry-run   # Preview merges
  contactmerge dedupe --input-file old.csv --input-encoding windows-1251 --output-file out.xlsx`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := resolveConfig(cmd, &dedupeOpts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		out := io.Writer(os.Stdout)
		if dedupeOpts.Quiet {
			out = io.Discard
		}

		if _, err := runDedupe(dedupeOpts, cfg, out); err != nil {
			if errors.Is(err, addressbook.ErrEmptyInput) {
				fmt.Fprintln(os.Stderr, "No contacts found in the input file.")
			} else {
				fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), err)
			}
			os.Exit(1)
		}
	},
}

func init() {
	addDedupeFlags(dedupeCmd, &dedupeOpts)
	rootCmd.AddCommand(dedupeCmd)
}

func addDedupeFlags(cmd *cobra.Command, opts *dedupeOptions) {
	defaults := deduplication.DefaultConfig()
	flags := cmd.Flags()
	flags.StringVar(&opts.InputFile, "input-file", "", "Path to input file (vcf, csv or xlsx)")
	flags.StringVar(&opts.InputFormat, "input-format", "", "Format of the input file (default: from extension)")
	flags.StringVar(&opts.OutputFile, "output-file", "", "Path to output file")
	flags.StringVar(&opts.OutputFormat, "output-format", "", "Desired output format (default: from extension)")
	flags.StringVar(&opts.InputEncoding, "input-encoding", "", "Character set of text input, e.g. windows-1251 (default: utf-8)")
	flags.StringVar(&opts.ConfigFile, "config", "", "YAML file with threshold, merge, dry_run and input_encoding")
	flags.Float64Var(&opts.Threshold, "threshold", defaults.Threshold, "Match threshold (0-100)")
	flags.BoolVar(&opts.Merge, "merge", defaults.Merge, "Merge duplicates above the threshold")
	flags.BoolVar(&opts.DryRun, "dry-run", defaults.DryRun, "With --merge, print matches without writing output")
	flags.BoolVarP(&opts.Quiet, "quiet", "q", false, "Suppress progress output")
	_ = cmd.MarkFlagRequired("input-file")
}

// resolveConfig layers defaults, the YAML file, the environment and the
// flags the user actually set. It also fills opts.InputEncoding from the file
// when the flag was not given.
func resolveConfig(cmd *cobra.Command, opts *dedupeOptions) (deduplication.Config, error) {
	cfg := deduplication.DefaultConfig()

	if opts.ConfigFile != "" {
		cf, err := deduplication.LoadConfigFile(opts.ConfigFile)
		if err != nil {
			return cfg, err
		}
		cf.Apply(&cfg)
		if !cmd.Flags().Changed("input-encoding") && cf.InputEncoding != "" {
			opts.InputEncoding = cf.InputEncoding
		}
	}

	if err := deduplication.ApplyEnv(&cfg); err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("threshold") {
		cfg.Threshold = opts.Threshold
	}
	if flags.Changed("merge") {
		cfg.Merge = opts.Merge
	}
	if flags.Changed("dry-run") {
		cfg.DryRun = opts.DryRun
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// runDedupe imports, deduplicates and exports. A dry-run merge prints its
// notices and writes nothing.
func runDedupe(opts dedupeOptions, cfg deduplication.Config, out io.Writer) (*deduplication.Result, error) {
	dryRunMerge := cfg.Merge && cfg.DryRun

	inFormat, err := pickFormat(opts.InputFormat, opts.InputFile)
	if err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	var outFormat addressbook.Format
	if !dryRunMerge {
		if opts.OutputFile == "" {
			return nil, errors.New("--output-file is required unless --merge --dry-run is set")
		}
		if outFormat, err = pickFormat(opts.OutputFormat, opts.OutputFile); err != nil {
			return nil, fmt.Errorf("output: %w", err)
		}
	}

	records, err := addressbook.Import(opts.InputFile, inFormat, addressbook.Options{Encoding: opts.InputEncoding})
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "Loaded %d contacts from %s\n", len(records), opts.InputFile)

	order := contact.FieldOrder(records)

	engine := deduplication.NewEngine(cfg)
	fmt.Fprintf(out, "Deduplicating (mode: %s, threshold: %s)...\n",
		cfg.Mode(), deduplication.FormatScore(cfg.Threshold))
	result := engine.Run(records)

	if dryRunMerge {
		fmt.Fprintf(out, "%s\n", color.YellowString("DRY RUN MODE - No files will be written"))
		for _, notice := range result.Notices() {
			fmt.Fprintln(out, notice)
		}
		fmt.Fprintf(out, "Would merge %d contacts into %d\n", result.Stats.Input, result.Stats.Output)
		fmt.Fprintln(out, "Dry run complete. No changes have been made.")
		return result, nil
	}

	if cfg.Merge {
		fmt.Fprintf(out, "  Merged %d duplicates (%d contacts remain)\n", result.Stats.Merged, result.Stats.Output)
	} else {
		fmt.Fprintf(out, "  Linked %d of %d contacts\n", result.Stats.Linked, result.Stats.Input)
	}

	if err := addressbook.Export(opts.OutputFile, outFormat, result.Records, order); err != nil {
		return nil, err
	}

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(out, "%s Exported %d contacts to %s: %s\n",
		green("✓"), len(result.Records), strings.ToUpper(string(outFormat)), opts.OutputFile)
	return result, nil
}

func pickFormat(explicit, path string) (addressbook.Format, error) {
	if explicit != "" {
		return addressbook.ParseFormat(explicit)
	}
	return addressbook.FormatFromPath(path)
}
