package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/grahms/tagcheck"
	"github.com/grahms/tagcheck/internal/cli/config"
)

// NewBalanceCommand creates the balance command.
func NewBalanceCommand() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "balance FILE",
		Short: "Check that tags inside the embedded region nest correctly",
		Long: `Walk the tags between the start and end markers with a stack.

The first unexpected closing tag, mismatched closing tag, or set of tags
left open at the end of the region is reported with the surrounding lines.
Void elements (br, img, input, hr, meta, link by default) and self-closing
tags are ignored.`,
		Example: `  # Check the <script type="text/babel"> block of a page
  tagcheck balance index.html

  # Check the whole file and keep going after the first error
  tagcheck balance --start-marker "" --collect-all App.jsx

  # Use the HTML5 tokenizer and re-check on every save
  tagcheck balance --tokenizer html --watch index.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBalance(cmd, args[0], watch)
		},
	}

	cmd.Flags().String("start-marker", "", `Start of the region to scan (default <script type="text/babel">, "" for the whole file)`)
	cmd.Flags().String("end-marker", "", "End of the region to scan (default </script>)")
	cmd.Flags().StringSlice("void", nil, "Tag names that never need a closing tag")
	cmd.Flags().String("tokenizer", "", "Tag tokenizer: regex or html")
	cmd.Flags().Bool("collect-all", false, "Report every error instead of stopping at the first")
	cmd.Flags().BoolVar(&watch, "watch", false, "Re-run whenever the file changes")

	_ = cmd.RegisterFlagCompletionFunc("tokenizer", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return tagcheck.NewRegistry().Names(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// newValidator builds a validator from the loaded configuration.
func newValidator(cfg *config.Config, logger *slog.Logger) (*tagcheck.Validator, error) {
	tok, err := tagcheck.NewRegistry().Get(cfg.Tokenizer)
	if err != nil {
		return nil, err
	}
	return tagcheck.NewValidator(
		tagcheck.WithRegionMarkers(cfg.Region),
		tagcheck.WithVoidElements(cfg.VoidElements...),
		tagcheck.WithTokenizer(tok),
		tagcheck.WithErrorPolicy(cfg.ErrorPolicy()),
		tagcheck.WithContextWindows(cfg.Windows.Mismatch, cfg.Windows.Unclosed),
		tagcheck.WithLogger(logger),
	), nil
}

func runBalance(cmd *cobra.Command, path string, watch bool) error {
	ctx := cmd.Context()
	cfg := GetConfig(ctx)
	logger := GetLogger(ctx)
	r := GetRenderer(ctx)

	v, err := newValidator(cfg, logger)
	if err != nil {
		return err
	}

	check := func() error {
		res, err := v.ValidateFile(path)
		if err != nil {
			return err
		}
		logger.Debug("balance check finished", "file", path, "outcome", res.Outcome, "errors", len(res.Errors))
		return r.Balance(path, res, cfg.Region)
	}

	if err := check(); err != nil {
		return err
	}
	if !watch {
		return nil
	}

	logger.Info("watching for changes", "file", path)
	return watchFile(ctx, path, defaultDebounce, logger, func() {
		if err := check(); err != nil {
			logger.Error("balance check failed", "file", path, "error", err)
		}
	})
}

// NewAdjacentCommand creates the adjacent command.
func NewAdjacentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "adjacent FILE",
		Short: "Find a closing tag directly followed by another closing tag",
		Example: `  # Find </div> followed by </select>
  tagcheck adjacent index.html

  # Find </span> followed by </label>
  tagcheck adjacent --first span --second label index.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := GetConfig(ctx)

			f, err := tagcheck.NewAdjacentCloseFinder(cfg.Adjacent.First, cfg.Adjacent.Second)
			if err != nil {
				return err
			}
			search := fmt.Sprintf("</%s> followed by </%s>", cfg.Adjacent.First, cfg.Adjacent.Second)
			return runFinder(cmd, args[0], search, f)
		},
	}

	cmd.Flags().String("first", "", "Name of the first closing tag (default div)")
	cmd.Flags().String("second", "", "Name of the second closing tag (default select)")
	return cmd
}

// NewSequenceCommand creates the sequence command.
func NewSequenceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sequence FILE",
		Short: "Find consecutive lines ending with the given closing tags",
		Example: `  # Find lines ending </button>, </div>, </select> in a row
  tagcheck sequence index.html

  # Custom sequence
  tagcheck sequence --suffix "</td>" --suffix "</tr>" table.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := GetConfig(ctx)

			f, err := tagcheck.NewLineSequenceFinder(cfg.Sequence.Suffixes...)
			if err != nil {
				return err
			}
			search := fmt.Sprintf("lines ending %v", cfg.Sequence.Suffixes)
			return runFinder(cmd, args[0], search, f)
		},
	}

	cmd.Flags().StringArray("suffix", nil, "Line suffix, repeat once per line (default </button> </div> </select>)")
	return cmd
}

func runFinder(cmd *cobra.Command, path, search string, f tagcheck.Finder) error {
	doc, err := readDocument(path)
	if err != nil {
		return err
	}
	findings := f.Find(doc)
	GetLogger(cmd.Context()).Debug("search finished", "file", path, "search", search, "findings", len(findings))
	return GetRenderer(cmd.Context()).Findings(path, search, findings)
}
