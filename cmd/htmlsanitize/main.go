package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/njchilds90/tagsanitizer/internal/config"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// logLevel is shared by the default logger so --verbose can lower it after
// the environment has been read.
var logLevel slog.LevelVar

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &logLevel})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config error", "err", err)
		os.Exit(1)
	}
	logLevel.Set(cfg.LogLevel)

	if err := newRootCmd(cfg).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "htmlsanitize: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Cfg) *cobra.Command {
	opts := sanitizeOptions{
		policyFile: cfg.PolicyFile,
		document:   cfg.Mode == config.ModeDocument,
	}

	rootCmd := &cobra.Command{
		Use:   "htmlsanitize [file]",
		Short: "Sanitize HTML with a tag policy",
		Long: `htmlsanitize reads HTML from a file (or stdin when the file is
omitted or "-") and writes it back with only the tags and attributes the
policy allows.

Without --policy the built-in default policy is used; --strict selects the
built-in strict policy. Settings can also come from HTMLSANITIZE_POLICY,
HTMLSANITIZE_MODE and HTMLSANITIZE_LOG_LEVEL, or from a .env file.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.verbose {
				logLevel.Set(slog.LevelDebug)
			}
			if len(args) == 1 {
				opts.input = args[0]
			}
			return runSanitize(cmd, opts)
		},
	}

	f := rootCmd.Flags()
	f.StringVarP(&opts.policyFile, "policy", "p", opts.policyFile, "TOML policy file")
	f.BoolVar(&opts.strict, "strict", false, "use the built-in strict policy")
	f.BoolVar(&opts.document, "document", opts.document, "parse the input as a full document instead of a fragment")
	f.BoolVar(&opts.trim, "trim", false, "trim whitespace around text")
	f.BoolVar(&opts.noComments, "no-comments", false, "remove comments")
	f.StringVarP(&opts.output, "output", "o", "", "write to file instead of stdout")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log every tag decision")
	rootCmd.MarkFlagsMutuallyExclusive("policy", "strict")

	rootCmd.AddCommand(
		policyCmd(cfg),
		versionCmd(),
	)
	return rootCmd
}
