package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/njchilds90/tagsanitizer"
)

type sanitizeOptions struct {
	input      string
	output     string
	policyFile string
	strict     bool
	document   bool
	trim       bool
	noComments bool
	verbose    bool
}

// loadPolicy picks the policy named by the options: strict, a file, or the
// default.
func loadPolicy(policyFile string, strict bool) (*tagsanitizer.Policy, error) {
	switch {
	case strict:
		return tagsanitizer.StrictPolicy(), nil
	case policyFile != "":
		return tagsanitizer.LoadPolicyFile(policyFile)
	default:
		return tagsanitizer.DefaultPolicy(), nil
	}
}

func runSanitize(cmd *cobra.Command, opts sanitizeOptions) error {
	policy, err := loadPolicy(opts.policyFile, opts.strict)
	if err != nil {
		return err
	}
	decide, err := policy.Decider()
	if err != nil {
		return err
	}

	in := cmd.InOrStdin()
	if opts.input != "" && opts.input != "-" {
		f, err := os.Open(opts.input)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	parseOpts := []tagsanitizer.Option{tagsanitizer.WithLogger(slog.Default())}
	if opts.document {
		parseOpts = append(parseOpts, tagsanitizer.WithDocument())
	}
	if opts.trim {
		parseOpts = append(parseOpts, tagsanitizer.WithTrimText())
	}
	if opts.noComments {
		parseOpts = append(parseOpts, tagsanitizer.WithoutComments())
	}

	result, err := tagsanitizer.Sanitize(in, decide, parseOpts...)
	if err != nil {
		return err
	}
	slog.Info("sanitized", "input", inputName(opts.input), "bytes", len(result))

	result += "\n"
	if opts.output == "" {
		_, err = io.WriteString(cmd.OutOrStdout(), result)
		return err
	}
	if err := os.WriteFile(opts.output, []byte(result), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func inputName(name string) string {
	if name == "" || name == "-" {
		return "stdin"
	}
	return name
}
