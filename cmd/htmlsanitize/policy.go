package main

import (
	"github.com/spf13/cobra"

	"github.com/njchilds90/tagsanitizer/internal/config"
)

func policyCmd(cfg *config.Cfg) *cobra.Command {
	var (
		policyFile = cfg.PolicyFile
		strict     bool
	)

	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Print the effective policy as TOML",
		Long: `Print the policy htmlsanitize would use, as TOML. The output is a
valid policy file and a starting point for a custom one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadPolicy(policyFile, strict)
			if err != nil {
				return err
			}
			if _, err := p.Decider(); err != nil {
				return err
			}
			out, err := p.MarshalTOML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().StringVarP(&policyFile, "policy", "p", policyFile, "TOML policy file")
	cmd.Flags().BoolVar(&strict, "strict", false, "use the built-in strict policy")
	cmd.MarkFlagsMutuallyExclusive("policy", "strict")

	return cmd
}
