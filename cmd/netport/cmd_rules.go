package main

import (
	"github.com/spf13/cobra"

	"github.com/ochairo/netport/internal/external-adapters/yaml"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the effective rule set as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rules, err := loadRules(cmd.Context())
		if err != nil {
			return err
		}

		data, err := yaml.NewRuleSetParser().Marshal(rules)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}
