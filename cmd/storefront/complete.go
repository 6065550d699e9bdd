package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var completeLimit int

var completeCmd = &cobra.Command{
	Use:   "complete <prefix>",
	Short: "Print the countries that start with prefix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		idx, err := loadCountries(cfg)
		if err != nil {
			return err
		}
		names := idx.Complete(args[0])
		if completeLimit > 0 && len(names) > completeLimit {
			names = names[:completeLimit]
		}
		for _, n := range names {
			fmt.Fprintln(cmd.OutOrStdout(), n)
		}
		return nil
	},
}

func init() {
	completeCmd.Flags().IntVarP(&completeLimit, "limit", "n", 0, "print at most n names (0 for all)")
}
