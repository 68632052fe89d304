package main

import (
	"fmt"

	"github.com/odvcencio/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	var name string
	var email string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or update repository configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			if name != "" || email != "" {
				if name == "" {
					cfg, err := r.ReadConfig()
					if err != nil {
						return err
					}
					name = cfg.User.Name
				}
				return r.SetUser(name, email)
			}

			cfg, err := r.ReadConfig()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user.name = %s\n", cfg.User.Name)
			fmt.Fprintf(cmd.OutOrStdout(), "user.email = %s\n", cfg.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "set the default author name")
	cmd.Flags().StringVar(&email, "email", "", "set the default author email")
	return cmd
}
