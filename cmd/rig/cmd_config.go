package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/rig/pkg/object"
)

func newConfigCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config <user.name|user.email> [value]",
		Short: "Get or set the commit identity in .rig/config.toml",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.openRepo()
			if err != nil {
				return err
			}
			cfg, err := r.ReadConfig()
			if err != nil {
				return err
			}

			var (
				field    *string
				validate func(string) error
			)
			switch args[0] {
			case "user.name":
				field, validate = &cfg.User.Name, object.ValidateName
			case "user.email":
				field, validate = &cfg.User.Email, object.ValidateEmail
			default:
				return fmt.Errorf("config: unknown key %q", args[0])
			}

			if len(args) == 1 {
				fmt.Fprintln(cmd.OutOrStdout(), *field)
				return nil
			}
			if err := validate(args[1]); err != nil {
				return fmt.Errorf("config %s: %w", args[0], err)
			}
			*field = args[1]
			return r.WriteConfig(cfg)
		},
	}
}
