package main

import (
	"fmt"

	"github.com/bluetuith-org/bluectl/internal/serde"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

func (a *app) createCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create new profile",
		Long: "Creates new bluetooth profile.\n" +
			"Attempts to pair chosen controller with given bluetooth device.\n" +
			"If successful, profile details are stored in the profile directory.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stop := watchProgress(cmd.ErrOrStderr(), a.log)
			defer stop()

			_, err := a.lifecycle.Create(cmd.Context())
			return err
		},
	}
}

func (a *app) startCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "start <profile>",
		Short: "Connect selected profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.lifecycle.Start(cmd.Context(), args[0])
		},
	}
}

func (a *app) stopCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stop <profile>",
		Short: "Disconnect selected profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.lifecycle.Stop(cmd.Context(), args[0])
		},
	}
}

func (a *app) stopAllCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stop-all",
		Short: "Disconnect any profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			results, err := a.lifecycle.StopAll(cmd.Context())
			if err != nil {
				return err
			}

			for _, result := range results {
				if result.Err != nil {
					a.log.Debug().Err(result.Err).Stringer("device", result.Device.Address).Msg("device was not stopped")
				}
			}

			return nil
		},
	}
}

func (a *app) statusCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show connected and paired devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := a.lifecycle.Status(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd, report)
			}

			fmt.Fprint(cmd.OutOrStdout(), report.Summary())

			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the devices as JSON")

	return cmd
}

func (a *app) listCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			listings, err := a.lifecycle.List()
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd, listings)
			}

			out := cmd.OutOrStdout()
			if len(listings) == 0 {
				fmt.Fprintf(out, "No profiles in %s\n", a.cfg.ProfileDir)
				return nil
			}

			for _, l := range listings {
				if l.Err != nil {
					fmt.Fprintf(out, "%s: %s\n", l.Profile.Name, l.Issue)
					continue
				}

				fmt.Fprintf(out, "%s: controller %s, device %s\n", l.Profile.Name, l.Profile.Controller, l.Profile.Device)
			}

			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the profiles as JSON")

	return cmd
}

func (a *app) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version and platform information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "bluectl %s\nplatform: %s\nbluetooth stack: %s\nservice: %s via %s\n",
				Version, a.info.OS, a.info.Stack, a.info.Unit, a.info.Manager)

			return nil
		},
	}
}

func printJSON[T any](cmd *cobra.Command, v T) error {
	data, err := serde.MarshalJson(v)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))

	return err
}
