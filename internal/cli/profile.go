package cli

import (
	"fmt"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/slicekit/wallseq/pkg/profile"
)

// profileCommand groups the print profile subcommands.
func (c *CLI) profileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Inspect and scaffold print profiles",
	}

	cmd.AddCommand(c.profileShowCommand())
	cmd.AddCommand(c.profileInitCommand())

	return cmd
}

// profileShowCommand creates the "profile show" subcommand.
func (c *CLI) profileShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [profile.toml]",
		Short: "Validate a profile and print its effective settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := profile.Load(args[0])
			if err != nil {
				return err
			}

			name := p.Name
			if name == "" {
				name = "(unnamed)"
			}

			printKeyValue("Name", name)
			printKeyValue("Walls", strconv.Itoa(p.WallCount))
			printKeyValue("Wall width", fmt.Sprintf("%g mm", p.WallWidth))
			printKeyValue("Sequence", fmt.Sprintf("%s (%s)", p.Sequence, p.Policy().Label()))
			printKeyValue("Adaptive", strconv.FormatBool(p.Adaptive))
			printNewline()
			printNextStep("Plan with this profile", fmt.Sprintf("wallseq plan --profile %s", args[0]))
			return nil
		},
	}
}

// profileInitCommand creates the "profile init" subcommand, which writes a
// starter profile with all defaults applied.
func (c *CLI) profileInitCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "init [name]",
		Short: "Write a starter profile with default settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := profile.Default()
			if len(args) > 0 {
				p.Name = args[0]
			}

			data, err := toml.Marshal(p)
			if err != nil {
				return fmt.Errorf("encode profile: %w", err)
			}

			out, err := openOutput(output)
			if err != nil {
				return err
			}
			defer out.Close()

			if _, err := out.Write(data); err != nil {
				return err
			}

			if output != "" {
				printSuccess("Wrote %s", output)
				printNextStep("Edit it, then", fmt.Sprintf("wallseq plan --profile %s", output))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}
