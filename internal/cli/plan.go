package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/slicekit/wallseq/pkg/order"
	"github.com/slicekit/wallseq/pkg/profile"
)

// planCommand creates the plan command for computing print orders.
func (c *CLI) planCommand() *cobra.Command {
	var (
		policyKey   string
		profilePath string
	)

	cmd := &cobra.Command{
		Use:   "plan [wall-count]",
		Short: "Plan the print order for a wall count",
		Long: `Plan the order in which concentric walls are printed.

Walls are numbered 1..N from outermost to innermost. The plan command
prints the one-based print order for the given wall count under the
selected policy, without touching any geometry.

The wall count and policy can also come from a print profile:

  wallseq plan 5 --policy middle-out/outer-inner
  wallseq plan --profile draft.toml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(args, policyKey, profilePath)
		},
	}

	cmd.Flags().StringVarP(&policyKey, "policy", "p", "", "wall sequence policy key (see 'wallseq policies')")
	cmd.Flags().StringVar(&profilePath, "profile", "", "print profile supplying wall count and policy")

	return cmd
}

// runPlan computes and prints the wall sequence. An explicit wall count or
// --policy flag wins over the profile's settings.
func runPlan(args []string, policyKey, profilePath string) error {
	var prof *profile.Profile
	if profilePath != "" {
		p, err := profile.Load(profilePath)
		if err != nil {
			return err
		}
		prof = p
	}

	var wallCount int
	switch {
	case len(args) == 1:
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid wall count %q", args[0])
		}
		wallCount = n
	case prof != nil:
		wallCount = prof.WallCount
	default:
		return errors.New("wall count required (pass a number or --profile)")
	}

	var policy order.Policy
	if policyKey == "" && prof != nil {
		policy = prof.Policy()
	} else {
		p, err := parsePolicyFlag(policyKey)
		if err != nil {
			return err
		}
		policy = p
	}

	seq := order.Sequence(wallCount, policy)
	if len(seq) == 0 {
		printInfo("No walls to print")
		return nil
	}

	printSuccess("Planned print order for %d walls", wallCount)
	printKeyValue("Policy", policy.Label())
	printKeyValue("Order", formatSequence(seq))
	printNewline()
	printNextStep("Apply to a document", fmt.Sprintf("wallseq reorder doc.json --policy %q", policy))

	return nil
}

// parsePolicyFlag resolves the --policy flag, falling back to the default
// wall sequence when the flag is empty.
func parsePolicyFlag(key string) (order.Policy, error) {
	if key == "" {
		key = profile.DefaultSequence
	}
	policy, err := order.ParsePolicy(key)
	if err != nil {
		return 0, fmt.Errorf("%w (see 'wallseq policies')", err)
	}
	return policy, nil
}

// formatSequence renders a print order like "3 → 4 → 5 → 1 → 2".
func formatSequence(seq []int) string {
	parts := make([]string, len(seq))
	for i, n := range seq {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " "+iconArrow+" ")
}
