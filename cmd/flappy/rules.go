package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flappy-micro/internal/config"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List rulesets and show the active tuning",
	Long: `List the available rulesets and print the tuning that 'flappy play'
would use with the current --config and --rules.

Examples:
  flappy rules
  flappy rules --rules classic
  flappy rules --config ./my-flappy.yaml`,
	Args: cobra.NoArgs,
	RunE: runRules,
}

func runRules(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Rulesets:")
	for _, r := range config.Rulesets() {
		marker := " "
		if string(r) == flagRules || (flagRules == "" && r == config.RulesMicro) {
			marker = "*"
		}
		fmt.Fprintf(out, "  %s %s\n", marker, r)
	}

	w, t, err := loadTuning()
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Active tuning:")
	fmt.Fprintf(out, "  %-16s %gx%g\n", "world", w.Width, w.Height)
	fmt.Fprintf(out, "  %-16s %g\n", "gravity", t.Gravity)
	fmt.Fprintf(out, "  %-16s %g\n", "flap impulse", t.FlapImpulse)
	fmt.Fprintf(out, "  %-16s %g\n", "speed", t.Speed)
	fmt.Fprintf(out, "  %-16s %d frames\n", "spawn interval", t.SpawnInterval)
	fmt.Fprintf(out, "  %-16s %g..%g (%s)\n", "gap", t.MinGap, t.MaxGap, t.GapPolicy)
	fmt.Fprintf(out, "  %-16s %g\n", "margin", t.Margin)
	fmt.Fprintf(out, "  %-16s %g at x=%g%%\n", "actor radius", t.ActorRadius, t.ActorXRatio*100)
	fmt.Fprintf(out, "  %-16s %g\n", "obstacle width", t.ObstacleWidth)
	fmt.Fprintf(out, "  %-16s %s\n", "collision", t.Collision)
	return nil
}
