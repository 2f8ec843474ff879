package config

import (
	"fmt"
	"sort"
)

// Ruleset is a named set of overrides applied on top of the loaded file.
type Ruleset string

const (
	// RulesMicro keeps whatever the file says.
	RulesMicro Ruleset = "micro"
	// RulesClassic is slower and floatier with a fixed, wider gap.
	RulesClassic Ruleset = "classic"
)

var rulesets = map[Ruleset]func(*FlappyConfig){
	RulesMicro: func(*FlappyConfig) {},
	RulesClassic: func(c *FlappyConfig) {
		c.Physics.Gravity = 0.5
		c.Physics.FlapImpulse = -9
		c.Physics.Speed = 3
		c.Obstacles.SpawnInterval = 90
		c.Obstacles.MinGap = 140
		c.Obstacles.MaxGap = 140
		c.Obstacles.GapPolicy = "fixed"
		c.Obstacles.Margin = 60
	},
}

// Rulesets lists the known ruleset names in order.
func Rulesets() []Ruleset {
	names := make([]Ruleset, 0, len(rulesets))
	for r := range rulesets {
		names = append(names, r)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// ApplyRuleset modifies cfg according to the named ruleset. An empty name
// is the same as micro.
func ApplyRuleset(cfg *FlappyConfig, name Ruleset) error {
	if name == "" {
		name = RulesMicro
	}
	apply, ok := rulesets[name]
	if !ok {
		return fmt.Errorf("config: unknown ruleset %q", name)
	}
	apply(cfg)
	return nil
}
