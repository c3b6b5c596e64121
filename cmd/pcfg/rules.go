package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/pkg/errors"

	"github.com/ling0322/pcfg/v2"
)

func runRules(cmd *commander.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	grammar, err := loadGrammar(cfg)
	if err != nil {
		return err
	}
	root := pcfg.Label(cfg.Parser.Root)

	w := bufio.NewWriter(os.Stdout)
	stats := grammar.Stats()
	fmt.Fprintf(w, "; %d rules, %d unary, %d binary, %d parents\n",
		stats.Rules, stats.Unary, stats.Binary, stats.Parents)
	for _, cycle := range grammar.UnaryCycles() {
		fmt.Fprintf(w, "; unary cycle: %v\n", cycle)
	}
	for _, label := range grammar.Unreachable(root) {
		fmt.Fprintf(w, "; unreachable from %s: %s\n", root, label)
	}
	if err := grammar.Print(w); err != nil {
		return errors.Wrap(err, "printing grammar")
	}
	return errors.Wrap(w.Flush(), "printing grammar")
}

func rulesCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       runRules,
		UsageLine: "rules -rules <counts> [-root TOP]",
		Short:     "prints the normalized grammar and its diagnostics",
		Long: `
prints the normalized grammar with unary cycles and unreachable parents

	$ pcfg rules -rules train.counts
`,
		Flag: *flag.NewFlagSet("rules", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&configFile, "config", "", "Optional - YAML configuration file")
	cmd.Flag.StringVar(&rulesFile, "rules", "", "Rule count file")
	cmd.Flag.StringVar(&grammarFile, "grammar", "", "Grammar file written by compile, instead of -rules")
	cmd.Flag.StringVar(&rootLabel, "root", "", "Optional - root label (default TOP)")
	return cmd
}
