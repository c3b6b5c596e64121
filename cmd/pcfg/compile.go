package main

import (
	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/pkg/errors"

	"github.com/ling0322/pcfg/v2"
)

var compileOut string

func runCompile(cmd *commander.Command, args []string) error {
	if rulesFile == "" || compileOut == "" {
		return errors.New("-rules and -out are required")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	grammar, err := pcfg.LoadGrammar(rulesFile, cfg.Encoding(), cfg.LoadPolicy())
	if err != nil {
		return err
	}
	return pcfg.WriteGrammarFile(compileOut, grammar)
}

func compileCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       runCompile,
		UsageLine: "compile -rules <counts> -out <grammar>",
		Short:     "normalizes rule counts and saves the grammar",
		Long: `
normalizes rule counts and saves the grammar in binary form for parse -grammar

	$ pcfg compile -rules train.counts -out train.grammar
`,
		Flag: *flag.NewFlagSet("compile", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&configFile, "config", "", "Optional - YAML configuration file")
	cmd.Flag.StringVar(&rulesFile, "rules", "", "Rule count file")
	cmd.Flag.StringVar(&compileOut, "out", "", "Grammar output file")
	return cmd
}
