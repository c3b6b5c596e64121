package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/golang/glog"
	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ling0322/pcfg/v2"
	"github.com/ling0322/pcfg/v2/internal/config"
	"github.com/ling0322/pcfg/v2/internal/metrics"
)

var (
	configFile  string
	rulesFile   string
	grammarFile string
	inputFile   string
	outputFile  string
	rootLabel   string
	maxLength   int
	workers     int
	serial      bool
	pretty      bool
	keepUnary   bool
	debinarize  bool
)

// loadConfig reads the config file and lets command-line flags override it
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if rootLabel != "" {
		cfg.Parser.Root = rootLabel
	}
	if maxLength > 0 {
		cfg.Parser.MaxLength = maxLength
	}
	if workers > 0 {
		cfg.Parser.Workers = workers
	}
	if keepUnary {
		cfg.Parser.KeepUnary = true
	}
	if debinarize {
		cfg.Parser.Debinarize = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadGrammar reads a gob snapshot when -grammar is given, the rule-count
// file otherwise
func loadGrammar(cfg *config.Config) (*pcfg.Grammar, error) {
	switch {
	case grammarFile != "":
		return pcfg.ReadGrammarFile(grammarFile)
	case rulesFile != "":
		return pcfg.LoadGrammar(rulesFile, cfg.Encoding(), cfg.LoadPolicy())
	}
	return nil, errors.New("one of -rules or -grammar is required")
}

func runParse(cmd *commander.Command, args []string) error {
	if inputFile == "" {
		return errors.New("-in is required")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	grammar, err := loadGrammar(cfg)
	if err != nil {
		return err
	}
	reportGrammar(grammar, pcfg.Label(cfg.Parser.Root))

	sentences, err := pcfg.LoadSentences(inputFile, cfg.Encoding())
	if err != nil {
		return err
	}

	opts := cfg.ParserOptions()
	registry := prometheus.NewRegistry()
	if cfg.Metrics.Textfile != "" {
		opts = append(opts, pcfg.WithObserver(metrics.New(registry)))
	}
	parser := pcfg.NewParser(grammar, opts...)

	var results []pcfg.Result
	if serial {
		results = parser.ParseSerial(sentences)
	} else {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		results, err = parser.ParseAllContext(ctx, sentences, cfg.WorkerCount())
		stop()
		if err != nil {
			return err
		}
	}
	if len(results) > 0 {
		glog.Infof("run %s: writing %d results", results[0].Run, len(results))
	}

	out := os.Stdout
	if outputFile != "" {
		if out, err = os.Create(outputFile); err != nil {
			return errors.Wrap(err, "creating output")
		}
		defer out.Close()
	}
	w := bufio.NewWriter(pcfg.NewEncoder(out, cfg.Encoding()))
	for _, r := range results {
		line := r.String()
		if pretty {
			line = r.Pretty()
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return errors.Wrap(err, "writing results")
		}
	}
	if err := w.Flush(); err != nil {
		return errors.Wrap(err, "writing results")
	}

	if cfg.Metrics.Textfile != "" {
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile, registry); err != nil {
			glog.Errorf("writing metrics: %v", err)
		}
	}
	return nil
}

// reportGrammar logs the diagnostics of a grammar about to be used
func reportGrammar(g *pcfg.Grammar, root pcfg.Label) {
	for _, cycle := range g.UnaryCycles() {
		glog.Warningf("unary cycle: %v", cycle)
	}
	if glog.V(1) {
		if unreachable := g.Unreachable(root); len(unreachable) > 0 {
			glog.Infof("%d parents unreachable from %s: %v", len(unreachable), root, unreachable)
		}
	}
}

func parseCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       runParse,
		UsageLine: "parse -rules <counts> -in <sentences> [options]",
		Short:     "parses sentences with a PCFG estimated from rule counts",
		Long: `
parses sentences with a PCFG estimated from rule counts

	$ pcfg parse -rules train.counts -in test.txt > test.trees

One line is printed per input sentence: the best tree, an empty line when
there is no parse, or *IGNORE* when the sentence is too long.
`,
		Flag: *flag.NewFlagSet("parse", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&configFile, "config", "", "Optional - YAML configuration file")
	cmd.Flag.StringVar(&rulesFile, "rules", "", "Rule count file (count parent _ left [right])")
	cmd.Flag.StringVar(&grammarFile, "grammar", "", "Grammar file written by compile, instead of -rules")
	cmd.Flag.StringVar(&inputFile, "in", "", "Sentence file, one tokenized sentence per line")
	cmd.Flag.StringVar(&outputFile, "out", "", "Optional - output file (default stdout)")
	cmd.Flag.StringVar(&rootLabel, "root", "", "Optional - root label (default TOP)")
	cmd.Flag.IntVar(&maxLength, "max-length", 0, "Optional - longest sentence to parse (default 25)")
	cmd.Flag.IntVar(&workers, "workers", 0, "Optional - parsing goroutines (default one per CPU)")
	cmd.Flag.BoolVar(&serial, "serial", false, "Parse on a single goroutine")
	cmd.Flag.BoolVar(&serial, "s", false, "Same as -serial")
	cmd.Flag.BoolVar(&pretty, "pretty", false, "Print indented trees")
	cmd.Flag.BoolVar(&keepUnary, "keep-unary", false, "Bracket every unary rule")
	cmd.Flag.BoolVar(&debinarize, "debinarize", false, "Splice \"_\" labels of a binarized grammar into their parents")
	return cmd
}
