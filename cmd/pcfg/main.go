package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/gonuts/commander"
	gflag "github.com/gonuts/flag"
)

func rootCmd() *commander.Command {
	return &commander.Command{
		UsageLine: os.Args[0] + " [glog flags] <command> [options]",
		Short:     "Viterbi CYK parsing with a count-estimated PCFG",
		Subcommands: []*commander.Command{
			parseCmd(),
			compileCmd(),
			rulesCmd(),
		},
		Flag: *gflag.NewFlagSet("pcfg", gflag.ExitOnError),
	}
}

func main() {
	// glog registers -v, -logtostderr and friends on the standard flag set;
	// they come before the command name
	flag.Parse()
	defer glog.Flush()

	cmd := rootCmd()
	if err := cmd.Dispatch(flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "**err**: %v\n", err)
		glog.Flush()
		os.Exit(1)
	}
}
