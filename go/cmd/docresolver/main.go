// Command docresolver is a manual smoke-testing harness for the
// out-of-process reference resolution bridge: it spawns a configured
// resolver executable, performs the handshake, issues one resolve request,
// and prints the result.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	flags "github.com/jessevdk/go-flags"
	log "github.com/sirupsen/logrus"

	"github.com/flowdocs/docresolver/go/resolver"
	"github.com/flowdocs/docresolver/go/transport"
	"github.com/flowdocs/docresolver/go/wire"
)

type cmdResolve struct {
	Executable string `long:"executable" short:"e" required:"true" description:"path to the resolver executable to spawn"`
	Topic      string `long:"topic" description:"a topic URL to resolve"`
	Symbol     string `long:"symbol" description:"a precise (USR) identifier to resolve as a symbol"`
	Verbose    bool   `long:"verbose" short:"v" description:"log stderr lines from the resolver process"`
}

func (c *cmdResolve) Execute(_ []string) error {
	if (c.Topic == "") == (c.Symbol == "") {
		return fmt.Errorf("exactly one of --topic or --symbol must be given")
	}

	level := log.WarnLevel
	if c.Verbose {
		level = log.DebugLevel
	}

	log.SetLevel(level)
	r, err := resolver.NewFromExecutable(c.Executable, []transport.ChildProcessOption{
		transport.WithLogger(log.NewEntry(log.StandardLogger())),
	})
	if err != nil {
		return fmt.Errorf("constructing resolver: %w", err)
	}
	defer r.Close()

	color.Cyan("handshake complete: primary bundle id = %s", r.PrimaryBundleID())

	switch {
	case c.Topic != "":
		ref := resolver.UnresolvedTopicReference(c.Topic)
		result := r.Resolve(ref, wire.Language{})
		if result.IsFailure() {
			color.Red("resolve failed: %s", result.FailureMessage())
			return nil
		}
		resolved, _ := result.Resolved()
		node := r.Entity(resolved)
		color.Green("resolved %q -> %s (%s)", c.Topic, node.Name, node.Kind.Name)

	case c.Symbol != "":
		node, ref, err := r.SymbolEntity(c.Symbol)
		if err != nil {
			color.Red("symbol resolve failed: %s", err)
			return nil
		}
		color.Green("resolved symbol %q -> %s (reference path %s)", c.Symbol, node.Name, ref.Path)
	}

	return nil
}

func main() {
	opts := &cmdResolve{}
	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)

	args, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := opts.Execute(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
