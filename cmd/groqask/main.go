package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// streams are the process I/O handed to the command; tests swap them.
type streams struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	dir    string // directory holding .env, groqask.yaml and the default config.json
}

// newRootCmd builds the groqask command. Flag parsing is left to route so
// that unknown or extra arguments print help instead of a cobra error.
func newRootCmd(s streams) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groqask",
		Short: "Ask a Groq-hosted model a single question",
		Long: `groqask sends one query to an OpenAI-compatible chat-completion endpoint
(Groq by default) and prints the reply.

On first run it asks for an API key and a model and stores them in config.json.
Run without arguments to ask a question.`,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return route(cmd, args, s)
		},
	}

	flags := cmd.Flags()
	flags.SortFlags = false
	flags.BoolP("setup", "s", false, "Initialize the setup")
	flags.BoolP("help", "h", false, "Shows available commands")

	cmd.SetIn(s.in)
	cmd.SetOut(s.out)
	cmd.SetErr(s.errOut)
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		printHelp(c.OutOrStdout(), c)
	})
	return cmd
}

// route dispatches on the raw arguments:
//   - none: ask a question
//   - -s/--setup: run setup only
//   - -h/--help: print help
//   - any other single argument: unknown argument notice and help
//   - two or more: help
func route(cmd *cobra.Command, args []string, s streams) error {
	out := cmd.OutOrStdout()

	switch len(args) {
	case 0:
		return runQuery(cmd.Context(), s)
	case 1:
		flag := matchFlag(cmd.Flags(), args[0])
		switch {
		case flag == nil:
			fmt.Fprintf(out, "Unknown argument: %q\n", args[0])
			printHelp(out, cmd)
		case flag.Name == "help":
			printHelp(out, cmd)
		case flag.Name == "setup":
			return runSetup(s)
		}
		return nil
	default:
		printHelp(out, cmd)
		return nil
	}
}

// matchFlag returns the flag spelled exactly as arg ("-s" or "--setup").
// Combined shorthands and "=value" forms do not match.
func matchFlag(flags *pflag.FlagSet, arg string) *pflag.Flag {
	var found *pflag.Flag
	flags.VisitAll(func(f *pflag.Flag) {
		if arg == "--"+f.Name || (f.Shorthand != "" && arg == "-"+f.Shorthand) {
			found = f
		}
	})
	return found
}

func printHelp(w io.Writer, cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		fmt.Fprintf(w, "%s [-%s | --%s] : %s\n", cmd.Name(), f.Shorthand, f.Name, f.Usage)
	})
}

func execute(ctx context.Context, args []string, s streams) error {
	if args == nil {
		// cobra falls back to os.Args on a nil slice
		args = []string{}
	}
	cmd := newRootCmd(s)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func main() {
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// SIGINT keeps its default behavior at the prompts; the app traps it
	// only while the request is in flight.
	err = execute(context.Background(), os.Args[1:], streams{in: os.Stdin, out: os.Stdout, errOut: os.Stderr, dir: dir})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
