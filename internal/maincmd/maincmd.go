// Package maincmd implements ember's command-line surface: flag parsing,
// subcommand dispatch and the exit-code contract, built on top of
// github.com/mna/mainer exactly as the upstream tool this module was
// adapted from does.
package maincmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/mna/mainer"
)

const binName = "ember"

// Exit codes match the three outcomes Interpret can produce: a clean run,
// a compile-time error, and a runtime error, so scripts driving the CLI can
// distinguish "your program is broken" from "your program ran and failed".
const (
	ExitOK           = mainer.ExitCode(0)
	ExitCompileError = mainer.ExitCode(65)
	ExitRuntimeError = mainer.ExitCode(70)
)

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <command> [<path>...]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <command> [<path>...]
       %[1]s -h|--help
       %[1]s -v|--version

A bytecode compiler and virtual machine for the %[1]s scripting language.

The <command> can be one of:
       run <path>                Compile and run the given source file.
       repl                      Start an interactive read-eval-print loop.
       tokenize <path>...        Run only the scanner and print the
                                 resulting tokens.
       disassemble <path>...     Compile the given source file(s) and print
                                 the disassembled bytecode instead of
                                 running them.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
       --gc-stress               Collect garbage before every allocation.
       --gc-log                  Print a line after every collection.

Environment variables EMBER_GC_STRESS and EMBER_GC_LOG set the two GC flags
above without needing to pass them on the command line.
`, binName)
)

// Cmd holds the CLI's parsed flags and arguments; github.com/mna/mainer
// populates it from os.Args (or any other []string) via reflection-based
// struct tags.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help     bool `flag:"h,help"`
	Version  bool `flag:"v,version"`
	GCStress bool `flag:"gc-stress"`
	GCLog    bool `flag:"gc-log"`

	args     []string
	flags    map[string]bool
	cmdName  string
	exitCode mainer.ExitCode
}

func (c *Cmd) SetArgs(args []string) { c.args = args }
func (c *Cmd) SetFlags(flags map[string]bool) { c.flags = flags }

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) == 0 {
		return errors.New("no command specified")
	}

	c.cmdName = c.args[0]
	switch c.cmdName {
	case "run", "tokenize", "disassemble":
		if len(c.args[1:]) == 0 {
			return fmt.Errorf("%s: at least one file must be provided", c.cmdName)
		}
	case "repl":
		// no file arguments
	default:
		return fmt.Errorf("unknown command: %s", c.cmdName)
	}
	return nil
}

// Main is the entry point github.com/mna/mainer's harness invokes: it
// parses flags, handles -h/-v directly, and otherwise dispatches to the
// requested subcommand via buildCmds' reflection-based lookup, except for
// `run`, whose exit code must distinguish compile from runtime errors and
// so is special-cased rather than folded into the generic Success/Failure
// every other command reports.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{EnvVars: true, EnvPrefix: strings.ToUpper(binName) + "_"}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)

	if c.cmdName == "run" {
		c.exitCode = ExitOK
		if err := c.Run(ctx, stdio, c.args[1:]); err != nil {
			printError(stdio, err)
			return c.exitCode
		}
		return ExitOK
	}

	commands := buildCmds(c)
	cmdFn := commands[c.cmdName]
	if cmdFn == nil {
		fmt.Fprintf(stdio.Stderr, "unknown command: %s\n%s", c.cmdName, shortUsage)
		return mainer.InvalidArgs
	}
	if err := cmdFn(ctx, stdio, c.args[1:]); err != nil {
		return mainer.Failure
	}
	return mainer.Success
}

func printError(stdio mainer.Stdio, err error) {
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
	}
}

// buildCmds reflects over v's methods to find the subcommand handlers:
// every method shaped like func(context.Context, mainer.Stdio, []string)
// error becomes available under its lowercased name.
func buildCmds(v interface{}) map[string]func(context.Context, mainer.Stdio, []string) error {
	cmds := make(map[string]func(context.Context, mainer.Stdio, []string) error)

	vv := reflect.ValueOf(v)
	vt := vv.Type()
	for i := 0; i < vt.NumMethod(); i++ {
		m := vt.Method(i)
		mt := m.Type

		if mt.NumIn() != 4 || mt.NumOut() != 1 {
			continue
		}
		if rt := mt.Out(0); rt.Kind() != reflect.Interface || rt.Name() != "error" {
			continue
		}
		if p0 := mt.In(0); p0.Kind() != reflect.Ptr || p0.Elem().Name() != "Cmd" {
			continue
		}
		if p1 := mt.In(1); p1.Kind() != reflect.Interface || p1.Name() != "Context" {
			continue
		}
		if p2 := mt.In(2); p2.Kind() != reflect.Struct || p2.Name() != "Stdio" {
			continue
		}
		if p3 := mt.In(3); p3.Kind() != reflect.Slice || p3.Elem().Name() != "string" {
			continue
		}
		cmds[strings.ToLower(m.Name)] = vv.Method(i).Interface().(func(context.Context, mainer.Stdio, []string) error)
	}
	return cmds
}
