package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: officepool <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  check      Validate the pool configuration and print the plan")
	fmt.Fprintln(w, "  start      Start the office workers and wait for Ctrl+C")
	fmt.Fprintln(w, "  doctor     Diagnose the office installation and environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'officepool help <command>' for details on a specific command.")
}

// printPoolUsage prints usage for check or start.
func printPoolUsage(w io.Writer, cmd string) {
	fmt.Fprintf(w, "Usage: officepool %s [flags]\n", cmd)
	fmt.Fprintln(w)
	if cmd == "check" {
		fmt.Fprintln(w, "Validate the pool configuration without starting workers.")
	} else {
		fmt.Fprintln(w, "Start one office worker per endpoint and stop them on Ctrl+C.")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Office:")
	fmt.Fprintln(w, "      --office-home <dir>       Installation directory (default: OFFICE_HOME or auto-detect)")
	fmt.Fprintln(w, "      --template-profile <dir>  User profile copied into every worker")
	fmt.Fprintln(w, "      --work-dir <dir>          Directory for instance profiles (default: temp dir)")
	fmt.Fprintln(w, "      --run-as <a,b,...>        Elevation prefix, e.g. sudo,-n,-u,office")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Endpoints:")
	fmt.Fprintln(w, "      --protocol <s>            Connection protocol: socket, pipe")
	fmt.Fprintln(w, "  -p, --ports <n,n,...>         Worker ports (default: 2002)")
	fmt.Fprintln(w, "      --pipe-names <s,s,...>    Worker pipe names (default: office)")
	fmt.Fprintln(w, "  -w, --workers <n>             Expand the first port or pipe name into n workers (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tasks:")
	fmt.Fprintln(w, "      --queue-timeout <d>       Max wait for a free worker (default: 30s)")
	fmt.Fprintln(w, "      --exec-timeout <d>        Max duration of one task (default: 2m)")
	fmt.Fprintln(w, "      --max-tasks <n>           Tasks per worker before restart (default: 200)")
	fmt.Fprintln(w, "      --retry-timeout <d>       Max wait for a worker to come up (default: 2m)")
	fmt.Fprintln(w, "      --retry-interval <d>      Pause between worker checks (default: 250ms)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>           Config file name or path")
	if cmd == "check" {
		fmt.Fprintln(w, "      --json                    Print the plan as JSON")
	}
	fmt.Fprintln(w, "  -q, --quiet                   Only show errors")
	fmt.Fprintln(w, "  -v, --verbose                 Show debug logs")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "check", "start":
		printPoolUsage(env.Stdout, args[0])
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: officepool doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check the office installation, process inspection, and environment.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: officepool version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: officepool help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
