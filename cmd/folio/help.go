package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: folio <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  build      Fetch content and render the whole site")
	fmt.Fprintln(w, "  render     Render a single document to HTML")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'folio help <command>' for details on a specific command.")
}

// printBuildUsage prints usage for the build command.
func printBuildUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: folio build [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Fetch content from the configured store and render every page")
	fmt.Fprintln(w, "of the site into the output directory.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path (default: folio)")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (overrides config)")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom template and style directory")
	fmt.Fprintln(w, "      --store-url <url>     Content store endpoint override")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug output")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: folio render <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render a single document to an HTML fragment. Markdown input")
	fmt.Fprintln(w, "(.md, .markdown) is converted; anything else is read as a JSON")
	fmt.Fprintln(w, "node array.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>            Output file (default: stdout)")
	fmt.Fprintln(w, "      --theme <name>             Syntax highlighting theme")
	fmt.Fprintln(w, "      --line-number-threshold <n> Show line numbers above n lines")
	fmt.Fprintln(w, "  -q, --quiet                    Only show errors")
	fmt.Fprintln(w, "  -v, --verbose                  Show debug output")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "build":
		printBuildUsage(env.Stdout)
	case "render":
		printRenderUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: folio version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: folio help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
