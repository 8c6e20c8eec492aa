package main

import (
	"fmt"
	"os"
	"strings"
)

const version = "0.1.0-dev"

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) < 2 {
		return runGenerate(os.Args[1:])
	}

	switch os.Args[1] {
	case "generate":
		return runGenerate(os.Args[2:])
	case "watch":
		return runWatch(os.Args[2:])
	case "normalize":
		return runNormalize(os.Args[2:])
	case "--version", "-v":
		fmt.Println("typeschema", version)
		return 0
	case "--help", "-h":
		printUsage()
		return 0
	default:
		// A leading flag means the default command.
		if strings.HasPrefix(os.Args[1], "-") {
			return runGenerate(os.Args[1:])
		}
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		return 1
	}
}

func printUsage() {
	fmt.Println("typeschema - generate OpenAPI component schemas from a type graph")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  typeschema [flags]                 Generate the document (default)")
	fmt.Println("  typeschema generate [flags]        Generate the document")
	fmt.Println("  typeschema watch [flags]           Regenerate whenever the input or config changes")
	fmt.Println("  typeschema normalize [name...]     Print component names for type names (stdin when none)")
	fmt.Println()
	fmt.Println("Global Flags:")
	fmt.Println("  --version, -v          Print version and exit")
	fmt.Println("  --help, -h             Print this help message")
	fmt.Println()
	fmt.Println("Generate Flags:")
	fmt.Println("  --config <path>        Path to typeschema.config.json")
	fmt.Println("  --input <path>         Type graph to read (default: types.json)")
	fmt.Println("  --output <path>        Document to write, \"-\" for stdout (default: openapi.json)")
	fmt.Println("  --format <json|yaml>   Output format (default: inferred from --output)")
	fmt.Println("  --strict               Treat warnings as errors")
	fmt.Println("  --quiet                Only report errors")
	fmt.Println("  --no-cache             Regenerate even if nothing changed")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  TYPESCHEMA_INPUT, TYPESCHEMA_OUTPUT, TYPESCHEMA_FORMAT, TYPESCHEMA_STRICT")
	fmt.Println("  are read from the process and from a .env file next to the config.")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  typeschema")
	fmt.Println("  typeschema --input graph.json --output docs/openapi.yaml")
	fmt.Println("  typeschema watch --config typeschema.config.json")
	fmt.Println("  typeschema normalize 'Promise<Page<User>>'")
	fmt.Println()
}
