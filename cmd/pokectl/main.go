// Command pokectl is the debugging and maintenance CLI for pokesearch.
//
// Usage:
//
//	pokectl                        Show help
//	pokectl search <name>...       Query the species endpoint directly
//	pokectl events                 JSONL event log viewer
//	pokectl stats                  Search and API latency summary
//	pokectl prefs                  List stored preferences
//	pokectl prefs --reset-welcome  Show the welcome screen again next launch
//	pokectl prefs --delete <key>   Remove a stored preference
package main

import (
	"fmt"
	"os"
)

const usage = `pokectl: pokesearch debug & maintenance CLI

Usage:
  pokectl <command> [flags]

Commands:
  search      Query the species endpoint and print the results
  events      JSONL event log viewer
  stats       Search and API latency summary from the event log
  prefs       List, reset or delete stored preferences

Environment:
  POKESEARCH_ENDPOINT     GraphQL endpoint (default: https://beta.pokeapi.co/graphql/v1beta)
  POKESEARCH_PAGE_SIZE    Results per page (default: 20)

Run 'pokectl <command> -h' for command-specific help.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(0)
	}

	cmd := os.Args[1]
	// Strip the program name + subcommand so flag sets see only their flags
	os.Args = os.Args[1:]

	switch cmd {
	case "search":
		runSearch()
	case "events":
		runEvents()
	case "stats":
		runStats()
	case "prefs":
		runPrefs()
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "pokectl: unknown command %q\n\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}
