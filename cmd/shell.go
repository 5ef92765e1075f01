package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/clubstats/internal/report"
	"github.com/pable/clubstats/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(cmd *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cGreeting.Println("clubstats shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("clubstats")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		name, args := tokens[0], tokens[1:]

		switch name {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "teams":
			shellTeams(db)
		case "list":
			shellList(db, args)
		case "show":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: show <id-prefix> [--flat]")
				continue
			}
			flat := len(args) > 1 && args[1] == "--flat"
			if err := showMatch(db, args[0], flat, os.Stdout); err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
			}
		case "chart":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: chart <request.json> [--team <name>] [--json]")
				continue
			}
			shellChart(cmd, db, args)
		case "canon":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: canon <field-name> [...]")
				continue
			}
			printCanon(splitNames(args))
		case "classify":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: classify <field-name> [...]")
				continue
			}
			printClassify(splitNames(args), false, false)
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", name)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"teams", "list registered teams"},
		{"list [<team>]", "list stored matches"},
		{"show <id-prefix> [--flat]", "show a match grouped by category"},
		{"chart <request.json> [--team <name>] [--json]", "aggregate stored matches"},
		{"canon <name>[, <name>...]", "canonicalize field names (comma separated)"},
		{"classify <name>[, <name>...]", "categorize field names (comma separated)"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-48s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellTeams(db *storage.DB) {
	teams, err := db.ListTeams()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(teams) == 0 {
		cMuted.Println("No teams yet.")
		return
	}
	cHeader.Fprintf(os.Stdout, "%-10s  %s\n", "ID", "NAME")
	cMuted.Fprintf(os.Stdout, "%-10s  %s\n", "──────────", "──────────────────────────────")
	for _, t := range teams {
		fmt.Fprintf(os.Stdout, "%-10s  %s\n", t.ID[:8], t.Name)
	}
}

func shellList(db *storage.DB, args []string) {
	var filter storage.MatchFilter
	if len(args) > 0 {
		team, err := requireTeam(db, strings.Join(args, " "))
		if err != nil {
			cError.Fprintf(os.Stderr, "error: %v\n", err)
			return
		}
		filter.TeamID = team.ID
	}
	matches, err := db.ListMatches(filter)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(matches) == 0 {
		cMuted.Println("No matches stored yet.")
		return
	}
	report.PrintMatchList(os.Stdout, matches)
}

func shellChart(cmd *cobra.Command, db *storage.DB, args []string) {
	req, err := readChartRequest(args[0])
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	output := "table"
	var filter storage.MatchFilter
	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "--json":
			output = "json"
		case "--team":
			if i+1 >= len(args) {
				cError.Fprintln(os.Stderr, "--team needs a value")
				return
			}
			team, err := requireTeam(db, args[i+1])
			if err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
				return
			}
			filter.TeamID = team.ID
			i++
		}
	}
	if err := renderChart(cmd, db, filter, req, output, os.Stdout); err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
	}
}

// splitNames rejoins shell tokens and splits on commas so names may contain spaces.
func splitNames(tokens []string) []string {
	var out []string
	for _, part := range strings.Split(strings.Join(tokens, " "), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
