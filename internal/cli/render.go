package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"

	"hermes-cli/internal/application/port/output"
	"hermes-cli/internal/domain/entity"
)

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	warnColor    = color.New(color.FgYellow)
	errColor     = color.New(color.FgRed, color.Bold)
	dimColor     = color.New(color.Faint)
)

func printBanner(w io.Writer) {
	banner := figure.NewFigure("Hermes", "", true)
	headingColor.Fprint(w, banner.String())
	dimColor.Fprintln(w, "Interface with Nous Research's Hermes-4 models")
	fmt.Fprintln(w)
}

func printWarning(w io.Writer, format string, args ...any) {
	warnColor.Fprintf(w, "Warning: "+format+"\n", args...)
}

func printError(w io.Writer, format string, args ...any) {
	errColor.Fprintf(w, "Error: "+format+"\n", args...)
}

func printToolCatalog(w io.Writer, catalog output.ToolCatalog) {
	headingColor.Fprintln(w, "Built-in tools:")
	printToolGroup(w, catalog.Builtin)
	fmt.Fprintln(w)
	headingColor.Fprintln(w, "User tools:")
	printToolGroup(w, catalog.User)
}

func printToolGroup(w io.Writer, tools map[string]string) {
	if len(tools) == 0 {
		dimColor.Fprintln(w, "  (none)")
		return
	}
	names := make([]string, 0, len(tools))
	for name := range tools {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-24s %s\n", name, tools[name])
	}
}

func printToolInfo(w io.Writer, info *output.ToolInfo) error {
	pretty, err := prettyjson.Marshal(info)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(pretty))
	return nil
}

func printConversations(w io.Writer, summaries []entity.ConversationSummary) {
	if len(summaries) == 0 {
		dimColor.Fprintln(w, "No conversations yet.")
		return
	}
	headingColor.Fprintf(w, "%-28s %-16s %-10s %s\n", "NAME", "MODEL", "MESSAGES", "UPDATED")
	for _, s := range summaries {
		fmt.Fprintf(w, "%-28s %-16s %-10d %s\n",
			s.Name, s.Model, s.MessageCount, s.UpdatedAt.Format("2006-01-02 15:04"))
	}
}
