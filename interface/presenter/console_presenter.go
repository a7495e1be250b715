package presenter

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	usecase "github.com/ca-srg/tzconv/usecase/interface"
)

// ConsolePresenterImpl implements ConsolePresenter for terminal output
type ConsolePresenterImpl struct {
	writer    io.Writer
	errWriter io.Writer
}

// NewConsolePresenter creates a new console presenter
func NewConsolePresenter() *ConsolePresenterImpl {
	return NewConsolePresenterWithWriter(os.Stdout)
}

// NewConsolePresenterWithWriter creates a console presenter writing to w
func NewConsolePresenterWithWriter(w io.Writer) *ConsolePresenterImpl {
	return &ConsolePresenterImpl{
		writer:    w,
		errWriter: os.Stderr,
	}
}

// PrintVersion prints version information
func (p *ConsolePresenterImpl) PrintVersion(version string) {
	_, _ = fmt.Fprintf(p.writer, "tzconv version %s\n", version)
}

// PrintError prints an error message
func (p *ConsolePresenterImpl) PrintError(err error) {
	_, _ = fmt.Fprintf(p.errWriter, "Error: %v\n", err)
}

// PrintBoard prints one line per row followed by the share link
func (p *ConsolePresenterImpl) PrintBoard(snap *usecase.BoardSnapshot) error {
	_, _ = fmt.Fprintf(p.writer, "Date: %s\n", snap.SelectedDate)
	_, _ = fmt.Fprintln(p.writer)

	if len(snap.Rows) == 0 {
		_, _ = fmt.Fprintln(p.writer, "No timezones selected.")
	} else {
		w := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintf(w, "#\tZone\tName\tTime\tLocal\tOffset\n")
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			"-", strings.Repeat("-", 4), strings.Repeat("-", 4),
			strings.Repeat("-", 5), strings.Repeat("-", 5), strings.Repeat("-", 6))

		for _, row := range snap.Rows {
			marker := ""
			if row.Abbreviation == snap.ReferenceZone {
				marker = " *"
			}
			_, _ = fmt.Fprintf(w, "%d\t%s%s\t%s\t%s\t%s, %s\t%s\n",
				row.Index+1,
				row.Abbreviation, marker,
				p.truncateString(row.Name, 32),
				row.Clock,
				row.DisplayTime, row.DisplayDate,
				row.Offset)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintln(p.writer)
	_, _ = fmt.Fprintf(p.writer, "Share: %s\n", snap.ShareLink)
	return nil
}

// PrintCatalog prints the selectable zones
func (p *ConsolePresenterImpl) PrintCatalog(options []usecase.CatalogOption) error {
	w := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Zone\tName\tOffset\tSelected\n")
	for _, o := range options {
		selected := ""
		if o.Selected {
			selected = "yes"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", o.Abbreviation, o.Name, o.Offset, selected)
	}
	return w.Flush()
}

// PrintConfig prints an exported configuration as indented key/value pairs
func (p *ConsolePresenterImpl) PrintConfig(export map[string]interface{}) error {
	p.printMap(export, 0)
	return nil
}

func (p *ConsolePresenterImpl) printMap(m map[string]interface{}, depth int) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	indent := strings.Repeat("  ", depth)
	for _, k := range keys {
		switch v := m[k].(type) {
		case map[string]interface{}:
			_, _ = fmt.Fprintf(p.writer, "%s%s:\n", indent, k)
			p.printMap(v, depth+1)
		case map[string]string:
			nested := make(map[string]interface{}, len(v))
			for nk, nv := range v {
				nested[nk] = nv
			}
			_, _ = fmt.Fprintf(p.writer, "%s%s:\n", indent, k)
			p.printMap(nested, depth+1)
		case []string:
			_, _ = fmt.Fprintf(p.writer, "%s%s: %s\n", indent, k, strings.Join(v, ","))
		default:
			_, _ = fmt.Fprintf(p.writer, "%s%s: %v\n", indent, k, v)
		}
	}
}

// truncateString truncates a string to maxLen runes
func (p *ConsolePresenterImpl) truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
