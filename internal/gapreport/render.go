package gapreport

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/olekukonko/tablewriter"

	"github.com/okian/summitgap/internal/domain/types"
)

// Render writes reports to w in the given format. JSON and YAML emit a
// list; the table format prints one block per report.
func Render(w io.Writer, reports []types.Report, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	case FormatYAML:
		out, err := yaml.MarshalWithOptions(reports,
			yaml.Indent(2),
			yaml.IndentSequence(false),
		)
		if err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	case FormatTable:
		for i, rep := range reports {
			if i > 0 {
				if _, err := io.WriteString(w, "\n"); err != nil {
					return err
				}
			}
			if err := renderTable(w, rep); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func renderTable(w io.Writer, rep types.Report) error {
	if _, err := fmt.Fprintf(w, "%s (%s)\n", rep.View.Label(), rep.Region); err != nil {
		return err
	}
	if rep.AllDone() {
		_, err := fmt.Fprintf(w, "You've completed all %s summits!\n", rep.Region)
		return err
	}
	if _, err := fmt.Fprintf(w, "Completed: %d  Remaining: %d\n", rep.Completed, rep.Remaining); err != nil {
		return err
	}

	table := tablewriter.NewTable(w)
	table.Header("Summit", "Code", "Altitude", "Points")
	for _, s := range rep.Missing {
		if err := table.Append(s.Name, s.Code, strconv.Itoa(s.Altitude), strconv.Itoa(s.Points)); err != nil {
			return err
		}
	}
	return table.Render()
}
