package inspect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jortiz-slac/pcdsdevices/pkg/model"
)

// Formatter formats inspection output.
type Formatter struct {
	// ShowMetadata includes type, access, and unit information
	ShowMetadata bool

	// ShowPV includes the process variable of each signal
	ShowPV bool

	// IndentWidth is the number of spaces per indent level
	IndentWidth int
}

// NewFormatter creates a new Formatter with default settings.
func NewFormatter() *Formatter {
	return &Formatter{
		ShowMetadata: true,
		ShowPV:       false,
		IndentWidth:  2,
	}
}

// Indent returns the content with indentation.
func (f *Formatter) Indent(depth int, content string) string {
	width := f.IndentWidth
	if width == 0 {
		width = 2
	}
	indent := strings.Repeat(" ", depth*width)
	return indent + content
}

// FormatValue formats a value for display with its unit.
func (f *Formatter) FormatValue(value any, unit string) string {
	if value == nil {
		return "null"
	}

	var s string
	switch v := value.(type) {
	case bool:
		s = strconv.FormatBool(v)
	case string:
		return fmt.Sprintf("%q", v)
	case int:
		s = strconv.Itoa(v)
	case int64:
		s = strconv.FormatInt(v, 10)
	case float64:
		s = strconv.FormatFloat(v, 'f', 4, 64)
	case float32:
		s = strconv.FormatFloat(float64(v), 'f', 4, 32)
	case fmt.Stringer:
		s = v.String()
	default:
		s = fmt.Sprintf("%v", v)
	}
	if unit != "" {
		return s + " " + unit
	}
	return s
}

// FormatAccess formats an access level for display.
func FormatAccess(access model.Access) string {
	switch access {
	case model.AccessReadOnly:
		return "read-only"
	case model.AccessRead:
		return "read"
	case model.AccessWrite:
		return "write"
	case model.AccessReadWrite:
		return "read-write"
	default:
		return fmt.Sprintf("access(%s)", access)
	}
}

// FormatDataType formats a data type for display.
func FormatDataType(dt model.DataType) string {
	return dt.String()
}

// FormatDestination formats a destination list, which may be empty.
func FormatDestination(dest []string) string {
	if len(dest) == 0 {
		return "(none)"
	}
	return strings.Join(dest, ", ")
}

// FormatSignalTable formats a list of signals as a table.
func (f *Formatter) FormatSignalTable(rows []SignalInfo) string {
	if len(rows) == 0 {
		return "  (no signals)"
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row.Path))
	}

	var sb strings.Builder
	for _, row := range rows {
		fmt.Fprintf(&sb, "%s = %s", f.Indent(1, padRight(row.Path, width)), f.FormatValue(row.Value, row.Units))
		if f.ShowMetadata {
			fmt.Fprintf(&sb, " (%s, %s)", FormatDataType(row.Type), FormatAccess(row.Access))
		}
		if f.ShowPV && row.PV != "" {
			fmt.Fprintf(&sb, " [%s]", row.PV)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
