package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/jmylchreest/fishtone/internal/colour"
)

// Output formats.
const (
	formatHex   = "hex"
	formatRGB   = "rgb"
	formatJSON  = "json"
	formatCSS   = "css"
	formatTable = "table"
)

var validFormats = []string{formatHex, formatRGB, formatJSON, formatCSS, formatTable}

func isValidFormat(format string) bool {
	return slices.Contains(validFormats, format)
}

// previewWidth is the width of a colour block in preview output.
const previewWidth = 8

// imageResult pairs an input with its extraction result.
type imageResult struct {
	path   string
	result *colour.Result
}

// imageJSON is the JSON output for one image.
type imageJSON struct {
	Image string `json:"image"`
	colour.PaletteJSON
}

// supportsPreview reports whether w is a terminal that renders colour blocks.
func supportsPreview(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && colour.SupportsANSIColours(f)
}

// formatResults writes results in the given format. Text formats skip
// palettes that are not usable. JSON keeps them, with "usable": false.
func formatResults(w io.Writer, results []imageResult, format string, preview bool) error {
	switch format {
	case formatJSON:
		return writeJSON(w, results)
	case formatCSS:
		return writeCSS(w, usableResults(results))
	case formatTable:
		_, err := io.WriteString(w, renderTable(usableResults(results), len(results) > 1))
		return err
	case formatHex, formatRGB:
		return writeLines(w, usableResults(results), format, preview, len(results) > 1)
	default:
		return fmt.Errorf("unsupported format: %s (supported: %v)", format, validFormats)
	}
}

func usableResults(results []imageResult) []imageResult {
	usable := make([]imageResult, 0, len(results))
	for _, r := range results {
		if r.result.Usable() {
			usable = append(usable, r)
		}
	}
	return usable
}

// writeLines writes one colour per line. With several inputs each palette
// is preceded by a "# path" header.
func writeLines(w io.Writer, results []imageResult, format string, preview, headers bool) error {
	var sb strings.Builder
	for i, r := range results {
		if headers {
			if i > 0 {
				sb.WriteString("\n")
			}
			fmt.Fprintf(&sb, "# %s\n", r.path)
		}
		for _, c := range r.result.Palette.All() {
			sb.WriteString(formatColour(c, format, preview))
			sb.WriteString("\n")
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func formatColour(c colour.RGB, format string, preview bool) string {
	switch {
	case format == formatRGB && preview:
		return colour.ColourPreview(c, previewWidth) + " " + c.String()
	case format == formatRGB:
		return c.String()
	case preview:
		return colour.FormatColourWithPreview(c, previewWidth)
	default:
		return c.Hex()
	}
}

func writeJSON(w io.Writer, results []imageResult) error {
	out := make([]imageJSON, len(results))
	for i, r := range results {
		out[i] = imageJSON{Image: r.path, PaletteJSON: r.result.JSON()}
	}

	var v any = out
	if len(out) == 1 {
		v = out[0]
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to convert to JSON: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// writeCSS writes custom properties. A single palette goes on :root, several
// palettes get one numbered class each.
func writeCSS(w io.Writer, results []imageResult) error {
	var sb strings.Builder
	for i, r := range results {
		if len(results) == 1 {
			sb.WriteString(":root {\n")
		} else {
			if i > 0 {
				sb.WriteString("\n")
			}
			fmt.Fprintf(&sb, "/* %s */\n.fishtone-%d {\n", cssComment(r.path), i+1)
		}
		for j, hex := range r.result.Palette.ToHex() {
			fmt.Fprintf(&sb, "  --fish-colour-%d: %s;\n", j+1, hex)
		}
		sb.WriteString("}\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// cssComment keeps a path from closing the comment it is written into.
func cssComment(s string) string {
	return strings.ReplaceAll(s, "*/", "* /")
}

// renderTable lists every colour with its rank and score.
func renderTable(results []imageResult, withImage bool) string {
	headers := []string{"#", "Hex", "RGB", "Score"}
	if withImage {
		headers = append([]string{"Image"}, headers...)
	}

	table := NewTable(headers)
	table.AlignRight(len(headers) - 1)
	for _, r := range results {
		palette := r.result.Palette
		for i, c := range palette.All() {
			score := ""
			if i < len(palette.Scores) {
				score = strconv.FormatFloat(palette.Scores[i], 'f', 3, 64)
			}
			row := []string{strconv.Itoa(i + 1), c.Hex(), c.String(), score}
			if withImage {
				row = append([]string{r.path}, row...)
			}
			table.AddRow(row)
		}
	}
	return table.Render()
}
