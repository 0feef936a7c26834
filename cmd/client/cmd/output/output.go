package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
)

// JSON включается глобальным флагом --json
var JSON bool

var (
	success = color.New(color.FgGreen).SprintFunc()
	warn    = color.New(color.FgYellow).SprintFunc()
	header  = color.New(color.Bold).SprintFunc()
)

func Success(format string, a ...any) {
	fmt.Println(success("✓ ") + fmt.Sprintf(format, a...))
}

func Warn(format string, a ...any) {
	fmt.Fprintln(os.Stderr, warn("! ")+fmt.Sprintf(format, a...))
}

// Print выводит v как JSON либо вызывает table
func Print(v any, table func(w io.Writer)) error {
	if JSON {
		return WriteJSON(os.Stdout, v)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	table(w)
	return w.Flush()
}

func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Header печатает строку заголовков таблицы
func Header(w io.Writer, cols ...string) {
	for i, c := range cols {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, header(c))
	}
	fmt.Fprintln(w)
}

func Truncate(s string, length int) string {
	r := []rune(s)
	if len(r) <= length {
		return s
	}
	return string(r[:length-3]) + "..."
}
