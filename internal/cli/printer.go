package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"sigs.k8s.io/yaml"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var idLabel = color.New(color.FgCyan)

// row is one line of a human readable list.
type row struct {
	ID     int64
	Name   string
	Detail string
}

// envelope wraps v as {"result":1,"value":v}.
func envelope(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to format JSON output: %w", err)
	}
	out, err := sjson.SetRawBytes([]byte(`{"result":1}`), "value", raw)
	if err != nil {
		return nil, fmt.Errorf("failed to format JSON output: %w", err)
	}
	return out, nil
}

// printJSON prints v wrapped in the result envelope as indented JSON
func printJSON(w io.Writer, v any) error {
	out, err := envelope(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, gjson.GetBytes(out, "@pretty").String())
	return err
}

// printValue prints a single object as YAML under a heading, or as JSON
func printValue(w io.Writer, title string, v any) error {
	if jsonOutput {
		return printJSON(w, v)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	yamlBytes, err := yaml.JSONToYAML(raw)
	if err != nil {
		return fmt.Errorf("failed to convert to YAML: %w", err)
	}
	if title != "" {
		fmt.Fprintf(w, "%s:\n", cases.Title(language.English).String(title))
	}
	fmt.Fprint(w, string(yamlBytes))
	return nil
}

// printList prints rows under a heading, or v as JSON
func printList(w io.Writer, title string, v any, rows []row) error {
	if jsonOutput {
		return printJSON(w, v)
	}
	fmt.Fprintf(w, "%s:\n", cases.Title(language.English).String(title))
	if len(rows) == 0 {
		fmt.Fprintln(w, "  (none)")
		return nil
	}
	for _, r := range rows {
		if r.ID != 0 {
			idLabel.Fprintf(w, "  %-10d", r.ID)
		} else {
			fmt.Fprint(w, "  ")
		}
		fmt.Fprint(w, r.Name)
		if r.Detail != "" {
			fmt.Fprintf(w, " (%s)", r.Detail)
		}
		fmt.Fprintln(w)
	}
	return nil
}

// printDone reports a command without a result value
func printDone(w io.Writer, msg string) error {
	if jsonOutput {
		return printJSON(w, map[string]string{"message": msg})
	}
	okLabel.Fprintf(w, "✓ %s\n", msg)
	return nil
}

type allErrors interface {
	ErrorAll() string
}

// printError reports err on stderr
func printError(err error) {
	msg := err.Error()
	if e, ok := err.(allErrors); ok {
		msg = e.ErrorAll()
	}
	if jsonOutput {
		out, _ := sjson.Set(`{"result":0}`, "error", msg)
		fmt.Fprintln(os.Stderr, gjson.Get(out, "@pretty").String())
		return
	}
	errorLabel.Fprintf(os.Stderr, "Error: %v\n", msg)
}
