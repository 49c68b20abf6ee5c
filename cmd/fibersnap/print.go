package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/gnana997/fibersnap/pkg/codegen"
	"github.com/gnana997/fibersnap/pkg/fiber"
	"github.com/gnana997/fibersnap/pkg/generator"
)

const (
	maxWidth      = 80
	maxValueWidth = 40
)

// printInspection prints a human-readable inspection summary.
func printInspection(w io.Writer, in *generator.Inspection) {
	fmt.Fprintf(w, "%s  [%s]\n", in.Component, in.Kind)
	if len(in.Path) > 0 {
		fmt.Fprintf(w, "  path: %s\n", strings.Join(in.Path, " > "))
	}
	if in.Source != nil {
		fmt.Fprintf(w, "  source: %s:%d\n", in.Source.FileName, in.Source.LineNumber)
	}
	if in.Owner != "" {
		fmt.Fprintf(w, "  owner: %s\n", in.Owner)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page")
	if in.URL != "" {
		fmt.Fprintf(w, "  url:      %s\n", in.URL)
	}
	fmt.Fprintf(w, "  selected: <%s>\n", in.SelectedTag)
	runtime := "none"
	if in.Runtime.Present {
		runtime = in.Runtime.Prefix
		if in.RuntimeVersion != "" {
			runtime += " (" + in.RuntimeVersion + ")"
		}
	}
	fmt.Fprintf(w, "  runtime:  %s\n", runtime)

	fmt.Fprintln(w)
	printPropsSection(w, in.Props)

	fmt.Fprintln(w)
	if len(in.Hooks) == 0 {
		fmt.Fprintln(w, "Hooks  (none)")
	} else {
		fmt.Fprintln(w, "Hooks")
		for i, h := range in.Hooks {
			fmt.Fprintf(w, "  %d. %-9s %s\n", i+1, h.Kind, shortValue(h.Value))
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Styles  [%s]\n", in.Strategy)
	if len(in.Classes) > 0 {
		printWrapped(w, strings.Join(in.Classes, " "), 2, maxWidth)
	}

	if len(in.Assets.Images) > 0 || len(in.Assets.Fonts) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Assets")
		for _, img := range in.Assets.Images {
			fmt.Fprintf(w, "  %-10s %s\n", img.Kind, img.URL)
		}
		for _, font := range in.Assets.Fonts {
			fmt.Fprintf(w, "  %-10s %s\n", "font", font)
		}
	}

	if in.Children > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Children  %d\n", in.Children)
	}
}

// printPropsSection renders the props table with dynamic column widths.
func printPropsSection(w io.Writer, props *fiber.Object) {
	if props == nil || props.Len() == 0 {
		fmt.Fprintln(w, "Props  (none)")
		return
	}
	fmt.Fprintln(w, "Props")

	type row struct{ name, typ, value string }
	rows := make([]row, 0, props.Len())
	nameW, typeW := len("NAME"), len("TYPE")
	for _, k := range props.Keys() {
		v := props.Lookup(k)
		r := row{name: k, typ: codegen.InferType(v), value: shortValue(v)}
		nameW = max(nameW, len(r.name))
		typeW = max(typeW, len(r.typ))
		rows = append(rows, r)
	}

	fmt.Fprintf(w, "  %-*s  %-*s  %s\n", nameW, "NAME", typeW, "TYPE", "VALUE")
	fmt.Fprintf(w, "  %s\n", strings.Repeat("─", nameW+typeW+4+len("VALUE")))
	for _, r := range rows {
		fmt.Fprintf(w, "  %-*s  %-*s  %s\n", nameW, r.name, typeW, r.typ, r.value)
	}
}

// shortValue renders v as one line of JSON, truncated to maxValueWidth.
func shortValue(v fiber.Value) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "?"
	}
	s := string(b)
	if len(s) > maxValueWidth {
		s = s[:maxValueWidth-3] + "..."
	}
	return s
}

// printWrapped prints text word-wrapped at width with the given left indent.
func printWrapped(w io.Writer, text string, indent, width int) {
	prefix := strings.Repeat(" ", indent)
	line := prefix
	for _, word := range strings.Fields(text) {
		switch {
		case line == prefix:
			line += word
		case len(line)+len(word)+1 > width:
			fmt.Fprintln(w, line)
			line = prefix + word
		default:
			line += " " + word
		}
	}
	if line != prefix {
		fmt.Fprintln(w, line)
	}
}
