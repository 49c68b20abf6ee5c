package codegen

import (
	"fmt"
	"strings"

	"github.com/gnana997/fibersnap/pkg/style"
)

// maxDestructured caps the props pulled into local variables.
const maxDestructured = 5

// BodyInput is everything the component body needs.
type BodyInput struct {
	Name string
	// PropsType is the props type name; empty for JavaScript output.
	PropsType string
	// PropKeys are candidate keys for destructuring, in prop order.
	PropKeys []string
	// StateInits holds one initializer per state hook, in hook order.
	// Function components only.
	StateInits []string
	// ClassState is the initial state literal for class components.
	ClassState string
	JSX        string
	Class      bool
	Comments   bool
	// DocLines are extra lines for the doc comment.
	DocLines []string
	// Reserved are module-scope names the file declares, such as imports.
	// Props with these names are not destructured.
	Reserved []string
}

// bodyNames are bindings the generated file may reference from inside the
// component body.
var bodyNames = []string{"props", "React", "useState", "styles", "styled", HandlerName}

// bodyShape holds the pieces that differ between function and class output.
// Everything else is shared.
type bodyShape struct {
	open        string
	propsSource string
	// memberIndent is the indent of top-level statements and members.
	memberIndent string
	handlerDecl  string
	ctor         []string
	renderOpen   string
	renderClose  string
}

func newBodyShape(in BodyInput) bodyShape {
	param := "props"
	eventParam := "event"
	if in.PropsType != "" {
		param = "props: " + in.PropsType
		eventParam = "event?: unknown"
	}
	if !in.Class {
		return bodyShape{
			open:         fmt.Sprintf("function %s(%s) {", in.Name, param),
			propsSource:  "props",
			memberIndent: indentUnit,
			handlerDecl:  fmt.Sprintf("const %s = (%s) => {", HandlerName, eventParam),
		}
	}

	base := "React.Component"
	if in.PropsType != "" {
		base += "<" + in.PropsType + ", Record<string, unknown>>"
	}
	state := in.ClassState
	if state == "" {
		state = "{}"
	}
	return bodyShape{
		open:         fmt.Sprintf("class %s extends %s {", in.Name, base),
		propsSource:  "this.props",
		memberIndent: indentUnit,
		handlerDecl:  fmt.Sprintf("%s = (%s) => {", HandlerName, eventParam),
		ctor:         []string{
			fmt.Sprintf("constructor(%s) {", param),
			indentUnit + "super(props);",
			indentUnit + "this.state = " + state + ";",
			"}",
		},
		renderOpen:  "render() {",
		renderClose: "}",
	}
}

// ComponentBody renders the component declaration and its default export.
func ComponentBody(in BodyInput) string {
	sh := newBodyShape(in)
	var b strings.Builder

	if in.Comments {
		b.WriteString("/**\n")
		fmt.Fprintf(&b, " * %s component.\n", in.Name)
		for _, l := range in.DocLines {
			if l == "" {
				b.WriteString(" *\n")
				continue
			}
			b.WriteString(" * " + l + "\n")
		}
		b.WriteString(" */\n")
	}
	b.WriteString(sh.open + "\n")

	var setup []string
	if keys := destructurable(in.PropKeys, takenNames(in)); len(keys) > 0 {
		setup = append(setup, fmt.Sprintf("const { %s } = %s;", strings.Join(keys, ", "), sh.propsSource))
	}
	if !in.Class {
		for i, init := range in.StateInits {
			value, setter := stateNames(i)
			setup = append(setup, fmt.Sprintf("const [%s, %s] = useState(%s);", value, setter, init))
		}
	}

	handler := []string{
		sh.handlerDecl,
		indentUnit + "console.log('event', event);",
		"};",
	}
	ret := returnBlock(in.JSX)

	var sections [][]string
	if in.Class {
		render := []string{sh.renderOpen}
		for _, l := range setup {
			render = append(render, indentUnit+l)
		}
		if len(setup) > 0 {
			render = append(render, "")
		}
		for _, l := range ret {
			render = append(render, indentUnit+l)
		}
		render = append(render, sh.renderClose)
		sections = [][]string{sh.ctor, handler, render}
	} else {
		if len(setup) > 0 {
			sections = append(sections, setup)
		}
		sections = append(sections, handler, ret)
	}

	for i, sec := range sections {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, l := range sec {
			if l == "" {
				b.WriteByte('\n')
				continue
			}
			b.WriteString(sh.memberIndent + l + "\n")
		}
	}
	b.WriteString("}\n\n")
	fmt.Fprintf(&b, "export default %s;\n", in.Name)
	return b.String()
}

// returnBlock wraps markup in a return statement.
func returnBlock(jsx string) []string {
	if jsx == "" || jsx == "null" {
		return []string{"return null;"}
	}
	lines := []string{"return ("}
	for _, l := range strings.Split(jsx, "\n") {
		if l == "" {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, indentUnit+l)
	}
	return append(lines, ");")
}

// takenNames collects the names a destructured prop must not shadow or
// redeclare.
func takenNames(in BodyInput) map[string]bool {
	taken := map[string]bool{in.Name: true, style.StyledName(in.Name): true}
	for _, n := range bodyNames {
		taken[n] = true
	}
	for _, n := range in.Reserved {
		taken[n] = true
	}
	if !in.Class {
		for i := range in.StateInits {
			value, setter := stateNames(i)
			taken[value], taken[setter] = true, true
		}
	}
	return taken
}

// destructurable keeps the first keys that can be bound as locals without
// colliding with taken.
func destructurable(keys []string, taken map[string]bool) []string {
	var out []string
	for _, k := range keys {
		if len(out) == maxDestructured {
			break
		}
		if isInternalProp(k) || !isBindable(k) || taken[k] {
			continue
		}
		out = append(out, k)
	}
	return out
}

// stateNames returns the binding names for the i-th state hook.
func stateNames(i int) (string, string) {
	if i == 0 {
		return "state", "setState"
	}
	return fmt.Sprintf("state%d", i+1), fmt.Sprintf("setState%d", i+1)
}
