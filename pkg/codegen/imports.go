package codegen

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/gnana997/fibersnap/pkg/style"
)

// ImportGroup orders import declarations by origin.
type ImportGroup int

const (
	GroupCore ImportGroup = iota
	GroupThirdParty
	GroupLocal
	GroupStylesheet
)

// CoreModule is the framework module every component imports.
const CoreModule = "react"

// HookModules maps hook names to their declaring module.
var HookModules = map[string]string{
	"useState":    CoreModule,
	"useEffect":   CoreModule,
	"useMemo":     CoreModule,
	"useCallback": CoreModule,
	"useRef":      CoreModule,
	"useContext":  CoreModule,
	"useReducer":  CoreModule,
}

// Library is a third-party UI library recognized by its component names.
type Library struct {
	Module     string
	Components []string
}

// KnownLibraries are checked in order; a tag is attributed to the first
// library listing it.
var KnownLibraries = []Library{
	{Module: "@mui/material", Components: []string{
		"Typography", "TextField", "AppBar", "Toolbar", "IconButton",
		"CardContent", "CardActions", "Paper", "Snackbar", "Drawer",
		"Avatar", "Chip", "Dialog", "DialogTitle", "DialogContent", "Tooltip",
	}},
	{Module: "antd", Components: []string{
		"Button", "Form", "Input", "Table", "Select", "Modal",
		"DatePicker", "Space", "Layout", "Menu", "Dropdown", "Tabs",
	}},
	{Module: "@chakra-ui/react", Components: []string{
		"Box", "Flex", "Stack", "HStack", "VStack", "Center",
		"Heading", "Text", "SimpleGrid", "Container", "Spacer",
	}},
}

var jsxTagPattern = regexp.MustCompile(`<([A-Z][A-Za-z0-9_]*)(?:\.[A-Za-z0-9_.]+)?[\s/>]`)

// Import is one import declaration.
type Import struct {
	Module  string
	Default string
	Named   []string
	// TypeOnly renders "import type".
	TypeOnly bool
	Group    ImportGroup
}

// Render renders the declaration. An import with no bindings is a side
// effect import.
func (imp Import) Render() string {
	var bindings []string
	if imp.Default != "" {
		bindings = append(bindings, imp.Default)
	}
	if len(imp.Named) > 0 {
		bindings = append(bindings, "{ "+strings.Join(imp.Named, ", ")+" }")
	}
	kw := "import "
	if imp.TypeOnly {
		kw = "import type "
	}
	if len(bindings) == 0 {
		return fmt.Sprintf("import '%s';", imp.Module)
	}
	return fmt.Sprintf("%s%s from '%s';", kw, strings.Join(bindings, ", "), imp.Module)
}

// ImportSet collects imports, merging declarations that share a module.
type ImportSet struct {
	order []string
	byKey map[string]*Import
}

// NewImportSet returns an empty set.
func NewImportSet() *ImportSet {
	return &ImportSet{byKey: make(map[string]*Import)}
}

// Add merges imp into the set. Named bindings are deduplicated; the first
// default binding wins.
func (s *ImportSet) Add(imp Import) {
	key := imp.Module
	if imp.TypeOnly {
		key = "type:" + key
	}
	cur, ok := s.byKey[key]
	if !ok {
		cp := imp
		cp.Named = nil
		s.byKey[key] = &cp
		s.order = append(s.order, key)
		cur = &cp
	}
	if cur.Default == "" {
		cur.Default = imp.Default
	}
	for _, n := range imp.Named {
		if !contains(cur.Named, n) {
			cur.Named = append(cur.Named, n)
		}
	}
}

// Imports returns the declarations grouped by origin. Within a group the
// insertion order is kept unless sorted is set, in which case modules and
// named bindings are sorted alphabetically.
func (s *ImportSet) Imports(sorted bool) []Import {
	out := make([]Import, 0, len(s.order))
	for _, k := range s.order {
		imp := *s.byKey[k]
		imp.Named = append([]string(nil), imp.Named...)
		if sorted {
			sort.Strings(imp.Named)
		}
		out = append(out, imp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}
		if sorted {
			return out[i].Module < out[j].Module
		}
		return false
	})
	return out
}

// Render renders all declarations with a blank line between groups.
func (s *ImportSet) Render(sorted bool) string {
	var b strings.Builder
	imports := s.Imports(sorted)
	for i, imp := range imports {
		if i > 0 && imports[i-1].Group != imp.Group {
			b.WriteByte('\n')
		}
		b.WriteString(imp.Render())
		b.WriteByte('\n')
	}
	return b.String()
}

// Bindings returns every name the declarations bring into module scope.
func (s *ImportSet) Bindings() []string {
	var out []string
	for _, k := range s.order {
		imp := s.byKey[k]
		if imp.Default != "" {
			out = append(out, imp.Default)
		}
		out = append(out, imp.Named...)
	}
	return out
}

// Len returns the number of declarations.
func (s *ImportSet) Len() int { return len(s.order) }

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// ImportInput is what import synthesis looks at.
type ImportInput struct {
	Component string
	// Hooks are hook names such as useState.
	Hooks []string
	// Markup is the synthesized JSX.
	Markup   string
	Strategy style.Strategy
	// TypesModule, when set, is the local module holding the props type.
	TypesModule string
	TypesName   string
}

// SynthesizeImports assembles the import block for a component file.
func SynthesizeImports(in ImportInput) *ImportSet {
	set := NewImportSet()
	core := Import{Module: CoreModule, Default: "React", Group: GroupCore}
	for _, h := range in.Hooks {
		mod, ok := HookModules[h]
		if !ok {
			continue
		}
		if mod == CoreModule {
			core.Named = append(core.Named, h)
			continue
		}
		set.Add(Import{Module: mod, Named: []string{h}, Group: GroupThirdParty})
	}
	set.Add(core)

	libs, locals := DetectComponents(in.Markup, in.Component)
	for _, lib := range KnownLibraries {
		if names := libs[lib.Module]; len(names) > 0 {
			set.Add(Import{Module: lib.Module, Named: names, Group: GroupThirdParty})
		}
	}
	if in.Strategy == style.StrategyStyledComponents {
		set.Add(Import{Module: "styled-components", Default: "styled", Group: GroupThirdParty})
	}
	for _, name := range locals {
		set.Add(Import{Module: "./" + name, Default: name, Group: GroupLocal})
	}
	if in.TypesModule != "" && in.TypesName != "" {
		set.Add(Import{Module: in.TypesModule, Named: []string{in.TypesName}, TypeOnly: true, Group: GroupLocal})
	}

	switch in.Strategy {
	case style.StrategyCSSModule:
		set.Add(Import{Module: "./" + in.Component + ".module.css", Default: "styles", Group: GroupStylesheet})
	case style.StrategyPlainCSS:
		set.Add(Import{Module: "./" + in.Component + ".css", Group: GroupStylesheet})
	}
	return set
}

// DetectComponents scans markup for capitalized tags. Tags listed by a known
// library are returned per library module; the rest are local components.
// The component itself and its styled wrapper are ignored.
func DetectComponents(markup, self string) (map[string][]string, []string) {
	libs := make(map[string][]string)
	var locals []string
	seen := map[string]bool{self: true, style.StyledName(self): true}
	for _, m := range jsxTagPattern.FindAllStringSubmatch(markup, -1) {
		name := m[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		if mod := libraryFor(name); mod != "" {
			libs[mod] = append(libs[mod], name)
			continue
		}
		if name == "React" {
			continue
		}
		locals = append(locals, name)
	}
	return libs, locals
}

func libraryFor(name string) string {
	for _, lib := range KnownLibraries {
		if contains(lib.Components, name) {
			return lib.Module
		}
	}
	return ""
}
