package generator

import (
	"github.com/gnana997/fibersnap/pkg/extract"
	"github.com/gnana997/fibersnap/pkg/fiber"
	"github.com/gnana997/fibersnap/pkg/snapshot"
	"github.com/gnana997/fibersnap/pkg/style"
)

// assetDepth bounds the element walk when collecting assets.
const assetDepth = 10

// Inspection summarizes what a snapshot would generate.
type Inspection struct {
	URL            string                   `json:"url,omitempty"`
	Runtime        fiber.RuntimeInfo        `json:"runtime"`
	RuntimeVersion string                   `json:"runtime_version,omitempty"`
	SelectedTag    string                   `json:"selected_tag"`
	Component      string                   `json:"component"`
	Kind           fiber.Kind               `json:"kind"`
	Path           []string                 `json:"path"`
	Props          *fiber.Object            `json:"props"`
	Hooks          []extract.HookDescriptor `json:"hooks,omitempty"`
	Classes        []string                 `json:"classes,omitempty"`
	Strategy       style.Strategy           `json:"strategy"`
	Assets         style.Assets             `json:"assets"`
	Source         *fiber.SourceLocation    `json:"source,omitempty"`
	Owner          string                   `json:"owner,omitempty"`
	Children       int                      `json:"children"`
}

// InspectFile inspects the snapshot at path.
func (g *Generator) InspectFile(path string) (*Inspection, error) {
	snap, err := g.store.Get(path)
	if err != nil {
		return nil, err
	}
	return g.Inspect(snap)
}

// Inspect describes the target node of snap without generating code.
func (g *Generator) Inspect(snap *snapshot.Snapshot) (*Inspection, error) {
	node, err := g.TargetNode(snap)
	if err != nil {
		return nil, err
	}
	desc := extract.Build(node, extract.DefaultBuildOptions())

	in := &Inspection{
		URL:       snap.Header.URL,
		Runtime:   snap.Runtime(),
		Component: desc.Name,
		Kind:      desc.Kind,
		Path:      desc.Path,
		Props:     desc.Props,
		Hooks:     desc.Hooks,
		Classes:   desc.Styles.Classes,
		Strategy:  desc.Styles.Strategy,
		Source:    desc.Source,
		Owner:     desc.Owner,
		Children:  len(desc.Children),
	}
	if snap.Header.Runtime.DevtoolsHook {
		in.RuntimeVersion = snap.Header.Runtime.Version
	}
	if el := snap.Selected(); el != nil {
		in.SelectedTag = el.TagName()
	}
	if desc.DOMAnchor != nil {
		in.Assets = style.CollectAssets(desc.DOMAnchor, assetDepth)
	}
	return in, nil
}
