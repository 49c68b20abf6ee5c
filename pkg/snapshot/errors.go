package snapshot

import "errors"

var (
	// ErrNoSelection is returned when a snapshot has no selected element.
	ErrNoSelection = errors.New("snapshot has no selected element")

	// ErrNoTreeNode is returned when the selected element carries no render
	// tree node: the page does not use the runtime, or the element was
	// rendered outside it.
	ErrNoTreeNode = errors.New("selected element is not rendered by a component tree")

	// ErrUnsupportedVersion is returned for snapshot versions this build
	// cannot read.
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")
)
