package codegen

import "fmt"

// Stage names the synthesis step that failed.
type Stage string

const (
	StageJSX       Stage = "jsx"
	StageTypes     Stage = "types"
	StageStyles    Stage = "styles"
	StageImports   Stage = "imports"
	StageComponent Stage = "component"
	StageVerify    Stage = "verify"
)

// SynthesisError reports a failed generation request. No artifacts are
// returned alongside it.
type SynthesisError struct {
	Stage     Stage
	Component string
	Err       error
}

func (e *SynthesisError) Error() string {
	if e.Component == "" {
		return fmt.Sprintf("synthesis failed at %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("synthesis of %s failed at %s: %v", e.Component, e.Stage, e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }
