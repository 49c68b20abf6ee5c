package extract

import "github.com/gnana997/fibersnap/pkg/fiber"

// HookKind classifies one hook record.
type HookKind string

const (
	HookState    HookKind = "state"
	HookEffect   HookKind = "effect"
	HookMemo     HookKind = "memo"
	HookCallback HookKind = "callback"
	HookRef      HookKind = "ref"
	HookContext  HookKind = "context"
	HookUnknown  HookKind = "unknown"
)

// HookName returns the conventional hook function name for a kind, or "".
func (k HookKind) HookName() string {
	switch k {
	case HookState:
		return "useState"
	case HookEffect:
		return "useEffect"
	case HookMemo:
		return "useMemo"
	case HookCallback:
		return "useCallback"
	case HookRef:
		return "useRef"
	case HookContext:
		return "useContext"
	}
	return ""
}

// HookDescriptor is one classified hook. Order in a slice mirrors call order.
type HookDescriptor struct {
	Kind  HookKind    `json:"kind"`
	Value fiber.Value `json:"value"`
}

// MaxHooks caps the hook list walk.
const MaxHooks = 100

// memoMarkerKey identifies memoized payloads.
const memoMarkerKey = "_source"

var effectKeys = []string{"create", "destroy", "deps"}

// ExtractHooks walks a function component's hook list and classifies each
// record. Non-function nodes yield nil. The walk stops after MaxHooks records
// or when a record is revisited.
func ExtractHooks(n *fiber.Node) []HookDescriptor {
	if fiber.Classify(n) != fiber.KindFunction {
		return nil
	}
	var hooks []HookDescriptor
	seen := make(map[*fiber.Object]bool)
	cur, _ := fiber.AsObject(n.MemoizedState)
	for cur != nil && len(hooks) < MaxHooks && !seen[cur] {
		seen[cur] = true
		kind := ClassifyHook(cur)
		hooks = append(hooks, HookDescriptor{Kind: kind, Value: hookValue(kind, cur)})
		cur, _ = fiber.AsObject(cur.Lookup("next"))
	}
	return hooks
}

// ClassifyHook classifies one hook record by its shape. The checks run in a
// fixed order and the first match wins:
//
//  1. a queue with a dispatch function: state
//  2. payload object with create, destroy or deps: effect
//  3. payload object with the memo marker key: memo
//  4. payload is a function: callback
//  5. payload object with current: ref
//  6. any other payload object on a record without a queue: context
//  7. otherwise: unknown
//
// A memoized function value therefore classifies as callback unless it is
// wrapped in an object carrying the memo marker.
func ClassifyHook(record *fiber.Object) HookKind {
	if record == nil {
		return HookUnknown
	}
	queue, hasQueue := fiber.AsObject(record.Lookup("queue"))
	if hasQueue {
		if _, ok := queue.Lookup("dispatch").(fiber.Function); ok {
			return HookState
		}
	}
	payload := record.Lookup("memoizedState")
	obj, isObj := fiber.AsObject(payload)
	if isObj {
		for _, k := range effectKeys {
			if obj.Has(k) {
				return HookEffect
			}
		}
		if obj.Has(memoMarkerKey) {
			return HookMemo
		}
	}
	if _, ok := payload.(fiber.Function); ok {
		return HookCallback
	}
	if isObj && obj.Has("current") {
		return HookRef
	}
	if isObj && !hasQueue {
		return HookContext
	}
	return HookUnknown
}

// hookValue sanitizes a record's payload according to its kind.
func hookValue(kind HookKind, record *fiber.Object) fiber.Value {
	payload := record.Lookup("memoizedState")
	switch kind {
	case HookEffect:
		obj, _ := fiber.AsObject(payload)
		summary := fiber.NewObject()
		summary.Set("hasCreate", fiber.Bool(isFunction(obj.Lookup("create"))))
		summary.Set("hasCleanup", fiber.Bool(isFunction(obj.Lookup("destroy"))))
		deps := obj.Lookup("deps")
		summary.Set("hasDeps", fiber.Bool(!fiber.IsNullish(deps)))
		if arr, ok := deps.(*fiber.Array); ok && arr != nil {
			summary.Set("depCount", fiber.Number(len(arr.Items)))
		}
		return summary
	case HookRef:
		obj, _ := fiber.AsObject(payload)
		ref := fiber.NewObject()
		cur, err := obj.Get("current")
		if err != nil {
			ref.Set("current", fiber.String(ErrorPlaceholder(err)))
		} else {
			ref.Set("current", Sanitize(cur))
		}
		return ref
	case HookCallback:
		f, _ := payload.(fiber.Function)
		return fiber.String(FunctionPlaceholder(f.Name))
	case HookMemo:
		if obj, ok := fiber.AsObject(payload); ok {
			return SanitizeObject(obj, memoMarkerKey)
		}
	}
	return Sanitize(payload)
}

func isFunction(v fiber.Value) bool {
	_, ok := v.(fiber.Function)
	return ok
}
