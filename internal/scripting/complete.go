package scripting

import (
	"sort"
	"strings"

	"github.com/dop251/goja"
)

// Namespace is a reflective property bag: named children that are either
// leaf values or further namespaces. The global object of the evaluator is
// the usual traversal root.
type Namespace interface {
	// Names enumerates the object's property names, including
	// non-enumerable and inherited members. Order is unspecified.
	Names() []string
	// Child resolves a named child as a namespace. ok is false when the
	// child does not exist or is a leaf value.
	Child(name string) (ns Namespace, ok bool)
}

// Complete resolves a dotted path prefix against root and returns the leaf
// names completing its final segment, sorted ascending. All segments before
// the last must match a child exactly; the last is prefix-matched
// (case-sensitive). A miss on any intermediate segment yields an empty
// result. The sort is mandatory: enumeration order is unspecified.
func Complete(root Namespace, path string) []string {
	if root == nil {
		return nil
	}
	segments := strings.Split(path, ".")
	current := root
	for _, seg := range segments[:len(segments)-1] {
		next, ok := current.Child(seg)
		if !ok {
			return nil
		}
		current = next
	}

	partial := segments[len(segments)-1]
	var candidates []string
	for _, name := range current.Names() {
		if strings.HasPrefix(name, partial) {
			candidates = append(candidates, name)
		}
	}
	sort.Strings(candidates)
	return candidates
}

// gojaNamespace adapts a goja object to Namespace using the runtime's own
// Object.getOwnPropertyNames, so hidden (non-enumerable) members complete
// like everything else.
type gojaNamespace struct {
	vm     *goja.Runtime
	obj    *goja.Object
	getOwn goja.Callable
}

// NamespaceFromObject wraps a goja object for completion. Returns nil when
// obj is nil.
func NamespaceFromObject(vm *goja.Runtime, obj *goja.Object) Namespace {
	if obj == nil {
		return nil
	}
	var getOwn goja.Callable
	if objectCtor := vm.GlobalObject().Get("Object"); objectCtor != nil {
		if ctorObj := objectCtor.ToObject(vm); ctorObj != nil {
			getOwn, _ = goja.AssertFunction(ctorObj.Get("getOwnPropertyNames"))
		}
	}
	return &gojaNamespace{vm: vm, obj: obj, getOwn: getOwn}
}

// Names implements Namespace. Own property names are collected along the
// whole prototype chain, so inherited members complete like everything else.
func (n *gojaNamespace) Names() []string {
	if n.getOwn == nil {
		// Enumerable keys only, if the reflective path is unavailable.
		return n.obj.Keys()
	}
	seen := make(map[string]struct{})
	var names []string
	for obj := n.obj; obj != nil; obj = obj.Prototype() {
		res, err := n.getOwn(goja.Undefined(), obj)
		if err != nil {
			break
		}
		var own []string
		if err := n.vm.ExportTo(res, &own); err != nil {
			break
		}
		for _, name := range own {
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				names = append(names, name)
			}
		}
	}
	if names == nil {
		return n.obj.Keys()
	}
	return names
}

// Child implements Namespace.
func (n *gojaNamespace) Child(name string) (Namespace, bool) {
	val := n.obj.Get(name)
	if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
		return nil, false
	}
	child, ok := val.(*goja.Object)
	if !ok {
		return nil, false
	}
	return &gojaNamespace{vm: n.vm, obj: child, getOwn: n.getOwn}, true
}
