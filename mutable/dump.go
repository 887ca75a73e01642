package mutable

import (
	"fmt"

	"github.com/m1gwings/treedrawer/tree"
)

// Dump renders a container tree with the revision of every container,
// using the default factory's tracker.
func Dump(v any) string {
	return defaultFactory.Dump(v)
}

// Dump renders a container tree with the revision of every container.
// Wrappers are rendered through their raw container.
func (f *Factory) Dump(v any) string {
	root := tree.NewTree(tree.NodeString(f.label("", unwrap(v))))
	f.dumpChildren(root, unwrap(v))

	return root.String()
}

func (f *Factory) dumpChildren(t *tree.Tree, v any) {
	switch raw := v.(type) {
	case *Object:
		for k, child := range raw.All() {
			f.dumpChildren(t.AddChild(tree.NodeString(f.label(k, child))), child)
		}
	case *Array:
		for i, child := range raw.All() {
			f.dumpChildren(t.AddChild(tree.NodeString(f.label(fmt.Sprint(i), child))), child)
		}
	}
}

func (f *Factory) label(key string, v any) string {
	prefix := ""
	if key != "" {
		prefix = key + ": "
	}

	switch v.(type) {
	case *Object:
		return fmt.Sprintf("%s{} @%d", prefix, f.revisions.Revision(v).Rev)
	case *Array:
		return fmt.Sprintf("%s[] @%d", prefix, f.revisions.Revision(v).Rev)
	}

	return fmt.Sprintf("%s%v", prefix, v)
}
