package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/AnatoleLucet/velo/mutable"
	"github.com/spf13/cobra"
)

func dumpCmd() *cobra.Command {
	var (
		sets   []string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "dump [file]",
		Short: "Print a JSON document as a mutable container tree",
		Long: `Read a JSON document from file, or stdin when no file is given,
apply the --set assignments through mutable wrappers and print the
resulting tree with the revision of every container.

A --set path is a dot-separated list of object keys and array
indices, its value is JSON:
  velo dump data.json --set user.name='"bob"' --set items.0='{"id":1}'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			return runDump(in, cmd.OutOrStdout(), sets, asJSON)
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "Assign JSON value at path (path=value), may be repeated")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the resulting document as JSON instead of a tree")

	return cmd
}

func runDump(in io.Reader, out io.Writer, sets []string, asJSON bool) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	raw, err := mutable.Parse(data)
	if err != nil {
		return err
	}

	root := mutable.Wrap(raw, nil)

	notified := 0
	mutable.AddListener(root, mutable.NewListener(func() { notified++ }))

	for _, set := range sets {
		path, value, ok := strings.Cut(set, "=")
		if !ok {
			return fmt.Errorf("invalid --set %q: expected path=value", set)
		}

		if err := assign(root, path, value); err != nil {
			return fmt.Errorf("--set %s: %w", path, err)
		}
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(root)
	}

	fmt.Fprint(out, mutable.Dump(root))
	if len(sets) > 0 {
		fmt.Fprintf(out, "\n%d change notifications\n", notified)
	}

	return nil
}

// assign parses value as JSON and stores it at the dotted path below root.
func assign(root any, path, value string) error {
	v, err := mutable.Parse([]byte(value))
	if err != nil {
		return err
	}

	segments := strings.Split(path, ".")
	cur := root
	for _, seg := range segments[:len(segments)-1] {
		next, err := child(cur, seg)
		if err != nil {
			return err
		}
		cur = next
	}

	last := segments[len(segments)-1]
	switch c := cur.(type) {
	case *mutable.MutableObject:
		c.Set(last, v)
	case *mutable.MutableArray:
		i, err := strconv.Atoi(last)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid index %q", last)
		}
		c.Set(i, v)
	default:
		return fmt.Errorf("cannot assign %q in a %T", last, cur)
	}

	return nil
}

func child(cur any, seg string) (any, error) {
	switch c := cur.(type) {
	case *mutable.MutableObject:
		v, ok := c.Lookup(seg)
		if !ok {
			return nil, fmt.Errorf("no key %q", seg)
		}
		return v, nil
	case *mutable.MutableArray:
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 || i >= c.Len() {
			return nil, fmt.Errorf("invalid index %q", seg)
		}
		return c.At(i), nil
	}

	return nil, fmt.Errorf("cannot index a %T with %q", cur, seg)
}
