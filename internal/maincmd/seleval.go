package maincmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mna/mainer"
	"github.com/stefanreuther/c2ng-sub044/internal/selection"
)

// Seleval evaluates a compiled selection expression (as produced by
// Selcompile) against a set of layer bit-lists supplied on the command
// line, and prints the marked ids of the target layer (layer 0) after
// evaluation.
//
// Usage: seleval <limit> <compiled> [<kind><layer>=<id>,<id>,...]...
// kind is "s" (ships) or "p" (planets), layer is a letter A-H. Example:
//
//	seleval 64 "AB!&" sA=1,2,3 sB=2,3
func (c *Cmd) Seleval(ctx context.Context, stdio mainer.Stdio, args []string) error {
	if len(args) < 2 {
		return printError(stdio, fmt.Errorf("seleval: expected a limit, a compiled program, and layer specs"))
	}

	limit, err := strconv.Atoi(args[0])
	if err != nil {
		return printError(stdio, fmt.Errorf("seleval: invalid limit %q: %w", args[0], err))
	}
	compiled := []byte(args[1])

	s := selection.NewSelections()
	for _, spec := range args[2:] {
		if err := applyLayerSpec(s, spec); err != nil {
			return printError(stdio, err)
		}
	}

	if err := s.ExecuteCompiledExpression(compiled, 0, limit, limit); err != nil {
		return printError(stdio, err)
	}

	printMarked(stdio, "ships", s.Get(selection.Ship, 0), limit)
	printMarked(stdio, "planets", s.Get(selection.Planet, 0), limit)
	return nil
}

func applyLayerSpec(s *selection.Selections, spec string) error {
	head, idsPart, ok := strings.Cut(spec, "=")
	if !ok || len(head) != 2 {
		return fmt.Errorf("seleval: invalid layer spec %q, expected e.g. sA=1,2,3", spec)
	}

	var kind selection.Kind
	switch head[0] {
	case 's':
		kind = selection.Ship
	case 'p':
		kind = selection.Planet
	default:
		return fmt.Errorf("seleval: layer spec %q must start with s or p", spec)
	}

	layerLetter := head[1]
	if layerLetter < 'A' || layerLetter >= 'A'+selection.NumLayers {
		return fmt.Errorf("seleval: layer spec %q names an invalid layer", spec)
	}
	layer := int(layerLetter - 'A')

	v := s.Get(kind, layer)
	if idsPart == "" {
		return nil
	}
	for _, tok := range strings.Split(idsPart, ",") {
		id, err := strconv.Atoi(tok)
		if err != nil {
			return fmt.Errorf("seleval: invalid id %q in spec %q: %w", tok, spec, err)
		}
		v.Set(id, true)
	}
	return nil
}

func printMarked(stdio mainer.Stdio, label string, v *selection.Vector, limit int) {
	var ids []string
	for id := 0; id <= limit; id++ {
		if v.Get(id) {
			ids = append(ids, strconv.Itoa(id))
		}
	}
	fmt.Fprintf(stdio.Stdout, "%s: %s\n", label, strings.Join(ids, ","))
}
