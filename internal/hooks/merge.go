// ABOUTME: Merges independently loaded hook layers into one ordered EventHookMap
// ABOUTME: Layer order is preserved per event: earlier layers always precede later ones

package hooks

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Merge concatenates, per event, each layer's definitions in layer order.
// Inputs are not modified; the result owns fresh slices.
func Merge(layers ...EventHookMap) EventHookMap {
	out := EventHookMap{}
	for _, layer := range layers {
		for event, defs := range layer {
			if len(defs) == 0 {
				continue
			}
			merged := make([]HookDefinition, 0, len(out[event])+len(defs))
			merged = append(merged, out[event]...)
			merged = append(merged, defs...)
			out[event] = merged
		}
	}
	return out
}

// LoadLayers loads every layer directory concurrently and merges them in
// the order given (lowest priority first).
func LoadLayers(ctx context.Context, dirs ...string) (EventHookMap, error) {
	layers := make([]EventHookMap, len(dirs))

	g, gCtx := errgroup.WithContext(ctx)
	for i, dir := range dirs {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			layers[i] = LoadDir(dir)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Merge(layers...), nil
}
