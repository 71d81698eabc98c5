package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/domain"
)

// printViewport renders activations as indented lines on a writer. When a
// committed instruction declares child viewports, it registers print
// viewports for them on the owning child router, the same way a real UI
// component would attach its slots after rendering.
type printViewport struct {
	out    io.Writer
	router *espalier.Router
	name   string
	depth  int
}

func (v *printViewport) Activate(ctx context.Context, ins *domain.Instruction) error {
	indent := strings.Repeat("  ", v.depth)
	if ins == nil {
		fmt.Fprintf(v.out, "%s%s: (empty)\n", indent, v.name)
		return nil
	}

	fmt.Fprintf(v.out, "%s%s: %s%s\n", indent, v.name, ins.Component, formatParams(ins.Params))

	child := v.router.ChildRouter(ins.Component)
	for slot := range ins.Viewports {
		if err := child.RegisterViewport(ctx, &printViewport{
			out:    v.out,
			router: child,
			name:   slot,
			depth:  v.depth + 1,
		}, slot); err != nil {
			return err
		}
	}
	return nil
}

func formatParams(params map[string]string) string {
	if len(params) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(params))
	for k, v := range params {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return " (" + strings.Join(pairs, " ") + ")"
}

// identityLoader satisfies ports.ComponentLoader for CLI runs, where no
// real component artifacts exist.
type identityLoader struct{}

func (identityLoader) Init(_ context.Context, ins *domain.Instruction) (any, error) {
	return ins.Component, nil
}

func (identityLoader) Load(_ context.Context, ins *domain.Instruction) (any, error) {
	return ins.Component, nil
}
