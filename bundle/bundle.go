// Package bundle exposes the bundler's single entry point, wiring the
// parser, classifier, dependency analyser, optional transform, dead-code
// eliminator, module sorter, and emitter into one pipeline (core spec §6).
package bundle

import (
	"fmt"
	"time"

	"github.com/weavelang/bundle/bmodule"
	"github.com/weavelang/bundle/bundlemetrics"
	"github.com/weavelang/bundle/depgraph"
	"github.com/weavelang/bundle/emit"
	"github.com/weavelang/bundle/jsast"
	"github.com/weavelang/bundle/modsort"
	"github.com/weavelang/bundle/transform"
)

// Input is one module's identity and source text.
type Input struct {
	ID     bmodule.ID
	Source string
}

// Options configures one Bundle call.
type Options struct {
	EntryPoints []bmodule.ID
	MainModule  string // module name; empty means no main() call is emitted
	Namespace   string // defaults to "$PS" if empty
	BundlerName string // defaults to "weavebundle" if empty
	Version     string // defaults to "dev" if empty

	// RequirePathPrefix is stripped from require() literals before
	// resolution; empty means the core spec's default "../".
	RequirePathPrefix string

	// Optimize selects the optional transform + re-DCE pass. One of
	// "", "uncurry", "u", "all", "a".
	Optimize string
}

// UnsupportedModulePathErr is for callers that apply strict require-path
// resolution themselves; nothing in this package raises it. Bundle never
// returns it, instead falling back to an Unresolved require (core spec §7).
type UnsupportedModulePathErr struct {
	Path string
}

func (e *UnsupportedModulePathErr) Error() string {
	return fmt.Sprintf("unsupported module path: %s", e.Path)
}

func wantsUncurry(optimize string) bool {
	switch optimize {
	case "uncurry", "u", "all", "a":
		return true
	}
	return false
}

// Bundle runs the full pipeline over inputs and returns the emitted
// program, or the first error encountered. Errors are not recovered: the
// first one aborts the pipeline (core spec §7).
func Bundle(inputs []Input, opts Options) (string, error) {
	start := time.Now()
	defer func() { bundlemetrics.BundleDuration.Observe(time.Since(start).Seconds()) }()

	known := knownModuleNames(inputs)

	modules, err := parseAndClassify(inputs, opts, known)
	if err != nil {
		bundlemetrics.ClassifyErrorsTotal.Inc()
		return "", err
	}

	modules = depgraph.WithDeps(modules)
	before := totalMembers(modules)

	vertices, edges := depgraph.Stats(modules)
	bundlemetrics.GraphVerticesTotal.Set(float64(vertices))
	bundlemetrics.GraphEdgesTotal.Set(float64(edges))

	modules = depgraph.Eliminate(modules, opts.EntryPoints)

	if wantsUncurry(opts.Optimize) {
		modules = transform.Uncurry(modules, opts.EntryPoints)
		modules = depgraph.WithDeps(modules)
		modules = depgraph.Eliminate(modules, opts.EntryPoints)
	}

	bundlemetrics.MembersEliminatedTotal.Add(float64(before - totalMembers(modules)))

	sorted := modsort.Sort(modules)
	bundlemetrics.ModulesEmittedTotal.Set(float64(len(sorted)))

	return emit.Emit(sorted, emit.Options{
		BundlerName: orDefault(opts.BundlerName, "weavebundle"),
		Version:     orDefault(opts.Version, "dev"),
		Namespace:   opts.Namespace,
		MainModule:  opts.MainModule,
	}), nil
}

func totalMembers(modules []*bmodule.Module) int {
	n := 0
	for _, m := range modules {
		n += len(m.Members())
	}
	return n
}

func parseAndClassify(inputs []Input, opts Options, known map[string]bool) ([]*bmodule.Module, error) {
	p := jsast.New()
	classifyOpts := bmodule.ClassifyOptions{
		RequirePathPrefix: opts.RequirePathPrefix,
		KnownModules:      known,
	}

	modules := make([]*bmodule.Module, 0, len(inputs))
	for _, in := range inputs {
		parseStart := time.Now()
		tree, err := p.Parse([]byte(in.Source))
		bundlemetrics.ParseDuration.WithLabelValues(in.ID.Name).Observe(time.Since(parseStart).Seconds())
		if err != nil {
			return nil, bmodule.Wrap(in.ID, err)
		}
		m, err := bmodule.ToModule(in.ID, tree.Root, tree.Source, classifyOpts)
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	return modules, nil
}

func knownModuleNames(inputs []Input) map[string]bool {
	known := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		if in.ID.Type == bmodule.Regular {
			known[in.ID.Name] = true
		}
	}
	return known
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
