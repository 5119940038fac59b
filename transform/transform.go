// Package transform defines the bundler's optional module-rewrite hook
// (core spec §4.5) and a concrete transform that exercises it.
package transform

import "github.com/weavelang/bundle/bmodule"

// ModuleTransform rewrites a module list before a second dead-code pass.
// It must not alter ModuleIdentifiers or invent new modules; dependencies
// are recomputed after it runs, so it need not maintain Deps itself.
type ModuleTransform func(modules []*bmodule.Module, entryPoints []bmodule.ID) []*bmodule.Module
