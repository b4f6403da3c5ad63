// Package lazyschedule evaluates the lazy meta-directives left behind
// once every layer has been folded eagerly. It builds a dependency
// graph over the settings that still carry a deferred directive,
// topologically sorts it with Kahn's algorithm, and re-enters the
// eager evaluator one setting at a time in that order.
package lazyschedule

import (
	"fmt"
	"sort"
	"strings"

	"github.com/flowcfg/flowcfg/pkg/cfgerr"
	"github.com/flowcfg/flowcfg/pkg/cfgval"
	"github.com/flowcfg/flowcfg/pkg/directive"
	"github.com/flowcfg/flowcfg/pkg/eval"
)

const (
	metaSuffix = "_meta"
	lazyPrefix = "lazy"
)

type pending struct {
	setting   string
	baseName  string
	value     any
	deps      []string
}

// Run evaluates every remaining lazy directive in w, returning the fully
// resolved mapping. w is not mutated; the returned map is a new value.
func Run(w map[string]any) (map[string]any, error) {
	out := cfgval.CloneShallow(w)

	items := make(map[string]*pending)
	for k, v := range out {
		if !strings.HasSuffix(k, metaSuffix) || k == metaSuffix {
			continue
		}
		setting := strings.TrimSuffix(k, metaSuffix)
		name, ok := v.(string)
		if !ok {
			continue
		}
		if !strings.HasPrefix(name, lazyPrefix) {
			continue
		}
		base := strings.TrimPrefix(name, lazyPrefix)
		spec, ok := directive.Lookup(base)
		if !ok {
			return nil, cfgerr.New(cfgerr.KindInvalidDirective, setting, name, fmt.Errorf("unknown lazy directive base %q on %q", base, setting))
		}
		val := out[setting]
		items[setting] = &pending{
			setting:  setting,
			baseName: base,
			value:    val,
			deps:     spec.Deps(setting, val),
		}
	}

	if len(items) == 0 {
		eval.StripReserved(out)
		return out, nil
	}

	for s, p := range items {
		delete(out, s)
		delete(out, s+metaSuffix)
		_ = p
	}

	order, err := topoSort(items)
	if err != nil {
		return nil, err
	}

	for _, setting := range order {
		p := items[setting]
		provider := map[string]any{
			setting:             p.value,
			setting + metaSuffix: p.baseName,
		}
		folded, err := eval.Fold(out, provider, nil)
		if err != nil {
			return nil, err
		}
		out = folded
	}

	eval.StripReserved(out)
	return out, nil
}

// topoSort runs Kahn's algorithm over the lazy-setting dependency graph,
// breaking ties among ready nodes alphabetically for determinism.
func topoSort(items map[string]*pending) ([]string, error) {
	inDegree := make(map[string]int, len(items))
	edges := make(map[string][]string)
	for s := range items {
		inDegree[s] = 0
	}
	for s, p := range items {
		for _, dep := range p.deps {
			if dep == s {
				continue
			}
			if _, isLazy := items[dep]; !isLazy {
				continue
			}
			edges[dep] = append(edges[dep], s)
			inDegree[s]++
		}
	}

	ready := make([]string, 0)
	for s, deg := range inDegree {
		if deg == 0 {
			ready = append(ready, s)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(items))
	for len(ready) > 0 {
		next := ready[0]
		ready = ready[1:]
		order = append(order, next)

		newlyReady := make([]string, 0)
		for _, dependent := range edges[next] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				newlyReady = append(newlyReady, dependent)
			}
		}
		sort.Strings(newlyReady)
		ready = append(ready, newlyReady...)
		sort.Strings(ready)
	}

	if len(order) != len(items) {
		remaining := make([]string, 0)
		for s := range items {
			found := false
			for _, done := range order {
				if done == s {
					found = true
					break
				}
			}
			if !found {
				remaining = append(remaining, s)
			}
		}
		sort.Strings(remaining)
		return nil, cfgerr.New(cfgerr.KindLazyCycle, strings.Join(remaining, ","), "",
			fmt.Errorf("lazy dependency cycle among: %s", strings.Join(remaining, ", ")))
	}

	return order, nil
}
