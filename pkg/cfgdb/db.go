// Package cfgdb holds the seven-layer configuration database: an
// ordered stack of precedence layers, each a list of flattened
// provider dictionaries, resolved on demand into a single flat
// mapping and cached until the next mutation.
package cfgdb

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/flowcfg/flowcfg/pkg/cfgerr"
	"github.com/flowcfg/flowcfg/pkg/cfgval"
	"github.com/flowcfg/flowcfg/pkg/eval"
	"github.com/flowcfg/flowcfg/pkg/lazyschedule"
)

// layerName indexes the seven precedence classes, in strictly
// increasing precedence order.
type layerName int

const (
	layerBuiltins layerName = iota
	layerCore
	layerTools
	layerTechnology
	layerEnvironment
	layerProject
	layerRuntime
	layerCount
)

// DB is a layered configuration database. The zero value is not
// usable; construct with New.
type DB struct {
	mu      sync.Mutex
	layers  [layerCount][]map[string]any
	dirty   bool
	cached  map[string]any
	cacheErr error
	group   singleflight.Group
}

// New returns an empty database: every layer starts empty and the
// runtime layer starts as a single empty dictionary.
func New() *DB {
	db := &DB{dirty: true}
	db.layers[layerRuntime] = []map[string]any{{}}
	return db
}

func (db *DB) replaceLayer(name layerName, list []map[string]any) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.layers[name] = list
	db.dirty = true
}

// UpdateBuiltins replaces the builtins layer wholesale.
func (db *DB) UpdateBuiltins(list []map[string]any) { db.replaceLayer(layerBuiltins, list) }

// UpdateCore replaces the core layer wholesale.
func (db *DB) UpdateCore(list []map[string]any) { db.replaceLayer(layerCore, list) }

// UpdateTools replaces the tools layer wholesale.
func (db *DB) UpdateTools(list []map[string]any) { db.replaceLayer(layerTools, list) }

// UpdateTechnology replaces the technology layer wholesale.
func (db *DB) UpdateTechnology(list []map[string]any) { db.replaceLayer(layerTechnology, list) }

// UpdateEnvironment replaces the environment layer wholesale.
func (db *DB) UpdateEnvironment(list []map[string]any) { db.replaceLayer(layerEnvironment, list) }

// UpdateProject replaces the project layer wholesale.
func (db *DB) UpdateProject(list []map[string]any) { db.replaceLayer(layerProject, list) }

// SetSetting writes key directly into the single-entry runtime layer.
func (db *DB) SetSetting(key string, value any) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if len(db.layers[layerRuntime]) == 0 {
		db.layers[layerRuntime] = []map[string]any{{}}
	}
	db.layers[layerRuntime][0][key] = value
	db.dirty = true
}

// GetSetting resolves key. If key is absent, it returns a missing-key
// error. If the resolved value is nil and nullSentinel is provided, the
// sentinel is returned instead of nil.
func (db *DB) GetSetting(key string, nullSentinel ...any) (any, error) {
	resolved, err := db.resolved()
	if err != nil {
		return nil, err
	}
	v, ok := resolved[key]
	if !ok {
		return nil, cfgerr.New(cfgerr.KindMissingKey, key, "", fmt.Errorf("setting %q is not present", key))
	}
	if v == nil && len(nullSentinel) > 0 {
		return nullSentinel[0], nil
	}
	return v, nil
}

// HasSetting reports whether key is present after resolution.
func (db *DB) HasSetting(key string) (bool, error) {
	resolved, err := db.resolved()
	if err != nil {
		return false, err
	}
	_, ok := resolved[key]
	return ok, nil
}

// DumpJSON renders the resolved mapping as stable, sorted, four-space
// indented JSON.
func (db *DB) DumpJSON() (string, error) {
	resolved, err := db.resolved()
	if err != nil {
		return "", err
	}
	keys := make([]string, 0, len(resolved))
	for k := range resolved {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ordered := make(orderedMap, len(keys))
	for i, k := range keys {
		ordered[i] = kv{k, resolved[k]}
	}
	b, err := json.MarshalIndent(ordered, "", "    ")
	if err != nil {
		return "", cfgerr.New(cfgerr.KindIO, "", "", fmt.Errorf("marshal resolved config: %w", err))
	}
	return string(b), nil
}

type kv struct {
	Key   string
	Value any
}

type orderedMap []kv

func (o orderedMap) MarshalJSON() ([]byte, error) {
	var buf []byte
	buf = append(buf, '{')
	for i, pair := range o {
		if i > 0 {
			buf = append(buf, ',', ' ')
		}
		keyJSON, err := json.Marshal(pair.Key)
		if err != nil {
			return nil, err
		}
		valJSON, err := json.Marshal(pair.Value)
		if err != nil {
			return nil, err
		}
		buf = append(buf, keyJSON...)
		buf = append(buf, ':', ' ')
		buf = append(buf, valJSON...)
	}
	buf = append(buf, '}')
	return buf, nil
}

// resolved returns the cached resolved mapping, rebuilding it first if
// the cache is dirty. Concurrent callers observing the same dirty
// generation share a single rebuild via singleflight.
func (db *DB) resolved() (map[string]any, error) {
	db.mu.Lock()
	if !db.dirty {
		cached, cacheErr := db.cached, db.cacheErr
		db.mu.Unlock()
		return cfgval.CloneShallow(cached), cacheErr
	}
	snapshot := db.snapshotLocked()
	db.mu.Unlock()

	v, err, _ := db.group.Do("resolve", func() (any, error) {
		return resolveLayers(snapshot)
	})

	db.mu.Lock()
	defer db.mu.Unlock()
	if err != nil {
		db.cached = nil
		db.cacheErr = err
		db.dirty = false
		return nil, err
	}
	resolved := v.(map[string]any)
	db.cached = resolved
	db.cacheErr = nil
	db.dirty = false
	return cfgval.CloneShallow(resolved), nil
}

// snapshotLocked copies every layer's provider list. Must be called
// with db.mu held.
func (db *DB) snapshotLocked() [layerCount][]map[string]any {
	var out [layerCount][]map[string]any
	for i := range db.layers {
		out[i] = append([]map[string]any(nil), db.layers[i]...)
	}
	return out
}

// resolveLayers folds every provider across all seven layers in
// precedence order through the eager evaluator, then runs the lazy
// scheduler, and finally strips reserved keys.
func resolveLayers(layers [layerCount][]map[string]any) (map[string]any, error) {
	w := map[string]any{}
	for _, layerProviders := range layers {
		for _, provider := range layerProviders {
			folded, err := eval.Fold(w, provider, nil)
			if err != nil {
				return nil, err
			}
			w = folded
		}
	}
	return lazyschedule.Run(w)
}
