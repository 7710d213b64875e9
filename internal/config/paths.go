package config

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

type pathKind int

const (
	pathLeaf pathKind = iota
	pathBranch
	pathMap
)

// schemaPaths holds every dotted path the values schema accepts, derived
// from the Config struct tags. Branch entries are interior blocks; map
// entries (annotations) accept arbitrary sub-keys.
var schemaPaths = collectPaths(reflect.TypeOf(Config{}))

func collectPaths(t reflect.Type) map[string]pathKind {
	paths := make(map[string]pathKind)
	addPaths(paths, t, "")
	return paths
}

func addPaths(paths map[string]pathKind, t reflect.Type, prefix string) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name, opts, _ := strings.Cut(field.Tag.Get("mapstructure"), ",")

		// Squashed embeds contribute their fields at the parent level.
		if strings.Contains(opts, "squash") {
			addPaths(paths, field.Type, prefix)
			continue
		}
		if name == "" || name == "-" {
			continue
		}

		path := name
		if prefix != "" {
			path = prefix + "." + name
		}

		switch field.Type.Kind() {
		case reflect.Struct:
			paths[path] = pathBranch
			addPaths(paths, field.Type, path)
		case reflect.Map:
			paths[path] = pathMap
		default:
			paths[path] = pathLeaf
		}
	}
}

// validateOverrides checks a parsed override document against the schema
// before it is merged. An unknown path fails with an error naming it so a
// typoed key can never be silently ignored.
func validateOverrides(overrides map[string]any) error {
	return validateOverrideNode(overrides, "")
}

func validateOverrideNode(node map[string]any, prefix string) error {
	keys := make([]string, 0, len(node))
	for k := range node {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		kind, known := schemaPaths[path]
		if !known {
			return fmt.Errorf("unknown configuration path %q", path)
		}

		child, isMap := node[key].(map[string]any)
		switch kind {
		case pathLeaf:
			if isMap {
				return fmt.Errorf("configuration path %q does not accept nested values", path)
			}
		case pathMap:
			// Arbitrary sub-keys allowed.
		case pathBranch:
			if node[key] == nil {
				continue
			}
			if !isMap {
				return fmt.Errorf("configuration path %q expects a nested block", path)
			}
			if err := validateOverrideNode(child, path); err != nil {
				return err
			}
		}
	}
	return nil
}
