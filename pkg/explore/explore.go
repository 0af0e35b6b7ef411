// Package explore prints the shape of an unfamiliar JSON document: keys,
// value types, and a bounded sample of list elements. It exists because the
// schedule API's feed layout is deep and undocumented, and eyeballing raw
// JSON for it is miserable.
package explore

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/klrn-data/schedcheck/pkg/errors"
)

// Options bound how much of the document is walked.
type Options struct {
	// MaxLevel is the number of nesting levels to descend.
	MaxLevel int

	// MaxItems is the number of elements shown per list.
	MaxItems int
}

// DefaultOptions mirror the depth at which schedule feeds become legible.
func DefaultOptions() Options {
	return Options{MaxLevel: 4, MaxItems: 6}
}

// File loads a JSON file and writes its structure to w.
func File(w io.Writer, path string, opts Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.WrapIO("read", path, err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return errors.WrapParse("json", path, err)
	}

	fmt.Fprintf(w, "Exploring JSON file: %s\n\n", path)
	JSON(w, doc, opts)
	return nil
}

// JSON walks a decoded JSON value, printing scalar values directly and the
// type name for composite values.
func JSON(w io.Writer, doc any, opts Options) {
	walk(w, doc, 0, opts)
}

func walk(w io.Writer, v any, level int, opts Options) {
	if level >= opts.MaxLevel || v == nil {
		return
	}

	switch val := v.(type) {
	case map[string]any:
		for _, key := range sortedKeys(val) {
			child := val[key]
			if scalar(child) {
				fmt.Fprintf(w, "%s%s: %v\n", indent(level), key, child)
			} else {
				fmt.Fprintf(w, "%s%s: %s\n", indent(level), key, typeName(child))
			}
			walk(w, child, level+1, opts)
		}
	case []any:
		elem := "?"
		if len(val) > 0 {
			elem = typeName(val[0])
		}
		fmt.Fprintf(w, "%sList[%d] -> %s\n", indent(level), len(val), elem)
		for i, item := range val {
			if i >= opts.MaxItems {
				break
			}
			fmt.Fprintf(w, "%s[%d]\n", indent(level+1), i)
			walk(w, item, level+1, opts)
		}
	}
}

// scalar reports whether the decoded value prints meaningfully inline.
func scalar(v any) bool {
	switch v.(type) {
	case string, float64, bool, json.Number:
		return true
	default:
		return false
	}
}

// typeName names a decoded JSON value the way a reader thinks of it.
func typeName(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "list"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func indent(level int) string {
	return strings.Repeat("  ", level)
}

// sortedKeys returns map keys in lexical order. Stable output beats map
// order for a tool whose entire job is reading.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
