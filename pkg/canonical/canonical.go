// Package canonical pretty-prints ARM templates with a stable key order.
//
// Nested objects have their keys sorted lexically. Top-level keys sort by
// their section name so the usual template sections read $schema,
// contentVersion, parameters, variables, resources, outputs, with any other
// key placed lexically among them.
package canonical

import (
	"bytes"
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/tidwall/jsonc"
)

// DefaultOrder is the top-level section order of an ARM template.
var DefaultOrder = []string{"$schema", "contentVersion", "parameters", "variables", "resources", "outputs"}

// LegacyAliases is the key renaming the older pretty printer applied before
// a plain sorted dump. Top-level keys sort by alias, or by themselves when
// they have none, which yields DefaultOrder for the standard sections.
var LegacyAliases = [][2]string{
	{"parameters", "dparameters"},
	{"variables", "eparameters"},
	{"resources", "fresources"},
	{"outputs", "zoutputs"},
}

// sectionNames maps a top-level key to the name it sorts by.
var sectionNames = func() map[string]string {
	names := make(map[string]string, len(LegacyAliases))
	for _, pair := range LegacyAliases {
		names[pair[0]] = pair[1]
	}
	return names
}()

// Indent is the per-level indentation of rewritten documents.
const Indent = "  "

// Option configures Canonicalize.
type Option func(*options)

type options struct {
	order    []string
	names    map[string]string
	comments bool
}

// WithOrder replaces the section-name policy with an explicit top-level key
// order. Keys not listed follow in lexical order.
func WithOrder(keys ...string) Option {
	return func(o *options) {
		o.order = keys
		o.names = nil
	}
}

// WithComments accepts // and /* */ comments and trailing commas.
func WithComments() Option {
	return func(o *options) {
		o.comments = true
	}
}

func newOptions(opts []Option) *options {
	o := &options{names: sectionNames}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Canonicalize parses text and rewrites it with two-space indentation,
// sorted keys and the top-level order policy. Numbers are kept exactly as
// written and <, > and & are not escaped. The output ends with a newline
// and is a fixed point: canonicalizing it again returns it unchanged.
func Canonicalize(text string, opts ...Option) (string, error) {
	o := newOptions(opts)

	v, err := parse([]byte(text), o)
	if err != nil {
		return "", err
	}
	return render(v, o)
}

// parse decodes exactly one JSON value, keeping numbers as json.Number.
func parse(data []byte, o *options) (any, error) {
	if o.comments {
		data = jsonc.ToJSON(data)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse JSON: unexpected data after top-level value at offset %d", dec.InputOffset())
	}
	return v, nil
}

func render(v any, o *options) (string, error) {
	compact, err := encodeTopLevel(v, o)
	if err != nil {
		return "", err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", Indent); err != nil {
		return "", fmt.Errorf("failed to indent JSON: %w", err)
	}
	out.WriteByte('\n')
	return out.String(), nil
}

// encodeTopLevel writes v compactly. A top-level object gets the policy
// order; everything below it is sorted by encoding/json.
func encodeTopLevel(v any, o *options) ([]byte, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return marshal(v)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range orderKeys(obj, o.order, o.names) {
		if i > 0 {
			buf.WriteByte(',')
		}

		k, err := marshal(key)
		if err != nil {
			return nil, err
		}
		val, err := marshal(obj[key])
		if err != nil {
			return nil, fmt.Errorf("failed to encode %q: %w", key, err)
		}

		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshal encodes v without HTML escaping and without the trailing newline
// json.Encoder adds.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// orderKeys returns the keys of obj with listed keys first, in list order.
// The rest sort by their name in names, or by themselves when absent.
func orderKeys(obj map[string]any, order []string, names map[string]string) []string {
	rank := make(map[string]int, len(order))
	for i, k := range order {
		if _, seen := rank[k]; !seen {
			rank[k] = i
		}
	}
	sortName := func(k string) string {
		if name, ok := names[k]; ok {
			return name
		}
		return k
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}

	slices.SortFunc(keys, func(a, b string) int {
		ra, aListed := rank[a]
		rb, bListed := rank[b]
		switch {
		case aListed && bListed:
			return cmp.Compare(ra, rb)
		case aListed:
			return -1
		case bListed:
			return 1
		default:
			return cmp.Or(strings.Compare(sortName(a), sortName(b)), strings.Compare(a, b))
		}
	})
	return keys
}
