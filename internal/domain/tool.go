// Package domain defines the tool descriptor and the error taxonomy shared by
// every stage of a hub build.
package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Kind is the declared build type of a tool.
type Kind string

const (
	KindStatic Kind = "static"
	KindNode   Kind = "node"
)

// Known reports whether the builder can handle this kind.
func (k Kind) Known() bool {
	return k == KindStatic || k == KindNode
}

// Tool describes one sub-project published under /<slug>/.
type Tool struct {
	Slug        string   `json:"slug"`
	Repo        string   `json:"repo"`
	Type        Kind     `json:"type"`
	Src         string   `json:"src,omitempty"`
	Build       string   `json:"build,omitempty"`
	OutDir      string   `json:"outDir,omitempty"`
	BasePathEnv string   `json:"basePathEnv,omitempty"`
	Name        string   `json:"name,omitempty"`
	Title       string   `json:"title,omitempty"`
	Exclude     []string `json:"exclude,omitempty"`

	// malformed holds keys that were present with a non-string value.
	malformed map[string]string
}

var stringFields = []string{"slug", "repo", "type", "src", "build", "outDir", "basePathEnv"}

// UnmarshalJSON decodes a descriptor without failing on wrongly-typed
// fields. Those are recorded and surface later from the per-tool checks.
func (t *Tool) UnmarshalJSON(data []byte) error {
	*t = Tool{}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		// Not an object: there is no slug to validate.
		t.markMalformed("slug", "entry is "+jsonKind(data))
		return nil
	}

	targets := map[string]*string{
		"slug":        &t.Slug,
		"repo":        &t.Repo,
		"src":         &t.Src,
		"build":       &t.Build,
		"outDir":      &t.OutDir,
		"basePathEnv": &t.BasePathEnv,
	}

	for _, key := range stringFields {
		msg, ok := raw[key]
		if !ok || string(msg) == "null" {
			continue
		}
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			t.markMalformed(key, jsonKind(msg))
			continue
		}
		if key == "type" {
			t.Type = Kind(s)
			continue
		}
		*targets[key] = s
	}

	t.Name = displayText(raw["name"])
	t.Title = displayText(raw["title"])

	if msg, ok := raw["exclude"]; ok && string(msg) != "null" {
		if err := json.Unmarshal(msg, &t.Exclude); err != nil {
			t.Exclude = nil
			t.markMalformed("exclude", jsonKind(msg))
		}
	}
	return nil
}

// displayText reads a label field. Labels only affect the hub page, so a
// scalar of another type is shown as its JSON text and falsy values (0,
// false) count as absent. Arrays and objects are ignored.
func displayText(msg json.RawMessage) string {
	var v any
	if len(msg) == 0 || json.Unmarshal(msg, &v) != nil {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case float64:
		if x == 0 {
			return ""
		}
		return strings.TrimSpace(string(msg))
	case bool:
		if x {
			return "true"
		}
	}
	return ""
}

func (t *Tool) markMalformed(key, kind string) {
	if t.malformed == nil {
		t.malformed = make(map[string]string)
	}
	t.malformed[key] = kind
}

// Malformed returns the keys that held a value of the wrong JSON type,
// sorted, mapped to the type that was found.
func (t Tool) Malformed() []string {
	keys := make([]string, 0, len(t.malformed))
	for k := range t.malformed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, fmt.Sprintf("%s (%s)", k, t.malformed[k]))
	}
	return out
}

// IsMalformed reports whether key was present with the wrong JSON type.
func (t Tool) IsMalformed(key string) bool {
	_, ok := t.malformed[key]
	return ok
}

// Label is the display text used on the hub page.
func (t Tool) Label() string {
	if t.Name != "" {
		return t.Name
	}
	if t.Title != "" {
		return t.Title
	}
	return t.Slug
}

// BasePath is the URL prefix the tool is served under.
func (t Tool) BasePath() string {
	return "/" + t.Slug + "/"
}

// SourceDir returns the static source subpath, defaulting to the repo root.
func (t Tool) SourceDir() string {
	if t.Src == "" {
		return "."
	}
	return t.Src
}

// CheckRequired verifies the fields every tool needs before it is fetched.
func (t Tool) CheckRequired() error {
	if t.Repo == "" || t.Type == "" || t.IsMalformed("repo") || t.IsMalformed("type") {
		return NewConfigError(t.Slug, "tool entry missing repo/type")
	}
	return nil
}

// CheckBuildable performs the static per-kind checks the builder would
// otherwise only hit after a clone.
func (t Tool) CheckBuildable() error {
	var bad []string
	for key, kind := range t.malformed {
		if key == "slug" || key == "repo" || key == "type" {
			continue
		}
		bad = append(bad, fmt.Sprintf("%s (%s)", key, kind))
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return NewConfigError(t.Slug, "fields must be strings: "+strings.Join(bad, ", "))
	}

	if !t.Type.Known() {
		return NewUnknownTypeError(t.Slug, string(t.Type))
	}
	if t.Type == KindNode && (t.Build == "" || t.OutDir == "") {
		return NewBuildConfigError(t.Slug, "node tool requires build and outDir")
	}
	return nil
}

func jsonKind(msg json.RawMessage) string {
	var v any
	if err := json.Unmarshal(msg, &v); err != nil {
		return "invalid"
	}
	switch v.(type) {
	case bool:
		return "boolean"
	case float64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case string:
		return "string"
	default:
		return "null"
	}
}
