package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// renderPrefix starts every key built by [DefaultKeyer].
const renderPrefix = "render:"

// Keyer builds cache keys.
type Keyer interface {
	// RenderKey returns the key of one rendered artifact of a scenario.
	RenderKey(scenarioHash string, opts RenderKeyOpts) string
}

// RenderKeyOpts lists everything besides the scenario that changes the
// rendered bytes.
type RenderKeyOpts struct {
	View      string `json:"view"`
	Format    string `json:"format"`
	Highlight string `json:"highlight,omitempty"`
}

// DefaultKeyer builds readable keys of the form
//
//	render:<view>:<format>:<sha256 of scenario hash and highlight>
//
// View and format stay in clear text so backends can group, count and clear
// artifacts per view without decoding entries.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// RenderKey implements Keyer.
func (DefaultKeyer) RenderKey(scenarioHash string, opts RenderKeyOpts) string {
	view, format := keyPart(opts.View), keyPart(opts.Format)
	return renderPrefix + view + ":" + format + ":" + digest(scenarioHash, opts.Highlight)
}

// keyPart keeps ':' out of the clear-text key segments.
func keyPart(s string) string {
	if s == "" {
		return "_"
	}
	return strings.ReplaceAll(s, ":", "_")
}

// RenderKeyInfo is the clear-text part of a render key.
type RenderKeyInfo struct {
	View   string
	Format string
	Digest string
}

// ParseRenderKey splits a key built by [DefaultKeyer], with or without a
// [ScopedKeyer] prefix. It reports false for any other key.
func ParseRenderKey(key string) (RenderKeyInfo, bool) {
	i := strings.LastIndex(key, renderPrefix)
	if i < 0 {
		return RenderKeyInfo{}, false
	}
	parts := strings.Split(key[i+len(renderPrefix):], ":")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || len(parts[2]) != sha256.Size*2 {
		return RenderKeyInfo{}, false
	}
	return RenderKeyInfo{View: parts[0], Format: parts[1], Digest: parts[2]}, true
}

// digest hashes the JSON encoding of parts into 64 hex characters.
func digest(parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
