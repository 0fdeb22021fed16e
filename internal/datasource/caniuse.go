package datasource

import (
	"encoding/json"
	"sort"
)

// Agent describes one caniuse browser.
type Agent struct {
	Prefix           string            `json:"prefix"`
	PrefixExceptions map[string]string `json:"prefix_exceptions,omitempty"`
	Versions         []*string         `json:"versions,omitempty"`
	VersionList      []struct {
		Version string `json:"version"`
	} `json:"version_list,omitempty"`
}

// PrefixFor returns the vendor prefix the agent uses at version.
func (a Agent) PrefixFor(version string) string {
	if p, ok := a.PrefixExceptions[version]; ok && p != "" {
		return p
	}
	return a.Prefix
}

// latestWindow bounds how far back from the end of the version list the
// current release is searched for.
const latestWindow = 10

// Latest returns the newest released version: the last entry among the final
// ten that is neither null, "all" nor "TP".
func (a Agent) Latest() (string, bool) {
	versions := a.Versions
	if len(versions) == 0 {
		for i := range a.VersionList {
			v := a.VersionList[i].Version
			versions = append(versions, &v)
		}
	}
	start := len(versions) - latestWindow
	if start < 0 {
		start = 0
	}
	for i := len(versions) - 1; i >= start; i-- {
		v := versions[i]
		if v == nil || *v == "all" || *v == "TP" || *v == "" {
			continue
		}
		return *v, true
	}
	return "", false
}

// Feature is a caniuse feature; Stats maps browser → version → support code.
type Feature struct {
	Stats map[string]map[string]string `json:"stats"`
}

// Caniuse is the subset of caniuse data.json used by the generator.
type Caniuse struct {
	Agents map[string]Agent   `json:"agents"`
	Data   map[string]Feature `json:"data"`
}

// ParseCaniuse decodes caniuse data.json.
func ParseCaniuse(b []byte) (*Caniuse, error) {
	var c Caniuse
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, schemaErr("caniuse", "", "decode: %v", err)
	}
	if len(c.Agents) == 0 {
		return nil, schemaErr("caniuse", "agents", "missing or empty")
	}
	if c.Data == nil {
		return nil, schemaErr("caniuse", "data", "missing")
	}
	return &c, nil
}

// AgentIDs lists agent ids in sorted order.
func (c *Caniuse) AgentIDs() []string {
	ids := make([]string, 0, len(c.Agents))
	for id := range c.Agents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LatestVersions maps each agent id to its current release.
func (c *Caniuse) LatestVersions() map[string]string {
	out := make(map[string]string, len(c.Agents))
	for id, a := range c.Agents {
		if v, ok := a.Latest(); ok {
			out[id] = v
		}
	}
	return out
}

// FeatureStats returns the stats of a feature, or a SchemaError when the
// feature or its stats are missing.
func (c *Caniuse) FeatureStats(name string) (map[string]map[string]string, error) {
	f, ok := c.Data[name]
	if !ok {
		return nil, schemaErr("caniuse", "data."+name, "missing feature")
	}
	if f.Stats == nil {
		return nil, schemaErr("caniuse", "data."+name+".stats", "missing")
	}
	return f.Stats, nil
}
