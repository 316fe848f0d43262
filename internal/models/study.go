package models

import (
	json "github.com/goccy/go-json"
)

// GraphSpec is either a full graph display spec or the "no graph" marker.
type GraphSpec interface {
	isGraph()
}

type Graph struct {
	Display   bool   `json:"display"`
	Variable  string `json:"variable"`
	Title     string `json:"title"`
	Blurb     string `json:"blurb"`
	Type      string `json:"type"`
	MaxPoints int    `json:"max_points"`
}

type NoGraph struct {
	Display bool `json:"display"`
}

func (*Graph) isGraph()   {}
func (*NoGraph) isGraph() {}

func decodeGraph(raw json.RawMessage) (GraphSpec, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, err
	}
	if _, ok := probe["variable"]; ok {
		g := &Graph{}
		if err := json.Unmarshal(raw, g); err != nil {
			return nil, err
		}
		return g, nil
	}
	g := &NoGraph{}
	if err := json.Unmarshal(raw, g); err != nil {
		return nil, err
	}
	return g, nil
}

type Module struct {
	Type        string
	ID          string
	Name        string
	Condition   string
	Alerts      Alert
	Graph       GraphSpec
	UnlockAfter []string
	Params      Params
}

type moduleJSON struct {
	Type        string          `json:"_type"`
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Condition   string          `json:"condition"`
	Alerts      json.RawMessage `json:"alerts"`
	Graph       json.RawMessage `json:"graph"`
	UnlockAfter []string        `json:"unlock_after"`
	Params      json.RawMessage `json:"params"`
}

func (m *Module) UnmarshalJSON(b []byte) error {
	var in moduleJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	if in.ID == "" {
		return validationErr("modules", "module id is required")
	}

	var alerts Alert
	if len(in.Alerts) == 0 {
		return validationErr("modules."+in.ID, "alerts is required")
	}
	if err := json.Unmarshal(in.Alerts, &alerts); err != nil {
		return err
	}

	if len(in.Graph) == 0 {
		return validationErr("modules."+in.ID, "graph is required")
	}
	graph, err := decodeGraph(in.Graph)
	if err != nil {
		return err
	}

	if len(in.Params) == 0 {
		return validationErr("modules."+in.ID, "params is required")
	}
	params, err := decodeParams(in.Params)
	if err != nil {
		return err
	}

	unlockAfter := in.UnlockAfter
	if unlockAfter == nil {
		unlockAfter = []string{}
	}

	*m = Module{
		Type:        in.Type,
		ID:          in.ID,
		Name:        in.Name,
		Condition:   in.Condition,
		Alerts:      alerts,
		Graph:       graph,
		UnlockAfter: unlockAfter,
		Params:      params,
	}
	return nil
}

func (m Module) MarshalJSON() ([]byte, error) {
	alerts, err := json.Marshal(m.Alerts)
	if err != nil {
		return nil, err
	}
	graph, err := json.Marshal(m.Graph)
	if err != nil {
		return nil, err
	}
	params, err := encodeParams(m.Params)
	if err != nil {
		return nil, err
	}

	unlockAfter := m.UnlockAfter
	if unlockAfter == nil {
		unlockAfter = []string{}
	}

	return json.Marshal(moduleJSON{
		Type:        m.Type,
		ID:          m.ID,
		Name:        m.Name,
		Condition:   m.Condition,
		Alerts:      alerts,
		Graph:       graph,
		UnlockAfter: unlockAfter,
		Params:      params,
	})
}

type Properties struct {
	Type                string   `json:"_type"`
	StudyName           string   `json:"study_name"`
	StudyID             string   `json:"study_id"`
	CreatedBy           string   `json:"created_by"`
	Instructions        string   `json:"instructions"`
	PostURL             string   `json:"post_url"`
	EmptyMsg            string   `json:"empty_msg"`
	BannerURL           string   `json:"banner_url"`
	SupportURL          string   `json:"support_url"`
	SupportEmail        string   `json:"support_email"`
	Cache               bool     `json:"cache"`
	Ethics              string   `json:"ethics"`
	PLS                 string   `json:"pls"`
	Conditions          []string `json:"conditions"`
	RedcapServerAPIURL  *string  `json:"redcap_server_api_url,omitempty"`
}

// Study is one immutable timestamped snapshot of a study definition.
// Multiple snapshots may share a study_id; the latest is the one with the
// highest timestamp.
type Study struct {
	ID         string     `json:"_id,omitempty"`
	Type       string     `json:"_type"`
	Timestamp  int64      `json:"timestamp,omitempty"`
	Properties Properties `json:"properties"`
	Modules    []Module   `json:"modules"`
}

// ParseStudy validates an inbound study document into the study tree.
// This is schema-on-write: unknown union tags and broken invariants are
// rejected here, not at read time.
func ParseStudy(b []byte) (*Study, error) {
	var study Study
	if err := json.Unmarshal(b, &study); err != nil {
		return nil, err
	}
	if study.Type != "study" {
		return nil, validationErr("_type", "expected 'study', got '"+study.Type+"'")
	}
	if study.Properties.StudyID == "" {
		return nil, validationErr("properties.study_id", "study_id is required")
	}

	seen := make(map[string]struct{}, len(study.Modules))
	for _, module := range study.Modules {
		if _, dup := seen[module.ID]; dup {
			return nil, validationErr("modules."+module.ID, "duplicate module id")
		}
		seen[module.ID] = struct{}{}
	}
	return &study, nil
}

// ToDoc converts any model to its stored document shape.
func ToDoc(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
