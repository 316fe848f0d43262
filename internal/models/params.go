package models

import (
	json "github.com/goccy/go-json"
)

type Section struct {
	Type      string     `json:"_type"`
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Shuffle   bool       `json:"shuffle"`
	Questions []Question `json:"questions"`
}

func (s *Section) UnmarshalJSON(b []byte) error {
	var in struct {
		Type      string            `json:"_type"`
		ID        string            `json:"id"`
		Name      string            `json:"name"`
		Shuffle   bool              `json:"shuffle"`
		Questions []json.RawMessage `json:"questions"`
	}
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}

	questions := make([]Question, 0, len(in.Questions))
	for _, raw := range in.Questions {
		q, err := decodeQuestion(raw)
		if err != nil {
			return err
		}
		questions = append(questions, q)
	}

	*s = Section{
		Type:      in.Type,
		ID:        in.ID,
		Name:      in.Name,
		Shuffle:   in.Shuffle,
		Questions: questions,
	}
	return nil
}

// Params is the module payload union, discriminated by the "type" tag:
// a survey (sections of questions) or a reaction-time task.
type Params interface {
	ParamsID() string
}

type Survey struct {
	Type       string    `json:"type"`
	SubmitText string    `json:"submit_text"`
	ID         string    `json:"id"`
	Sections   []Section `json:"sections"`
	Shuffle    bool      `json:"shuffle"`
}

func (s *Survey) ParamsID() string { return s.ID }

type Pvt struct {
	Type        string `json:"type"`
	ID          string `json:"id"`
	Trials      int    `json:"trials"`
	MinWaiting  int    `json:"min_waiting"`
	MaxWaiting  int    `json:"max_waiting"`
	MaxReaction int    `json:"max_reaction"`
	Show        bool   `json:"show"`
	Exit        bool   `json:"exit"`
}

func (p *Pvt) ParamsID() string { return p.ID }

func decodeParams(raw json.RawMessage) (Params, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, err
	}

	var p Params
	switch probe.Type {
	case "survey":
		p = &Survey{}
	case "pvt":
		p = &Pvt{}
	default:
		return nil, validationErr("params", "unknown params type '"+probe.Type+"'")
	}

	if err := json.Unmarshal(raw, p); err != nil {
		return nil, err
	}
	return p, nil
}

// encodeParams serializes the concrete variant and re-attaches the legacy
// "_type":"params" tag the document shape requires.
func encodeParams(p Params) (json.RawMessage, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	if _, ok := m["_type"]; !ok {
		m["_type"] = "params"
	}
	return json.Marshal(m)
}
