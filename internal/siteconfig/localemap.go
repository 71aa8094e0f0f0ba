package siteconfig

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// LocaleMap is the locales table in declaration order. It encodes as a YAML
// mapping or JSON object keyed by prefix, so output keeps the input's shape.
type LocaleMap []Locale

// Get returns the locale registered under prefix.
func (m LocaleMap) Get(prefix string) (LocaleInfo, bool) {
	for _, l := range m {
		if l.Prefix == prefix {
			return l.LocaleInfo, true
		}
	}
	return LocaleInfo{}, false
}

func (m LocaleMap) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, l := range m {
		var v yaml.Node
		if err := v.Encode(l.LocaleInfo); err != nil {
			return nil, err
		}
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: l.Prefix}, &v)
	}
	return n, nil
}

func (m *LocaleMap) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("locales: expected a mapping, got %s", kindName(n))
	}
	out := make(LocaleMap, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		var info LocaleInfo
		if err := n.Content[i+1].Decode(&info); err != nil {
			return err
		}
		out = append(out, Locale{Prefix: n.Content[i].Value, LocaleInfo: info})
	}
	*m = out
	return nil
}

func (m LocaleMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, l := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(l.Prefix)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(l.LocaleInfo)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (m *LocaleMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok != json.Delim('{') {
		return fmt.Errorf("locales: expected an object")
	}
	out := LocaleMap{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		prefix, _ := tok.(string)
		var info LocaleInfo
		if err := dec.Decode(&info); err != nil {
			return err
		}
		out = append(out, Locale{Prefix: prefix, LocaleInfo: info})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*m = out
	return nil
}
