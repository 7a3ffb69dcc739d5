package fsm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadConfig decodes a YAML or JSON configuration document of the form
//
//	initial: off
//	states:
//	  off: {transitions: {toggle: on}}
//	  on:  {transitions: {toggle: off}}
//
// States and events keep their document order. A missing initial state is not
// a decoding error; New reports it.
func LoadConfig(data []byte) (*Config, error) {
	cfg := NewConfig("")
	if err := decode(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
// The document is read token by token into a yaml.Node tree, so that key order
// survives and the same rules apply as for YAML documents.
func (c *Config) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	node, err := jsonNode(dec, data)
	if err != nil {
		return &ErrConfig{Msg: err.Error()}
	}

	if _, err := dec.Token(); err != io.EOF {
		return &ErrConfig{Msg: "unexpected data after the document"}
	}

	return c.UnmarshalYAML(node)
}

// jsonNode reads one JSON value from dec. data is the decoder's input and
// only serves to report line and column.
func jsonNode(dec *json.Decoder, data []byte) (*yaml.Node, error) {
	line, column := position(data, dec.InputOffset())

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	node := &yaml.Node{Line: line, Column: column}

	switch v := tok.(type) {
	case json.Delim:
		node.Kind = yaml.MappingNode
		if v == '[' {
			node.Kind = yaml.SequenceNode
		}

		for dec.More() {
			child, err := jsonNode(dec, data)
			if err != nil {
				return nil, err
			}

			node.Content = append(node.Content, child)
		}

		// closing delimiter
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
	case string:
		node.Kind, node.Tag, node.Value = yaml.ScalarNode, "!!str", v
	case json.Number:
		node.Kind, node.Tag, node.Value = yaml.ScalarNode, "!!int", v.String()
		if strings.ContainsAny(node.Value, ".eE") {
			node.Tag = "!!float"
		}
	case bool:
		node.Kind, node.Tag, node.Value = yaml.ScalarNode, "!!bool", strconv.FormatBool(v)
	case nil:
		node.Kind, node.Tag, node.Value = yaml.ScalarNode, "!!null", "null"
	}

	return node, nil
}

// position turns the decoder offset before a token into a 1-based line and column,
// skipping the separators between the previous token and the next one.
func position(data []byte, offset int64) (int, int) {
	i := min(int(offset), len(data))
	for i < len(data) && strings.IndexByte(" \t\r\n,:", data[i]) >= 0 {
		i++
	}

	line := 1 + bytes.Count(data[:i], []byte{'\n'})
	column := i - bytes.LastIndexByte(data[:i], '\n')

	return line, column
}

func decode(data []byte, c *Config) error {
	err := yaml.Unmarshal(data, c)
	if err == nil {
		return nil
	}

	var cfgErr *ErrConfig
	if errors.As(err, &cfgErr) {
		return err
	}

	return &ErrConfig{Msg: err.Error()}
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	decoded := NewConfig("")
	node = deref(node)

	if isNull(node) {
		*c = *decoded
		return nil
	}

	if node.Kind != yaml.MappingNode {
		return configError(node, "document must be a mapping")
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], deref(node.Content[i+1])

		switch key.Value {
		case "initial":
			if isNull(value) {
				continue
			}

			id, err := identifier(value, "initial state")
			if err != nil {
				return err
			}

			decoded.initial = State(id)
		case "states":
			if err := decoded.decodeStates(value); err != nil {
				return err
			}
		}
	}

	*c = *decoded

	return nil
}

func (c *Config) decodeStates(node *yaml.Node) error {
	if isNull(node) {
		return nil
	}

	if node.Kind != yaml.MappingNode {
		return configError(node, "states must be a mapping")
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], deref(node.Content[i+1])

		id, err := identifier(key, "state name")
		if err != nil {
			return err
		}

		state := State(id)
		if c.Has(state) {
			return configError(key, fmt.Sprintf("state %q is defined more than once", state))
		}

		if err := c.declare(state).decode(value); err != nil {
			return err
		}
	}

	return nil
}

func (d *StateDef) decode(node *yaml.Node) error {
	if isNull(node) {
		return nil
	}

	if node.Kind != yaml.MappingNode {
		return configError(node, "state definition must be a mapping")
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != "transitions" {
			continue
		}

		transitions := deref(node.Content[i+1])
		if isNull(transitions) {
			continue
		}

		if transitions.Kind != yaml.MappingNode {
			return configError(transitions, "transitions must be a mapping")
		}

		for j := 0; j+1 < len(transitions.Content); j += 2 {
			key, value := transitions.Content[j], deref(transitions.Content[j+1])

			event, err := identifier(key, "event name")
			if err != nil {
				return err
			}

			if d.Has(Event(event)) {
				return configError(key, fmt.Sprintf("event %q is defined more than once", event))
			}

			target, err := identifier(value, "target state")
			if err != nil {
				return err
			}

			d.set(Event(event), State(target))
		}
	}

	return nil
}

// MarshalYAML implements the yaml.Marshaler interface, keeping declaration order.
func (c *Config) MarshalYAML() (any, error) {
	states := &yaml.Node{Kind: yaml.MappingNode}

	for _, id := range c.order {
		def := c.states[id]

		transitions := &yaml.Node{Kind: yaml.MappingNode}
		for _, event := range def.events {
			transitions.Content = append(transitions.Content,
				scalar(string(event)),
				scalar(string(def.targets[event])),
			)
		}

		states.Content = append(states.Content,
			scalar(string(id)),
			&yaml.Node{
				Kind:    yaml.MappingNode,
				Content: []*yaml.Node{scalar("transitions"), transitions},
			},
		)
	}

	doc := &yaml.Node{Kind: yaml.MappingNode}

	// An empty initial is left out so that the document loads back as a missing one.
	if c.initial != "" {
		doc.Content = append(doc.Content, scalar("initial"), scalar(string(c.initial)))
	}

	doc.Content = append(doc.Content, scalar("states"), states)

	return doc, nil
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func isNull(node *yaml.Node) bool {
	return node == nil || (node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null")
}

// deref follows YAML aliases to the anchored node.
func deref(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode {
		node = node.Alias
	}

	return node
}

// identifier returns the text of a scalar node. Non-string scalars such as
// numbers or booleans are taken verbatim, so `on:` names the state "on".
func identifier(node *yaml.Node, what string) (string, error) {
	if isNull(node) || node.Kind != yaml.ScalarNode {
		return "", configError(node, what+" must be a scalar")
	}

	if node.Value == "" {
		return "", configError(node, what+" must not be empty")
	}

	return node.Value, nil
}

func configError(node *yaml.Node, msg string) error {
	if node == nil {
		return &ErrConfig{Msg: msg}
	}

	return &ErrConfig{Line: node.Line, Column: node.Column, Msg: msg}
}
