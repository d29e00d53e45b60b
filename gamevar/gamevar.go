// Package gamevar holds the hierarchical named-value tree used to author
// scene configuration such as idle behaviors.
package gamevar

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Type int

const (
	TypeTree Type = iota
	TypeInt
	TypeString
)

func (t Type) String() string {
	switch t {
	case TypeTree:
		return "Type(Tree)"
	case TypeInt:
		return "Type(Int)"
	case TypeString:
		return "Type(String)"
	}
	return "Type(UNKNOWN)"
}

var ErrNotMapping = errors.New("gamevar: expected a mapping")

// GameVar is one named node. Leaves carry an int or a string; inner nodes
// carry ordered sub-vars.
type GameVar struct {
	Name string
	Type Type
	Int  int
	Str  string

	subs []*GameVar
}

func NewInt(name string, v int) *GameVar {
	return &GameVar{Name: name, Type: TypeInt, Int: v}
}

func NewString(name, v string) *GameVar {
	return &GameVar{Name: name, Type: TypeString, Str: v}
}

func NewTree(name string, subs ...*GameVar) *GameVar {
	return &GameVar{Name: name, Type: TypeTree, subs: subs}
}

func (v *GameVar) AddSubVar(sub *GameVar) { v.subs = append(v.subs, sub) }

func (v *GameVar) SubVarsCount() int { return len(v.subs) }

func (v *GameVar) SubVarByIndex(i int) *GameVar {
	if i < 0 || i >= len(v.subs) {
		return nil
	}
	return v.subs[i]
}

func (v *GameVar) SubVarByName(name string) *GameVar {
	for _, sub := range v.subs {
		if sub.Name == name {
			return sub
		}
	}
	return nil
}

func (v *GameVar) SubVars() []*GameVar { return v.subs }

// SubVarAsInt returns the int value of the named sub-var, or 0.
func (v *GameVar) SubVarAsInt(name string) int {
	if sub := v.SubVarByName(name); sub != nil && sub.Type == TypeInt {
		return sub.Int
	}
	return 0
}

// SubVarAsString returns the string value of the named sub-var, or "".
func (v *GameVar) SubVarAsString(name string) string {
	if sub := v.SubVarByName(name); sub != nil && sub.Type == TypeString {
		return sub.Str
	}
	return ""
}

// SetSubVarAsInt overwrites or creates an int sub-var.
func (v *GameVar) SetSubVarAsInt(name string, value int) {
	if sub := v.SubVarByName(name); sub != nil {
		sub.Type = TypeInt
		sub.Int = value
		return
	}
	v.AddSubVar(NewInt(name, value))
}

// UnmarshalYAML builds the tree from a mapping, keeping key order. Integer
// scalars become int vars, other scalars string vars.
func (v *GameVar) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w at line %d", ErrNotMapping, node.Line)
	}
	v.Type = TypeTree
	v.subs = nil
	for i := 0; i+1 < len(node.Content); i += 2 {
		sub, err := decode(node.Content[i].Value, node.Content[i+1])
		if err != nil {
			return err
		}
		v.subs = append(v.subs, sub)
	}
	return nil
}

func decode(name string, node *yaml.Node) (*GameVar, error) {
	switch node.Kind {
	case yaml.MappingNode:
		sub := &GameVar{Name: name}
		if err := sub.UnmarshalYAML(node); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return sub, nil
	case yaml.ScalarNode:
		if node.Tag == "!!int" {
			n, err := strconv.ParseInt(node.Value, 0, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			return NewInt(name, int(n)), nil
		}
		return NewString(name, node.Value), nil
	}
	return nil, fmt.Errorf("%s: unsupported node at line %d", name, node.Line)
}

// Parse decodes a YAML document into an unnamed root var.
func Parse(data []byte) (*GameVar, error) {
	root := &GameVar{}
	if err := yaml.Unmarshal(data, root); err != nil {
		return nil, fmt.Errorf("failed to parse game vars: %w", err)
	}
	return root, nil
}

func Load(path string) (*GameVar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read game vars: %w", err)
	}
	return Parse(data)
}
