package point

import (
	"fmt"

	"github.com/valyala/fastjson"
	"gopkg.in/yaml.v3"
)

// UnmarshalJSON decodes a JSON object into p, keeping field order.
// Nested objects decode as *Point, arrays as []any, numbers as float64.
func (p *Point) UnmarshalJSON(data []byte) error {
	var parser fastjson.Parser
	v, err := parser.ParseBytes(data)
	if err != nil {
		return err
	}
	decoded, err := FromJSONValue(v)
	if err != nil {
		return err
	}
	*p = *decoded
	return nil
}

// FromJSONValue converts a parsed JSON object into a point. The result does
// not reference v, so the parser may be reused afterwards.
func FromJSONValue(v *fastjson.Value) (*Point, error) {
	obj, err := v.Object()
	if err != nil {
		return nil, fmt.Errorf("point must be a JSON object, got %s", v.Type())
	}
	p := New()
	obj.Visit(func(key []byte, val *fastjson.Value) {
		p.Set(string(key), jsonValue(val))
	})
	return p, nil
}

func jsonValue(v *fastjson.Value) any {
	switch v.Type() {
	case fastjson.TypeObject:
		p, _ := FromJSONValue(v)
		return p
	case fastjson.TypeArray:
		elems, _ := v.Array()
		out := make([]any, len(elems))
		for i, elem := range elems {
			out[i] = jsonValue(elem)
		}
		return out
	case fastjson.TypeString:
		return string(v.GetStringBytes())
	case fastjson.TypeNumber:
		return v.GetFloat64()
	case fastjson.TypeTrue:
		return true
	case fastjson.TypeFalse:
		return false
	default:
		return nil
	}
}

// UnmarshalYAML decodes a YAML mapping into p, keeping field order.
// Integers and floats decode as float64; timestamps stay strings so that
// NormalizeTime owns their interpretation.
func (p *Point) UnmarshalYAML(node *yaml.Node) error {
	decoded, err := fromYAMLNode(node)
	if err != nil {
		return err
	}
	*p = *decoded
	return nil
}

func fromYAMLNode(node *yaml.Node) (*Point, error) {
	if node.Kind == yaml.AliasNode {
		return fromYAMLNode(node.Alias)
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: point must be a mapping", node.Line)
	}
	p := New()
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		v, err := yamlValue(val)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key.Value, err)
		}
		p.Set(key.Value, v)
	}
	return p, nil
}

func yamlValue(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.AliasNode:
		return yamlValue(node.Alias)
	case yaml.MappingNode:
		return fromYAMLNode(node)
	case yaml.SequenceNode:
		out := make([]any, len(node.Content))
		for i, elem := range node.Content {
			v, err := yamlValue(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = v
		}
		return out, nil
	case yaml.ScalarNode:
		switch node.ShortTag() {
		case "!!null":
			return nil, nil
		case "!!bool":
			var b bool
			err := node.Decode(&b)
			return b, err
		case "!!int", "!!float":
			var f float64
			err := node.Decode(&f)
			return f, err
		default:
			return node.Value, nil
		}
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node", node.Line)
	}
}
