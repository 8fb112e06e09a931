package graphmodel

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/zclconf/go-cty/cty"

	"github.com/Jerry-Shen0527/rznode/internal/nodekind"
	"github.com/Jerry-Shen0527/rznode/internal/typed"
)

// socketDoc is the wire shape of one socket under a nodeDoc's inputs/outputs
// map, per spec §6.
type socketDoc struct {
	ID        SocketId `json:"ID"`
	TypeName  string   `json:"type_name,omitempty"`
	UIName    string   `json:"ui_name"`
	Direction string   `json:"direction"`
	Optional  bool     `json:"optional"`
	Value     any      `json:"value,omitempty"`
}

type syncGroupDoc struct {
	NodeID    NodeId `json:"node_id"`
	Direction string `json:"direction"`
	Name      string `json:"name"`
}

type socketGroupDoc struct {
	SynchronizedGroups []syncGroupDoc `json:"synchronized_groups,omitempty"`
}

type nodeDoc struct {
	Type         string                    `json:"type"`
	Inputs       map[string]socketDoc      `json:"inputs"`
	Outputs      map[string]socketDoc      `json:"outputs"`
	SocketGroups map[string]socketGroupDoc `json:"socket_groups,omitempty"`
}

type linkDoc struct {
	ID           LinkId   `json:"ID"`
	FromSocketID SocketId `json:"from_socket_id"`
	ToSocketID   SocketId `json:"to_socket_id"`
}

type treeDoc struct {
	Nodes      map[NodeId]nodeDoc `json:"nodes"`
	Links      []linkDoc          `json:"links"`
	UISettings string             `json:"ui_settings,omitempty"`
}

// checkTypeName validates a deserialized socket's recorded type_name against
// the type the kind's current Declare callback actually assigned to it, per
// spec §6's "unknown type_name ... fails deserialization with a descriptive
// error." A document written against an older Declare (a renamed or removed
// type) must not silently deserialize under the new one.
func checkTypeName(sd socketDoc, s *NodeSocket) error {
	if sd.TypeName == "" {
		return nil
	}
	if !s.HasType() {
		return fmt.Errorf("graphmodel: socket %q declares type_name %q but has no type", s.Identifier, sd.TypeName)
	}
	if s.Type.Name() != sd.TypeName {
		return fmt.Errorf("graphmodel: socket %q has unknown type_name %q, kind now declares %q", s.Identifier, sd.TypeName, s.Type.Name())
	}
	return nil
}

func directionName(d nodekind.Direction) string {
	if d == nodekind.Input {
		return "input"
	}
	return "output"
}

// Serialize emits the graph as the JSON document described in spec §6.
// Only user-visible nodes are emitted; invisible auto-inserted conversion
// nodes are reconstructed by Deserialize when it replays AddLink.
func (t *NodeTree) Serialize() ([]byte, error) {
	doc := treeDoc{Nodes: make(map[NodeId]nodeDoc), UISettings: t.UISettings}

	for id, n := range t.Nodes {
		if n.TypeInfo.Invisible {
			continue
		}
		nd := nodeDoc{
			Type:    n.TypeInfo.IDName,
			Inputs:  make(map[string]socketDoc),
			Outputs: make(map[string]socketDoc),
		}
		for _, s := range n.Inputs {
			sd := socketDoc{
				ID:        s.ID,
				UIName:    s.UIName,
				Direction: directionName(s.Direction),
				Optional:  s.Optional,
			}
			if s.HasType() {
				sd.TypeName = s.Type.Name()
			}
			if s.Data != nil && s.Data.Value != nil {
				v, err := encodeValue(*s.Data.Value)
				if err != nil {
					return nil, err
				}
				sd.Value = v
			}
			nd.Inputs[s.Identifier] = sd
		}
		for _, s := range n.Outputs {
			sd := socketDoc{
				ID:        s.ID,
				UIName:    s.UIName,
				Direction: directionName(s.Direction),
			}
			if s.HasType() {
				sd.TypeName = s.Type.Name()
			}
			nd.Outputs[s.Identifier] = sd
		}
		if len(n.SocketGroups) > 0 {
			nd.SocketGroups = make(map[string]socketGroupDoc)
			for _, g := range n.SocketGroups {
				var syncs []syncGroupDoc
				for _, peer := range g.peers {
					syncs = append(syncs, syncGroupDoc{
						NodeID:    peer.Node.ID,
						Direction: directionName(peer.Direction),
						Name:      peer.Identifier,
					})
				}
				nd.SocketGroups[g.Identifier] = socketGroupDoc{SynchronizedGroups: syncs}
			}
		}
		doc.Nodes[id] = nd
	}

	for _, l := range t.Links {
		if l.FromLink != nil {
			continue // second segment of a conversion bridge; not user-visible
		}
		doc.Links = append(doc.Links, linkDoc{
			ID:           l.ID,
			FromSocketID: l.From.ID,
			ToSocketID:   l.LogicalTo().ID,
		})
	}

	return json.Marshal(doc)
}

// Deserialize replaces t's contents with the graph described by blob,
// replaying AddNode/AddLink so invisible conversion nodes and topology
// caches are rebuilt exactly as a live edit session would produce them.
// Unknown node kinds or socket type names are a fatal, descriptive error;
// the tree is left empty.
func (t *NodeTree) Deserialize(blob []byte) error {
	var doc treeDoc
	if err := json.Unmarshal(blob, &doc); err != nil {
		t.Clear()
		return fmt.Errorf("graphmodel: malformed graph document: %w", err)
	}

	t.Clear()
	t.UISettings = doc.UISettings
	socketByOldID := make(map[SocketId]*NodeSocket)

	for _, nd := range doc.Nodes {
		if _, ok := t.kinds.Lookup(nd.Type); !ok {
			t.Clear()
			return fmt.Errorf("graphmodel: unknown node kind %q", nd.Type)
		}
		n, err := t.AddNode(nd.Type)
		if err != nil {
			t.Clear()
			return err
		}

		for identifier, sd := range nd.Inputs {
			s, ok := n.Socket(identifier)
			if !ok {
				continue
			}
			if err := checkTypeName(sd, s); err != nil {
				t.Clear()
				return err
			}
			if sd.Value != nil {
				if !s.HasType() {
					t.Clear()
					return fmt.Errorf("graphmodel: socket %q has a default value but no declared type", identifier)
				}
				v, err := decodeValue(sd.Value, s.Type)
				if err != nil {
					t.Clear()
					return err
				}
				if s.Data == nil {
					s.Data = &DataField{}
				}
				s.Data.Value = &v
			}
			socketByOldID[sd.ID] = s
		}
		for identifier, sd := range nd.Outputs {
			s, ok := n.Socket(identifier)
			if !ok {
				continue
			}
			if err := checkTypeName(sd, s); err != nil {
				t.Clear()
				return err
			}
			socketByOldID[sd.ID] = s
		}
	}

	for _, ld := range doc.Links {
		from, ok := socketByOldID[ld.FromSocketID]
		if !ok {
			t.Clear()
			return fmt.Errorf("graphmodel: link %q references unknown output socket %q", ld.ID, ld.FromSocketID)
		}
		to, ok := socketByOldID[ld.ToSocketID]
		if !ok {
			t.Clear()
			return fmt.Errorf("graphmodel: link %q references unknown input socket %q", ld.ID, ld.ToSocketID)
		}
		if _, err := t.AddLink(from, to, AddLinkOptions{}); err != nil {
			t.Clear()
			return fmt.Errorf("graphmodel: failed to recreate link %q: %w", ld.ID, err)
		}
	}

	t.EnsureTopologyCache()
	return nil
}

// encodeValue converts a boxed Any into its JSON-ready representation per
// the scalar/string/array rules in spec §6.
func encodeValue(a typed.Any) (any, error) {
	if a.IsEmpty() {
		return nil, nil
	}
	v := a.Value()
	switch {
	case v.Type() == cty.Bool:
		return v.True(), nil
	case v.Type() == cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return f, nil
	case v.Type() == cty.String:
		return v.AsString(), nil
	case v.Type().IsTupleType() || v.Type().IsListType():
		out := make([]float64, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			f, _ := ev.AsBigFloat().Float64()
			out = append(out, f)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("graphmodel: cannot encode value of type %s", v.Type().FriendlyName())
	}
}

// decodeValue reverses encodeValue, given the socket's declared type.
func decodeValue(raw any, t typed.SocketType) (typed.Any, error) {
	v := t.DefaultConstruct().Value()
	switch {
	case v.Type() == cty.Bool:
		b, ok := raw.(bool)
		if !ok {
			return typed.Any{}, fmt.Errorf("graphmodel: expected bool for type %q", t.Name())
		}
		return typed.New(t, cty.BoolVal(b)), nil
	case v.Type() == cty.Number:
		f, ok := raw.(float64)
		if !ok {
			return typed.Any{}, fmt.Errorf("graphmodel: expected number for type %q", t.Name())
		}
		return typed.New(t, cty.NumberFloatVal(f)), nil
	case v.Type() == cty.String:
		s, ok := raw.(string)
		if !ok {
			return typed.Any{}, fmt.Errorf("graphmodel: expected string for type %q", t.Name())
		}
		return typed.New(t, cty.StringVal(s)), nil
	case v.Type().IsTupleType() || v.Type().IsListType():
		arr, ok := raw.([]any)
		if !ok {
			return typed.Any{}, fmt.Errorf("graphmodel: expected array for type %q", t.Name())
		}
		elems := make([]cty.Value, 0, len(arr))
		for _, e := range arr {
			f, ok := e.(float64)
			if !ok {
				return typed.Any{}, fmt.Errorf("graphmodel: expected numeric array element for type %q", t.Name())
			}
			elems = append(elems, cty.NumberFloatVal(f))
		}
		return typed.New(t, cty.TupleVal(elems)), nil
	default:
		return typed.Any{}, fmt.Errorf("graphmodel: cannot decode value of type %q", t.Name())
	}
}
