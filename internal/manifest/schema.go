package manifest

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes every top-level block a manifest file may contain.
type fileRoot struct {
	Kinds       []*kindBlock       `hcl:"kind,block"`
	Conversions []*conversionBlock `hcl:"conversion,block"`
	Remain      hcl.Body           `hcl:",remain"`
}

type kindBlock struct {
	Name           string         `hcl:"name,label"`
	UIName         string         `hcl:"ui_name,optional"`
	AlwaysRequired bool           `hcl:"always_required,optional"`
	AlwaysDirty    bool           `hcl:"always_dirty,optional"`
	Inputs         []*socketBlock `hcl:"input,block"`
	Outputs        []*socketBlock `hcl:"output,block"`
	Groups         []*groupBlock  `hcl:"socket_group,block"`
	Remain         hcl.Body       `hcl:",remain"`
}

type socketBlock struct {
	Name        string         `hcl:"name,label"`
	UIName      string         `hcl:"ui_name,optional"`
	Type        hcl.Expression `hcl:"type,optional"`
	Optional    bool           `hcl:"optional,optional"`
	SocketGroup string         `hcl:"socket_group,optional"`
	Default     hcl.Expression `hcl:"default,optional"`
	Min         hcl.Expression `hcl:"min,optional"`
	Max         hcl.Expression `hcl:"max,optional"`
}

type groupBlock struct {
	Name      string         `hcl:"name,label"`
	Direction string         `hcl:"direction"`
	ElemType  hcl.Expression `hcl:"elem_type"`
	Optional  bool           `hcl:"optional,optional"`
}

type conversionBlock struct {
	From string `hcl:"from,label"`
	To   string `hcl:"to,label"`
	Kind string `hcl:"kind"`
}
