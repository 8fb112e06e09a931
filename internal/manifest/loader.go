package manifest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/Jerry-Shen0527/rznode/internal/ctxlog"
	"github.com/Jerry-Shen0527/rznode/internal/nodekind"
	"github.com/Jerry-Shen0527/rznode/internal/typed"
)

// Loader reads manifest files and registers the node kinds (and socket
// types they reference) they declare.
type Loader struct {
	Types *typed.Registry
	Kinds *nodekind.Registry
}

// New returns a Loader that registers into the given registries.
func New(types *typed.Registry, kinds *nodekind.Registry) *Loader {
	return &Loader{Types: types, Kinds: kinds}
}

// Load walks paths (files or directories), parses every *.hcl file found,
// and registers the kind/conversion blocks they declare. It is not
// transactional: a failure partway through leaves previously-registered
// kinds in place, matching the startup-time, fail-fast nature of manifest
// loading (a bad manifest should stop the process, not produce a half
// graph at runtime).
func (l *Loader) Load(ctx context.Context, paths ...string) error {
	log := ctxlog.FromContext(ctx)

	files, err := findHCLFiles(paths)
	if err != nil {
		return err
	}
	log.Debug("manifest: discovered files", "count", len(files))

	parser := hclparse.NewParser()
	for _, file := range files {
		f, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return fmt.Errorf("manifest: parsing %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(f.Body, nil, &root); diags.HasErrors() {
			return fmt.Errorf("manifest: decoding %s: %w", file, diags)
		}

		for _, k := range root.Kinds {
			info, err := l.translateKind(k)
			if err != nil {
				return fmt.Errorf("manifest: kind %q in %s: %w", k.Name, file, err)
			}
			l.Kinds.Register(info)
			log.Debug("manifest: registered kind", "id_name", info.IDName)
		}
		for _, c := range root.Conversions {
			from, ok := l.Types.ResolveByName(c.From)
			if !ok {
				return fmt.Errorf("manifest: conversion in %s references unknown type %q", file, c.From)
			}
			to, ok := l.Types.ResolveByName(c.To)
			if !ok {
				return fmt.Errorf("manifest: conversion in %s references unknown type %q", file, c.To)
			}
			l.Kinds.RegisterConversion(from, to, c.Kind)
		}
	}
	return nil
}

func (l *Loader) translateKind(k *kindBlock) (*nodekind.TypeInfo, error) {
	inputs := make([]nodekind.InputDecl, 0, len(k.Inputs))
	for _, in := range k.Inputs {
		decl, err := l.translateInput(in)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, decl)
	}
	outputs := make([]nodekind.OutputDecl, 0, len(k.Outputs))
	for _, out := range k.Outputs {
		decl, err := l.translateOutput(out)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, decl)
	}
	groups := make([]nodekind.SocketGroupDecl, 0, len(k.Groups))
	for _, g := range k.Groups {
		ct, err := typeExprToCtyType(g.ElemType)
		if err != nil {
			return nil, err
		}
		dir := nodekind.Input
		if g.Direction == "output" {
			dir = nodekind.Output
		}
		groups = append(groups, nodekind.SocketGroupDecl{
			Identifier: g.Name,
			Direction:  dir,
			ElemType:   l.Types.Register(ct.FriendlyName(), ct),
			Optional:   g.Optional,
		})
	}

	uiName := k.UIName
	if uiName == "" {
		uiName = k.Name
	}

	return &nodekind.TypeInfo{
		IDName:         k.Name,
		UIName:         uiName,
		AlwaysRequired: k.AlwaysRequired,
		AlwaysDirty:    k.AlwaysDirty,
		Declare: func(b *nodekind.DeclarationBuilder) {
			for _, d := range inputs {
				b.AddInput(d)
			}
			for _, d := range outputs {
				b.AddOutput(d)
			}
			for _, d := range groups {
				b.AddSocketGroup(d)
			}
		},
	}, nil
}

func (l *Loader) translateInput(in *socketBlock) (nodekind.InputDecl, error) {
	ct, err := typeExprToCtyType(in.Type)
	if err != nil {
		return nodekind.InputDecl{}, err
	}
	st := l.Types.Register(ct.FriendlyName(), ct)

	decl := nodekind.InputDecl{
		Identifier:            in.Name,
		UIName:                orName(in.UIName, in.Name),
		Type:                  st,
		Optional:              in.Optional,
		SocketGroupIdentifier: in.SocketGroup,
	}
	if v, err := literalAny(in.Default, st); err != nil {
		return nodekind.InputDecl{}, err
	} else if v != nil {
		decl.Default = v
	}
	if v, err := literalAny(in.Min, st); err != nil {
		return nodekind.InputDecl{}, err
	} else if v != nil {
		decl.Min = v
	}
	if v, err := literalAny(in.Max, st); err != nil {
		return nodekind.InputDecl{}, err
	} else if v != nil {
		decl.Max = v
	}
	return decl, nil
}

func (l *Loader) translateOutput(out *socketBlock) (nodekind.OutputDecl, error) {
	ct, err := typeExprToCtyType(out.Type)
	if err != nil {
		return nodekind.OutputDecl{}, err
	}
	st := l.Types.Register(ct.FriendlyName(), ct)
	return nodekind.OutputDecl{
		Identifier:            out.Name,
		UIName:                orName(out.UIName, out.Name),
		Type:                  st,
		SocketGroupIdentifier: out.SocketGroup,
	}, nil
}

func literalAny(expr hcl.Expression, st typed.SocketType) (*typed.Any, error) {
	if expr == nil {
		return nil, nil
	}
	v, err := evalLiteral(expr)
	if err != nil {
		return nil, err
	}
	a := typed.New(st, v)
	return &a, nil
}

func orName(uiName, fallback string) string {
	if uiName != "" {
		return uiName
	}
	return fallback
}

func findHCLFiles(paths []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("manifest: accessing %s: %w", path, err)
		}
		if !info.IsDir() {
			if filepath.Ext(path) == ".hcl" {
				add(path)
			}
			continue
		}
		err = filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && filepath.Ext(p) == ".hcl" {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
