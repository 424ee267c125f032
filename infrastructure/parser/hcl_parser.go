package parser

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/reglet-dev/stubhost/domain/entities"
	"github.com/reglet-dev/stubhost/domain/ports"
)

// hclCatalogueFile is the top-level structure of an HCL catalogue:
//
//	host = "com.example.host"
//
//	stub "ui.A0" {
//	  kind    = "activity"
//	  process = "ui"
//	}
//
//	group "auto.S" {
//	  kind  = "service"
//	  count = 4
//	}
type hclCatalogueFile struct {
	Host   string     `hcl:"host,optional"`
	Stubs  []hclStub  `hcl:"stub,block"`
	Groups []hclGroup `hcl:"group,block"`
}

type hclStub struct {
	ID         string `hcl:"id,label"`
	Kind       string `hcl:"kind"`
	Process    string `hcl:"process,optional"`
	LaunchMode string `hcl:"launch_mode,optional"`
}

type hclGroup struct {
	Prefix     string `hcl:"prefix,label"`
	Kind       string `hcl:"kind"`
	Process    string `hcl:"process,optional"`
	LaunchMode string `hcl:"launch_mode,optional"`
	Count      int    `hcl:"count"`
}

// HclCatalogueParser implements CatalogueParser for HCL.
type HclCatalogueParser struct {
	filename string
}

// NewHclCatalogueParser creates a new HclCatalogueParser. The filename is
// only used in diagnostics.
func NewHclCatalogueParser(filename string) ports.CatalogueParser {
	if filename == "" {
		filename = "catalogue.hcl"
	}
	return &HclCatalogueParser{filename: filename}
}

// Parse decodes HCL bytes into a StubCatalogue and its generic form.
func (p *HclCatalogueParser) Parse(data []byte) (*entities.StubCatalogue, map[string]any, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, p.filename)
	if diags.HasErrors() {
		return nil, nil, fmt.Errorf("failed to parse HCL catalogue %s: %w", p.filename, diags)
	}

	var parsed hclCatalogueFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, nil, fmt.Errorf("failed to decode HCL catalogue %s: %w", p.filename, diags)
	}

	catalogue := &entities.StubCatalogue{Host: parsed.Host}
	doc := map[string]any{}
	if parsed.Host != "" {
		doc["host"] = parsed.Host
	}

	stubs := make([]any, 0, len(parsed.Stubs))
	for _, s := range parsed.Stubs {
		process, mode, err := decodeBucket(s.Process, s.LaunchMode)
		if err != nil {
			return nil, nil, fmt.Errorf("stub %q: %w", s.ID, err)
		}
		catalogue.Stubs = append(catalogue.Stubs, entities.StubSpec{
			ID:         s.ID,
			Kind:       entities.ComponentKind(s.Kind),
			Process:    process,
			LaunchMode: mode,
		})
		stubs = append(stubs, bucketDoc(map[string]any{"id": s.ID}, s.Kind, s.Process, s.LaunchMode))
	}

	groups := make([]any, 0, len(parsed.Groups))
	for _, g := range parsed.Groups {
		process, mode, err := decodeBucket(g.Process, g.LaunchMode)
		if err != nil {
			return nil, nil, fmt.Errorf("group %q: %w", g.Prefix, err)
		}
		catalogue.Groups = append(catalogue.Groups, entities.StubGroup{
			Prefix:     g.Prefix,
			Kind:       entities.ComponentKind(g.Kind),
			Process:    process,
			LaunchMode: mode,
			Count:      g.Count,
		})
		groups = append(groups, bucketDoc(map[string]any{"prefix": g.Prefix, "count": g.Count}, g.Kind, g.Process, g.LaunchMode))
	}

	if len(stubs) > 0 {
		doc["stubs"] = stubs
	}
	if len(groups) > 0 {
		doc["groups"] = groups
	}
	return catalogue, doc, nil
}

func decodeBucket(process, launchMode string) (entities.ProcessAffinity, entities.LaunchModeClass, error) {
	affinity, err := entities.ParseProcessAffinity(process)
	if err != nil {
		return entities.ProcessAffinity{}, entities.LaunchModeClass{}, err
	}
	mode, err := entities.ParseLaunchModeClass(launchMode)
	if err != nil {
		return entities.ProcessAffinity{}, entities.LaunchModeClass{}, err
	}
	return affinity, mode, nil
}

func bucketDoc(m map[string]any, kind, process, launchMode string) map[string]any {
	m["kind"] = kind
	if process != "" {
		m["process"] = process
	}
	if launchMode != "" {
		m["launch_mode"] = launchMode
	}
	return m
}
