package compliance

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog/findings.yaml
var catalogFS embed.FS

type catalogEntry struct {
	Detail         string `yaml:"detail"`
	Penalty        string `yaml:"penalty"`
	LegalReference string `yaml:"legalReference"`
	Deadline       string `yaml:"deadline"`
}

type catalogFile struct {
	Version  int                     `yaml:"version"`
	Findings map[string]catalogEntry `yaml:"findings"`
}

var catalog = mustLoadCatalog()

func mustLoadCatalog() map[string]catalogEntry {
	data, err := catalogFS.ReadFile("catalog/findings.yaml")
	if err != nil {
		panic(fmt.Sprintf("compliance: read catalog: %v", err))
	}
	entries, err := parseCatalog(data)
	if err != nil {
		panic(fmt.Sprintf("compliance: %v", err))
	}
	return entries
}

func parseCatalog(data []byte) (map[string]catalogEntry, error) {
	var cf catalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if cf.Version != 1 {
		return nil, fmt.Errorf("parse catalog: unsupported version %d", cf.Version)
	}
	known := make(map[string]bool, len(ruleTable))
	for _, r := range ruleTable {
		known[r.ID] = true
	}
	for id := range cf.Findings {
		if !known[id] {
			return nil, fmt.Errorf("parse catalog: entry %q matches no rule", id)
		}
	}
	return cf.Findings, nil
}
