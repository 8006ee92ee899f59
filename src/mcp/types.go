// Package mcp exposes run selection as MCP tools for LLM agents.
package mcp

import (
	"runselect/src/contracts"
	"runselect/src/selector"
)

// RunList is the list_runs response.
type RunList struct {
	Job   string                 `json:"job"`
	Total int                    `json:"total"`
	Runs  []*contracts.RunRecord `json:"runs"`
}

// KindList is the list_kinds response.
type KindList struct {
	Selectors []selector.Descriptor `json:"selectors"`
	Filters   []selector.Descriptor `json:"filters"`
}

// SelectionLog is the recent_selections response.
type SelectionLog struct {
	Selections []contracts.SelectionResult `json:"selections"`
}
