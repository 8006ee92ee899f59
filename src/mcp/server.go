package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"runselect/src/agent"
	"runselect/src/contracts"
	"runselect/src/sanitize"
	"runselect/src/selector"
	"runselect/src/store"
)

const (
	defaultRunLimit       = 20
	defaultSelectionLimit = 10
)

// Server is the MCP server for runselect.
type Server struct {
	mcpServer *server.MCPServer
	service   *agent.Service
	store     store.Store
}

// NewServer creates a new MCP server. st receives every selection made
// through select_run; it may be nil, in which case nothing is audited and
// recent_selections is not offered.
func NewServer(svc *agent.Service, st store.Store) *Server {
	s := server.NewMCPServer(
		"runselect",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	srv := &Server{
		mcpServer: s,
		service:   svc,
		store:     st,
	}
	srv.registerTools()

	return srv
}

// registerTools registers all available tools.
func (s *Server) registerTools() {
	selectTool := mcp.NewTool("select_run",
		mcp.WithDescription("Pick one run from a CI job's history using a selection policy. Returns the selected run, or outcome no_candidate when nothing matched. Pass either a full policy document or a status shortcut."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Job URL (Buildkite pipeline, GitHub Actions workflow, or local:<job>)"),
		),
		mcp.WithString("policy",
			mcp.Description("Policy as YAML or JSON, e.g. {\"selector\":{\"kind\":\"status\",\"status\":\"STABLE\"}}"),
		),
		mcp.WithString("status",
			mcp.Description("Shortcut for a status selector when no policy is given (STABLE, SUCCESSFUL, UNSTABLE, FAILED, COMPLETED, ANY). Default: STABLE"),
		),
		mcp.WithBoolean("saved",
			mcp.Description("Only consider runs marked keep-forever (status shortcut only)"),
		),
	)

	runsTool := mcp.NewTool("list_runs",
		mcp.WithDescription("List the most recent runs of a CI job, newest first."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Job URL (Buildkite pipeline, GitHub Actions workflow, or local:<job>)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max runs to return (default: 20)"),
		),
	)

	kindsTool := mcp.NewTool("list_kinds",
		mcp.WithDescription("List the selector and filter kinds a policy may use."),
	)

	s.mcpServer.AddTool(selectTool, s.handleSelectRun)
	s.mcpServer.AddTool(runsTool, s.handleListRuns)
	s.mcpServer.AddTool(kindsTool, s.handleListKinds)

	if s.store != nil {
		logTool := mcp.NewTool("recent_selections",
			mcp.WithDescription("Show the most recent selection outcomes."),
			mcp.WithNumber("limit",
				mcp.Description("Max entries to return (default: 10)"),
			),
		)
		s.mcpServer.AddTool(logTool, s.handleRecentSelections)
	}
}

// Run starts the MCP server on stdio.
func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}

// handleSelectRun handles the select_run tool call. Selection outcomes,
// including errors, are returned as a SelectionResult so the caller can
// tell no_candidate from config_error and host_unavailable.
func (s *Server) handleSelectRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url := request.GetString("url", "")
	if url == "" {
		return mcp.NewToolResultError("url parameter is required"), nil
	}

	policy, err := policyFromArgs(
		request.GetString("policy", ""),
		request.GetString("status", ""),
		request.GetBool("saved", false),
	)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := contracts.SelectionRequest{
		RequestID:   uuid.NewString(),
		JobURL:      url,
		Policy:      policy,
		InvokerJob:  "mcp",
		RequestedAt: time.Now().UTC(),
	}
	result := s.service.Handle(ctx, req)

	if s.store != nil {
		if err := s.store.SaveSelection(ctx, result); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to record selection: %v", err)), nil
		}
	}

	return jsonResult(sanitize.Result(result))
}

// handleListRuns handles the list_runs tool call.
func (s *Server) handleListRuns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url := request.GetString("url", "")
	if url == "" {
		return mcp.NewToolResultError("url parameter is required"), nil
	}

	limit := request.GetInt("limit", defaultRunLimit)

	ref, history, err := s.service.History(ctx, url)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing runs failed: %v", err)), nil
	}

	response := RunList{Job: ref.String(), Total: len(history)}
	for i, run := range history {
		if limit > 0 && i >= limit {
			break
		}
		response.Runs = append(response.Runs, sanitize.Record(contracts.NewRunRecord(run)))
	}

	return jsonResult(response)
}

// handleListKinds handles the list_kinds tool call.
func (s *Server) handleListKinds(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reg := s.service.Registry()
	return jsonResult(KindList{
		Selectors: reg.Selectors(),
		Filters:   reg.Filters(),
	})
}

// handleRecentSelections handles the recent_selections tool call.
func (s *Server) handleRecentSelections(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", defaultSelectionLimit)

	selections, err := s.store.ListSelections(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading selections failed: %v", err)), nil
	}
	for i := range selections {
		selections[i] = sanitize.Result(selections[i])
	}
	return jsonResult(SelectionLog{Selections: selections})
}

// policyFromArgs builds a policy from either a document or the status shortcut.
func policyFromArgs(doc, status string, saved bool) (selector.Policy, error) {
	if doc != "" {
		if status != "" || saved {
			return selector.Policy{}, fmt.Errorf("policy cannot be combined with status or saved")
		}
		return selector.ParsePolicy([]byte(doc))
	}

	if status == "" {
		status = string(selector.BuildStable)
	}
	policy := selector.Policy{
		Selector: selector.SelectorSpec{Kind: "status", Status: status},
	}
	if saved {
		policy.Filter = &selector.FilterSpec{Kind: "saved"}
	}
	return policy, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}
