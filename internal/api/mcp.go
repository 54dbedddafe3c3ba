package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/cockpit/internal/catalog"
	"github.com/kalambet/cockpit/internal/profile"
	"github.com/kalambet/cockpit/internal/schema"
	"github.com/kalambet/cockpit/internal/storage"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Store           *storage.Store // optional; template tools are skipped when nil
	DefaultLanguage string
	Now             func() time.Time
}

func (d MCPDeps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d MCPDeps) newForm() profile.Form {
	return AppDeps{DefaultLanguage: d.DefaultLanguage}.newForm()
}

// NewMCPServer creates an MCP server with all cockpit tools and resources registered.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"cockpit",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("cockpit builds structured prompts from form selections. "+catalog.Notice),
		server.WithRecovery(),
	)

	formParam := mcp.WithString("form",
		mcp.Description("Form as a JSON object (keys as in the catalog://options resource); absent keys keep their defaults"),
	)

	s.AddTool(
		mcp.NewTool("render_prompt",
			mcp.WithDescription("Render the prompt text for a form."),
			formParam,
		),
		mcpRenderPrompt(deps),
	)

	s.AddTool(
		mcp.NewTool("render_schema",
			mcp.WithDescription("Render the JSON document (profile plus prompt) for a form."),
			formParam,
		),
		mcpRenderSchema(deps),
	)

	s.AddTool(
		mcp.NewTool("deep_questions",
			mcp.WithDescription("List the deep-question candidates for a conversation mode and goals."),
			mcp.WithString("mode", mcp.Description("practical, emotional or social"), mcp.Required()),
			mcp.WithArray("goals", mcp.Description("Selected goals"), mcp.Items(map[string]any{"type": "string"})),
		),
		mcpDeepQuestions(deps),
	)

	s.AddTool(
		mcp.NewTool("goal_subtypes",
			mcp.WithDescription("List the goal sub-types offered for the given goals."),
			mcp.WithArray("goals", mcp.Description("Selected goals"), mcp.Required(), mcp.Items(map[string]any{"type": "string"})),
		),
		mcpGoalSubtypes(deps),
	)

	s.AddTool(
		mcp.NewTool("merge_free_text",
			mcp.WithDescription("Merge preset selections with comma or newline separated free text."),
			mcp.WithArray("preset", mcp.Description("Preset selections in order"), mcp.Items(map[string]any{"type": "string"})),
			mcp.WithString("text", mcp.Description("Free-text entries")),
		),
		mcpMergeFreeText(deps),
	)

	if deps.Store != nil {
		s.AddTool(
			mcp.NewTool("render_template",
				mcp.WithDescription("Render the prompt stored in a saved template."),
				mcp.WithString("template_id", mcp.Description("Template ID"), mcp.Required()),
			),
			mcpRenderTemplate(deps),
		)
	}

	// Resources
	s.AddResource(
		mcp.NewResource(
			"catalog://options",
			"Form Options",
			mcp.WithResourceDescription("Every selectable option with its label"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceCatalog(deps),
	)

	if deps.Store != nil {
		s.AddResource(
			mcp.NewResource(
				"templates://recent",
				"Saved Templates",
				mcp.WithResourceDescription("The 20 most recent templates (id, name, created_at)"),
				mcp.WithMIMEType("application/json"),
			),
			mcpResourceTemplates(deps),
		)
	}

	return s
}

// formArg reads the optional "form" argument, given either as a JSON string
// or as an object.
func formArg(deps MCPDeps, req mcp.CallToolRequest) (profile.Form, error) {
	raw, ok := req.GetArguments()["form"]
	if !ok || raw == nil {
		return deps.newForm(), nil
	}
	var data []byte
	switch v := raw.(type) {
	case string:
		if v == "" {
			return deps.newForm(), nil
		}
		data = []byte(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return profile.Form{}, fmt.Errorf("encoding form: %w", err)
		}
		data = b
	}
	return decodeForm(data, deps.newForm())
}

func mcpRenderPrompt(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		form, err := formArg(deps, req)
		if err != nil {
			return mcpError(fmt.Sprintf("invalid form: %v", err)), nil
		}
		return mcpText(Render(form, deps.now()).Prompt), nil
	}
}

func mcpRenderSchema(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		form, err := formArg(deps, req)
		if err != nil {
			return mcpError(fmt.Sprintf("invalid form: %v", err)), nil
		}
		b, err := schema.Marshal(Render(form, deps.now()).Document)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to encode document: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpDeepQuestions(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		mode, err := req.RequireString("mode")
		if err != nil {
			return mcpError("mode is required"), nil
		}
		goals := req.GetStringSlice("goals", nil)
		return mcpJSON(profile.ResolveDeepQuestionCandidates(mode, goals))
	}
}

func mcpGoalSubtypes(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		goals := req.GetStringSlice("goals", nil)
		if goals == nil {
			return mcpError("goals is required"), nil
		}
		return mcpJSON(profile.ResolveGoalSubtypeCandidates(goals))
	}
}

func mcpMergeFreeText(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		preset := req.GetStringSlice("preset", nil)
		text := req.GetString("text", "")
		return mcpJSON(profile.MergePresetAndFreeText(preset, text))
	}
}

func mcpRenderTemplate(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("template_id")
		if err != nil {
			return mcpError("template_id is required"), nil
		}
		t, err := deps.Store.GetTemplate(id)
		if errors.Is(err, storage.ErrNotFound) {
			return mcpError(fmt.Sprintf("template %s not found", id)), nil
		}
		if err != nil {
			return mcpError(fmt.Sprintf("failed to load template: %v", err)), nil
		}
		form, err := decodeForm([]byte(t.FormJSON), deps.newForm())
		if err != nil {
			return mcpError(fmt.Sprintf("template %s is malformed: %v", id, err)), nil
		}
		return mcpText(Render(form, deps.now()).Prompt), nil
	}
}

func mcpResourceCatalog(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		b, err := json.Marshal(catalogOptions())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal catalog: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpResourceTemplates(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		templates, err := deps.Store.ListTemplates(20, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to list templates: %w", err)
		}

		views := make([]templateView, len(templates))
		for i, t := range templates {
			views[i] = templateView{ID: t.ID, Name: t.Name, CreatedAt: t.CreatedAt}
		}
		b, err := json.Marshal(views)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal templates: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpJSON(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcpText(string(b)), nil
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
