package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/kshehadeh/pyfluence/internal/confluence"
	"github.com/kshehadeh/pyfluence/internal/state"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ConfluenceTools wires the Confluence client into MCP tools.
type ConfluenceTools struct {
	client  *confluence.Client
	cache   *state.Cache
	baseURL string
}

// NewConfluenceTools registers Confluence tools on the server.
func NewConfluenceTools(s *server.MCPServer, client *confluence.Client, cache *state.Cache, baseURL string) *ConfluenceTools {
	ct := &ConfluenceTools{
		client:  client,
		cache:   cache,
		baseURL: strings.TrimRight(baseURL, "/"),
	}

	s.AddTool(
		mcp.NewTool(
			"confluence.list_spaces",
			mcp.WithDescription("List Confluence spaces accessible to the configured account"),
			mcp.WithInputSchema[ListSpacesArgs](),
			mcp.WithOutputSchema[SpacesResult](),
		),
		mcp.NewTypedToolHandler(ct.handleListSpaces),
	)

	s.AddTool(
		mcp.NewTool(
			"confluence.search",
			mcp.WithDescription("Search Confluence content using CQL"),
			mcp.WithInputSchema[SearchArgs](),
			mcp.WithOutputSchema[SearchResult](),
		),
		mcp.NewTypedToolHandler(ct.handleSearch),
	)

	s.AddTool(
		mcp.NewTool(
			"confluence.get_content",
			mcp.WithDescription("Fetch a Confluence content object by id"),
			mcp.WithInputSchema[GetContentArgs](),
			mcp.WithOutputSchema[PageResult](),
		),
		mcp.NewTypedToolHandler(ct.handleGetContent),
	)

	s.AddTool(
		mcp.NewTool(
			"confluence.create_content",
			mcp.WithDescription("Create Confluence content in the specified space"),
			mcp.WithInputSchema[CreateContentArgs](),
			mcp.WithOutputSchema[PageResult](),
		),
		mcp.NewTypedToolHandler(ct.handleCreateContent),
	)

	s.AddTool(
		mcp.NewTool(
			"confluence.update_content",
			mcp.WithDescription("Replace, append to, or prepend to an existing Confluence page body"),
			mcp.WithInputSchema[UpdateContentArgs](),
			mcp.WithOutputSchema[PageResult](),
		),
		mcp.NewTypedToolHandler(ct.handleUpdateContent),
	)

	return ct
}

// ListSpacesArgs parameters for list spaces.
type ListSpacesArgs struct{}

// SpaceSummary models a space in tool output.
type SpaceSummary struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
}

// SpacesResult wraps the list response.
type SpacesResult struct {
	Spaces []SpaceSummary `json:"spaces"`
}

func (c *ConfluenceTools) handleListSpaces(ctx context.Context, _ mcp.CallToolRequest, _ ListSpacesArgs) (*mcp.CallToolResult, error) {
	page, err := c.client.GetSpaces(ctx)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("confluence list spaces failed", err), nil
	}

	c.cache.SetSpaces(page.Results)

	result := SpacesResult{Spaces: make([]SpaceSummary, 0, len(page.Results))}
	for _, space := range page.Results {
		description := ""
		if space.Description != nil {
			description = strings.TrimSpace(space.Description.Plain.Value)
		}
		result.Spaces = append(result.Spaces, SpaceSummary{
			Key:         space.Key,
			Name:        space.Name,
			Description: description,
			URL:         fmt.Sprintf("%s/spaces/%s", c.baseURL, space.Key),
		})
	}

	fallback := fmt.Sprintf("Found %d Confluence spaces", len(result.Spaces))
	return mcp.NewToolResultStructured(result, fallback), nil
}

// SearchArgs parameters for CQL search.
type SearchArgs struct {
	CQL string `json:"cql" jsonschema:"required" jsonschema_description:"CQL query"`
}

// PageSummary summarises a content object in tool output.
type PageSummary struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Type    string `json:"type"`
	Status  string `json:"status,omitempty"`
	Version int    `json:"version,omitempty"`
	URL     string `json:"url"`
}

// SearchResult search response payload.
type SearchResult struct {
	Size    int           `json:"size"`
	Results []PageSummary `json:"results"`
}

func (c *ConfluenceTools) handleSearch(ctx context.Context, _ mcp.CallToolRequest, args SearchArgs) (*mcp.CallToolResult, error) {
	if strings.TrimSpace(args.CQL) == "" {
		return mcp.NewToolResultError("CQL query must not be empty"), nil
	}

	page, err := c.client.Search(ctx, args.CQL, nil)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("confluence search failed", err), nil
	}

	c.cache.SetLastCQL(args.CQL)

	payload := SearchResult{Size: page.Size, Results: make([]PageSummary, 0, len(page.Results))}
	for _, hit := range page.Results {
		payload.Results = append(payload.Results, c.summarize(&hit.Content))
	}

	fallback := fmt.Sprintf("Found %d Confluence results", len(payload.Results))
	return mcp.NewToolResultStructured(payload, fallback), nil
}

// GetContentArgs parameters for content lookup.
type GetContentArgs struct {
	ID string `json:"id" jsonschema:"required" jsonschema_description:"Content id"`
}

// PageResult response for single-content tools.
type PageResult struct {
	Found bool        `json:"found"`
	Page  PageSummary `json:"page,omitempty"`
}

func (c *ConfluenceTools) handleGetContent(ctx context.Context, _ mcp.CallToolRequest, args GetContentArgs) (*mcp.CallToolResult, error) {
	content, err := c.client.GetContent(ctx, args.ID, confluence.DefaultContentExpand)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("confluence get content failed", err), nil
	}

	if content == nil {
		return mcp.NewToolResultStructured(PageResult{Found: false}, fmt.Sprintf("Content %s not found", args.ID)), nil
	}

	result := PageResult{Found: true, Page: c.summarize(content)}
	return mcp.NewToolResultStructured(result, fmt.Sprintf("Found Confluence content %s", content.Title)), nil
}

// CreateContentArgs parameters for content creation.
type CreateContentArgs struct {
	SpaceKey string `json:"spaceKey" jsonschema:"required" jsonschema_description:"Space key"`
	Title    string `json:"title" jsonschema:"required" jsonschema_description:"Content title"`
	Body     string `json:"body" jsonschema:"required" jsonschema_description:"Body in storage format"`
	Type     string `json:"type,omitempty" jsonschema_description:"Content type, defaults to page"`
	ParentID string `json:"parentId,omitempty" jsonschema_description:"Ancestor page id"`
}

func (c *ConfluenceTools) handleCreateContent(ctx context.Context, _ mcp.CallToolRequest, args CreateContentArgs) (*mcp.CallToolResult, error) {
	created, err := c.client.CreateContent(ctx, confluence.CreateContentInput{
		SpaceKey:   args.SpaceKey,
		Type:       args.Type,
		Title:      args.Title,
		HTMLMarkup: args.Body,
		ParentID:   args.ParentID,
	})
	if err != nil {
		return mcp.NewToolResultErrorFromErr("confluence create content failed", err), nil
	}

	result := PageResult{Found: true, Page: c.summarize(created)}
	fallback := fmt.Sprintf("Created Confluence content %s", created.Title)
	return mcp.NewToolResultStructured(result, fallback), nil
}

// UpdateContentArgs parameters for content update.
type UpdateContentArgs struct {
	ID       string `json:"id" jsonschema:"required" jsonschema_description:"Content id"`
	Body     string `json:"body" jsonschema:"required" jsonschema_description:"Body in storage format"`
	Location string `json:"location,omitempty" jsonschema_description:"One of replace, append, prepend; defaults to replace"`
}

func (c *ConfluenceTools) handleUpdateContent(ctx context.Context, _ mcp.CallToolRequest, args UpdateContentArgs) (*mcp.CallToolResult, error) {
	updated, err := c.client.UpdateContent(ctx, args.ID, confluence.UpdateContentInput{
		HTMLMarkup: args.Body,
		UpdateType: confluence.UpdateType(args.Location),
	})
	if err != nil {
		return mcp.NewToolResultErrorFromErr("confluence update content failed", err), nil
	}

	result := PageResult{Found: true, Page: c.summarize(updated)}
	fallback := fmt.Sprintf("Updated Confluence content %s", updated.Title)
	return mcp.NewToolResultStructured(result, fallback), nil
}

func (c *ConfluenceTools) summarize(content *confluence.Content) PageSummary {
	version := 0
	if content.Version != nil {
		version = content.Version.Number
	}
	return PageSummary{
		ID:      content.ID,
		Title:   content.Title,
		Type:    content.Type,
		Status:  content.Status,
		Version: version,
		URL:     fmt.Sprintf("%s/pages/%s", c.baseURL, content.ID),
	}
}
