// ABOUTME: MCP resource handlers exposing scheduling lookups
// ABOUTME: Read-only clients, staff users, and per-client contacts via rigboard:// URIs
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/rigboard/store"
)

const resourceScheme = "rigboard://"

type ResourceHandlers struct {
	store *store.Store
}

func NewResourceHandlers(st *store.Store) *ResourceHandlers {
	return &ResourceHandlers{store: st}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, resourceScheme) {
		return nil, fmt.Errorf("invalid URI scheme: expected %s", resourceScheme)
	}

	parts := strings.Split(strings.TrimPrefix(uri, resourceScheme), "/")
	switch {
	case len(parts) == 1 && parts[0] == "clients":
		clients, err := h.store.Clients(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch clients: %w", err)
		}
		return jsonResource(uri, clients)

	case len(parts) == 1 && parts[0] == "users":
		users, err := h.store.Users(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch users: %w", err)
		}
		return jsonResource(uri, users)

	case len(parts) == 3 && parts[0] == "clients" && parts[2] == "contacts":
		contacts, err := h.store.Contacts(ctx, parts[1])
		if err != nil {
			return nil, fmt.Errorf("failed to fetch contacts: %w", err)
		}
		return jsonResource(uri, contacts)
	}

	return nil, fmt.Errorf("unknown resource: %s", uri)
}

// Register adds the lookup resources to server.
func (h *ResourceHandlers) Register(server *mcp.Server) {
	server.AddResource(&mcp.Resource{
		URI:         resourceScheme + "clients",
		Name:        "clients",
		Description: "Clients meetings can be scheduled for",
		MIMEType:    "application/json",
	}, h.ReadResource)

	server.AddResource(&mcp.Resource{
		URI:         resourceScheme + "users",
		Name:        "users",
		Description: "Staff users who can organize or attend meetings",
		MIMEType:    "application/json",
	}, h.ReadResource)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: resourceScheme + "clients/{id}/contacts",
		Name:        "client-contacts",
		Description: "Contacts of one client, the only contacts its meetings may invite",
		MIMEType:    "application/json",
	}, h.ReadResource)
}

func jsonResource(uri string, v interface{}) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}
	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}
