// Package mcpserver exposes the moderation pipeline as MCP tools so an
// operator can spot-check messages and inspect profiles without touching the
// group chat.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/coparenthq/feishu-moderator/internal/biz/usecase"
	"github.com/coparenthq/feishu-moderator/internal/conf"
)

// ModeratorMCPServer provides MCP tools for the moderation pipeline
type ModeratorMCPServer struct {
	server       *mcp.Server
	moderationUC *usecase.ModerationUsecase
	profiles     *conf.ProfileStore
}

// NewServer creates a new moderation MCP server
func NewServer(moderationUC *usecase.ModerationUsecase, profiles *conf.ProfileStore) *ModeratorMCPServer {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "moderator-tools",
		Version: "v1.0.0",
	}, nil)

	s := &ModeratorMCPServer{
		server:       server,
		moderationUC: moderationUC,
		profiles:     profiles,
	}
	s.registerTools()
	return s
}

func (s *ModeratorMCPServer) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "classify_message",
		Description: "Run a message through the moderation pipeline without any chat side effects. Returns the allow/block decision and the warning that would be posted.",
	}, s.handleClassifyMessage)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_profile",
		Description: "Get the active moderation profile: behavior patterns watched for and the error-fallback mode.",
	}, s.handleGetProfile)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_profiles",
		Description: "List the names of all known moderation profiles.",
	}, s.handleListProfiles)
}

// ClassifyMessageInput is the input for the classify_message tool
type ClassifyMessageInput struct {
	Text string `json:"text" jsonschema:"description=The message text to classify"`
}

// ClassifyMessageOutput is the output for the classify_message tool
type ClassifyMessageOutput struct {
	Allow    bool   `json:"allow"`
	Reason   string `json:"reason"`
	Category string `json:"category"`
	Warning  string `json:"warning,omitempty"`
	Error    string `json:"error,omitempty"`
}

func (s *ModeratorMCPServer) handleClassifyMessage(ctx context.Context, req *mcp.CallToolRequest, input ClassifyMessageInput) (*mcp.CallToolResult, ClassifyMessageOutput, error) {
	if input.Text == "" {
		return nil, ClassifyMessageOutput{Error: "text is required"}, nil
	}

	decision := s.moderationUC.Classify(ctx, input.Text)
	out := ClassifyMessageOutput{
		Allow:    decision.Allow,
		Reason:   decision.Reason,
		Category: decision.Category,
	}
	if !decision.Allow {
		out.Warning = usecase.ComposeWarning(decision)
	}
	return nil, out, nil
}

// GetProfileInput is empty - no input needed
type GetProfileInput struct{}

// GetProfileOutput describes the active profile
type GetProfileOutput struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Description string   `json:"description"`
	Behaviors   []string `json:"behaviors,omitempty"`
	Permissive  bool     `json:"permissive"`
}

func (s *ModeratorMCPServer) handleGetProfile(ctx context.Context, req *mcp.CallToolRequest, input GetProfileInput) (*mcp.CallToolResult, GetProfileOutput, error) {
	profile := s.moderationUC.ActiveProfile()
	return nil, GetProfileOutput{
		Name:        profile.Name,
		DisplayName: profile.DisplayName,
		Description: profile.Description,
		Behaviors:   profile.Behaviors,
		Permissive:  profile.Permissive,
	}, nil
}

// ListProfilesInput is empty - no input needed
type ListProfilesInput struct{}

// ListProfilesOutput lists known profile names
type ListProfilesOutput struct {
	Profiles []string `json:"profiles"`
}

func (s *ModeratorMCPServer) handleListProfiles(ctx context.Context, req *mcp.CallToolRequest, input ListProfilesInput) (*mcp.CallToolResult, ListProfilesOutput, error) {
	return nil, ListProfilesOutput{Profiles: s.profiles.Names()}, nil
}

// Run starts the MCP server with stdio transport
func (s *ModeratorMCPServer) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
