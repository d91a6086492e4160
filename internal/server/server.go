// Package server exposes the translator over the MCP stdio transport:
// tools to run a translation and query the resulting intention graph, plus
// resources for the translation artifacts.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"

	"github.com/dejo1307/objc2swift/internal/config"
	"github.com/dejo1307/objc2swift/internal/engine"
	"github.com/dejo1307/objc2swift/internal/intentions"
	"github.com/dejo1307/objc2swift/internal/parser"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server and connects it to the translation engine.
type Server struct {
	mcp *mcp.Server
	eng *engine.Engine
	cfg *config.Config
}

// New creates a new MCP server wired to the given engine.
func New(eng *engine.Engine, cfg *config.Config) (*Server, error) {
	s := &Server{eng: eng, cfg: cfg}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "objc2swift",
		Version: "0.1.0",
	}, nil)

	s.mcp = mcpServer
	s.registerResources()
	s.registerTools()
	return s, nil
}

// Run starts the MCP server on the stdio transport.
func (s *Server) Run(ctx context.Context) error {
	log.Println("[server] starting MCP server on stdio transport")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerResources() {
	s.mcp.AddResource(&mcp.Resource{
		URI:         "objc2swift://translation/meta",
		Name:        "Translation Metadata",
		Description: "Metadata about the last translation run",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		content, err := s.eng.GetArtifact("translation.meta.json")
		if err != nil {
			return nil, fmt.Errorf("no translation available: %w (run translate first)", err)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{URI: req.Params.URI, Text: string(content), MIMEType: "application/json"},
			},
		}, nil
	})

	s.mcp.AddResource(&mcp.Resource{
		URI:         "objc2swift://translation/diagnostics",
		Name:        "Translation Diagnostics",
		Description: "Parse errors and unrecognized constructs from the last run",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		content, err := s.eng.GetArtifact("diagnostics.json")
		if err != nil {
			return nil, fmt.Errorf("no translation available: %w (run translate first)", err)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{URI: req.Params.URI, Text: string(content), MIMEType: "application/json"},
			},
		}, nil
	})
}

// translateArgs are the arguments for the translate tool.
type translateArgs struct {
	RepoPath string `json:"repo_path,omitempty" jsonschema:"Path to the repository holding .h/.m sources. Defaults to the configured repo path."`
	Write    bool   `json:"write,omitempty" jsonschema:"Write the translated Swift files to the output directory."`
}

// translateSourceArgs are the arguments for the translate_source tool.
type translateSourceArgs struct {
	Name string `json:"name" jsonschema:"Source name, e.g. MyClass.m"`
	Text string `json:"text" jsonschema:"Objective-C source text"`
}

// queryIntentionsArgs are the arguments for the query_intentions tool.
type queryIntentionsArgs struct {
	Kind   string `json:"kind,omitempty" jsonschema:"Filter by intention kind: file, class, extension, protocol, struct, enum, enum_case, method, initializer, property, ivar, global_var, global_func, or typealias"`
	File   string `json:"file,omitempty" jsonschema:"Filter by source file path"`
	Name   string `json:"name,omitempty" jsonschema:"Filter by name using substring match"`
	Parent string `json:"parent,omitempty" jsonschema:"Filter by enclosing type name"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Maximum results to return (default 100)"`
	Offset int    `json:"offset,omitempty" jsonschema:"Number of results to skip"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "translate",
		Description: "Translate the repository's Objective-C .h/.m sources into Swift. Runs the full intention pipeline and reports a summary.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args translateArgs) (*mcp.CallToolResult, any, error) {
		repoPath := args.RepoPath
		if repoPath == "" {
			repoPath = s.cfg.Repo
		}
		absRepo, err := filepath.Abs(repoPath)
		if err != nil {
			return errorResult(fmt.Sprintf("invalid repo path: %v", err)), nil, nil
		}

		result, err := s.eng.Translate(ctx, absRepo)
		if err != nil {
			return errorResult(fmt.Sprintf("translation failed: %v", err)), nil, nil
		}
		if args.Write {
			if err := s.eng.WriteOutputs(absRepo); err != nil {
				log.Printf("[server] warning: failed to write outputs: %v", err)
			}
		}

		summary := fmt.Sprintf(
			"Translation complete.\n\n"+
				"- Repository: %s\n"+
				"- Sources: %d\n"+
				"- Swift files: %d\n"+
				"- Bodies rewritten: %d\n"+
				"- Errors: %d\n"+
				"- Duration: %s\n\n"+
				"Use query_intentions to inspect the intention graph, or the "+
				"objc2swift://translation/* resources for artifacts.",
			result.Meta.RepoPath,
			result.Meta.Sources,
			result.Meta.Files,
			result.Meta.Bodies,
			result.Meta.ErrorCount,
			result.Meta.Duration,
		)
		return textResult(summary), nil, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "translate_source",
		Description: "Translate a single in-memory Objective-C source and return the Swift text.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args translateSourceArgs) (*mcp.CallToolResult, any, error) {
		if args.Name == "" || args.Text == "" {
			return errorResult("both name and text are required"), nil, nil
		}
		result, err := s.eng.TranslateSources(ctx, []parser.Source{
			parser.StringSource{SourceName: args.Name, Contents: args.Text},
		})
		if err != nil {
			return errorResult(fmt.Sprintf("translation failed: %v", err)), nil, nil
		}
		if len(result.Files) == 0 {
			return errorResult("no output produced"), nil, nil
		}
		return textResult(string(result.Files[0].Content)), nil, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "query_intentions",
		Description: "Query the last translation's intention graph by kind, file, name, or enclosing type. Each result includes the intention's mutation history.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args queryIntentionsArgs) (*mcp.CallToolResult, any, error) {
		idx := s.eng.Index()
		if idx == nil || idx.Count() == 0 {
			return errorResult("No intentions available. Run translate first."), nil, nil
		}
		results, total := idx.Query(intentions.QueryOpts{
			Kind:   args.Kind,
			File:   args.File,
			Name:   args.Name,
			Parent: args.Parent,
			Limit:  args.Limit,
			Offset: args.Offset,
		})
		payload, err := json.MarshalIndent(struct {
			Total   int                   `json:"total"`
			Results []intentions.Summary `json:"results"`
		}{Total: total, Results: results}, "", "  ")
		if err != nil {
			return errorResult(fmt.Sprintf("encoding results: %v", err)), nil, nil
		}
		return textResult(string(payload)), nil, nil
	})
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
	}
}
