// Package mcp exposes the analysis pipeline over the Model Context Protocol
// so that agent hosts can drive upload, chat, and report export through
// stdio. One MCP process owns one session.
package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hmasato/statchat/pkg/advisor"
	"github.com/hmasato/statchat/pkg/assist"
	"github.com/hmasato/statchat/pkg/repl"
	"github.com/hmasato/statchat/pkg/tabular"
)

// MCPServer wraps the controller to expose it via MCP.
type MCPServer struct {
	ctrl *assist.Controller
}

// Run starts the MCP server on Stdio.
func Run(ctx context.Context, gen advisor.Generator) error {
	s := server.NewMCPServer(
		"statchat",
		"0.1.0",
		server.WithResourceCapabilities(true, true),
		server.WithLogging(),
	)

	ms := &MCPServer{ctrl: assist.New(gen)}

	// --- Resources ---

	// Resource: extracted content of the loaded document
	s.AddResource(
		mcp.NewResource(
			"statchat://session/content",
			"Document Content",
			mcp.WithResourceDescription("Extracted text of the currently loaded document"),
			mcp.WithMIMEType("text/plain"),
		),
		ms.handleContent,
	)

	// Resource: AI advisory for the loaded document
	s.AddResource(
		mcp.NewResource(
			"statchat://session/advisory",
			"Advisory",
			mcp.WithResourceDescription("AI-generated summary or analysis proposal for the loaded document"),
			mcp.WithMIMEType("text/plain"),
		),
		ms.handleAdvisory,
	)

	// --- Tools ---

	// Tool: Analyze File
	s.AddTool(
		mcp.NewTool(
			"analyze_file",
			mcp.WithDescription("Load a local file (txt, md, pdf, csv), extract its content, and return the AI advisory. CSV files additionally get descriptive statistics and charts."),
			mcp.WithString("file_path", mcp.Required(), mcp.Description("Path to the file to analyze")),
		),
		ms.handleAnalyzeFile,
	)

	// Tool: Ask
	s.AddTool(
		mcp.NewTool(
			"ask",
			mcp.WithDescription("Ask a question about the loaded document. Requires a prior analyze_file call."),
			mcp.WithString("question", mcp.Required(), mcp.Description("The question text")),
		),
		ms.handleAsk,
	)

	// Tool: Column Stats
	s.AddTool(
		mcp.NewTool(
			"column_stats",
			mcp.WithDescription("Return descriptive statistics for one column of the loaded CSV. The column name is matched fuzzily."),
			mcp.WithString("column", mcp.Required(), mcp.Description("Column name or an approximation of it")),
		),
		ms.handleColumnStats,
	)

	// Tool: Export Report
	s.AddTool(
		mcp.NewTool(
			"export_report",
			mcp.WithDescription("Build the docx analysis report for the loaded document and write it to disk."),
			mcp.WithString("output_dir", mcp.Description("Directory to write the report into (default: current directory)")),
		),
		ms.handleExportReport,
	)

	log.Println("starting MCP server on stdio")
	return server.ServeStdio(s)
}

// --- Resource Handlers ---

func (ms *MCPServer) handleContent(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	sess := ms.ctrl.Session()
	if !sess.HasContent() {
		return nil, fmt.Errorf("no document loaded")
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "text/plain",
			Text:     sess.ExtractedText,
		},
	}, nil
}

func (ms *MCPServer) handleAdvisory(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	sess := ms.ctrl.Session()
	if sess.AdvisoryText == "" {
		return nil, fmt.Errorf("no advisory available")
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "text/plain",
			Text:     sess.AdvisoryText,
		},
	}, nil
}

// --- Tool Handlers ---

func (ms *MCPServer) handleAnalyzeFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	path, ok := args["file_path"].(string)
	if !ok {
		return mcp.NewToolResultError("file_path argument required"), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("read failed: %v", err)), nil
	}

	if err := ms.ctrl.Upload(ctx, filepath.Base(path), data); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	sess := ms.ctrl.Session()
	var out strings.Builder
	out.WriteString(sess.AdvisoryText)
	if sess.Table != nil {
		titles := make([]string, 0, len(sess.Charts))
		for t := range sess.Charts {
			titles = append(titles, t)
		}
		sort.Strings(titles)
		fmt.Fprintf(&out, "\n\n(%d rows x %d columns; charts: %s)",
			sess.Table.RowCount(), sess.Table.ColCount(), strings.Join(titles, ", "))
	}
	return mcp.NewToolResultText(out.String()), nil
}

func (ms *MCPServer) handleAsk(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	question, ok := args["question"].(string)
	if !ok {
		return mcp.NewToolResultError("question argument required"), nil
	}

	answer, err := ms.ctrl.SubmitMessage(ctx, question, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("generation failed: %v", err)), nil
	}
	return mcp.NewToolResultText(answer), nil
}

func (ms *MCPServer) handleColumnStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	query, ok := args["column"].(string)
	if !ok {
		return mcp.NewToolResultError("column argument required"), nil
	}

	t := ms.ctrl.Session().Table
	if t == nil {
		return mcp.NewToolResultError("loaded document is not tabular"), nil
	}

	matches := repl.FindColumnsBySimilarity(query, t.Header)
	if len(matches) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("no column matches %q; columns: %s",
			query, strings.Join(t.Header, ", "))), nil
	}

	for _, c := range t.Columns {
		if c.Name != matches[0] {
			continue
		}
		if c.Kind == tabular.KindNumeric {
			return mcp.NewToolResultText(fmt.Sprintf(
				"%s (numeric): count=%d, mean=%.4g, std=%.4g, min=%.4g, 25%%=%.4g, 50%%=%.4g, 75%%=%.4g, max=%.4g",
				c.Name, c.Count, c.Mean, c.Std, c.Min, c.Q25, c.Median, c.Q75, c.Max)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf(
			"%s (categorical): count=%d, unique=%d, mode=%s (%d occurrences)",
			c.Name, c.Count, c.Unique, c.Mode, c.ModeCount)), nil
	}
	return mcp.NewToolResultError("column descriptor missing"), nil
}

func (ms *MCPServer) handleExportReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	dir, _ := args["output_dir"].(string)

	name, data, err := ms.ctrl.BuildReport(time.Now())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report build failed: %v", err)), nil
	}

	out := name
	if dir != "" {
		out = filepath.Join(dir, name)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("write failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("report written to %s (%d bytes)", out, len(data))), nil
}
