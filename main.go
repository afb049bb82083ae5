package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hmasato/statchat/internal/chartfont"
	"github.com/hmasato/statchat/internal/manager"
	"github.com/hmasato/statchat/pkg/advisor"
	"github.com/hmasato/statchat/pkg/mcp"
	"github.com/hmasato/statchat/pkg/repl"
	"github.com/hmasato/statchat/pkg/server"
)

var rootCmd = &cobra.Command{
	Use:   "statchat",
	Short: "AI-assisted document and dataset analysis",
	Long: `statchat extracts text and tables from uploaded files (txt, md, pdf, csv),
summarizes them through Gemini, and answers questions about the content.
CSV files additionally get descriptive statistics, charts, and a docx report.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
		if err := chartfont.Setup(os.Getenv("CHART_FONT")); err != nil {
			log.Printf("chart font setup failed, using built-in typeface: %v", err)
		}
	},
	SilenceUsage: true,
}

var chatCmd = &cobra.Command{
	Use:   "chat <file>",
	Short: "Analyze a file and chat about it interactively",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := repl.DefaultConfig()
		cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
		return repl.Run(cmd.Context(), cfg, args[0])
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the REST API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		gen, err := advisor.New(cmd.Context(), os.Getenv("GEMINI_API_KEY"))
		if err != nil {
			return err
		}
		defer gen.Close()

		mgr := manager.NewSessionManager(gen)
		defer mgr.CloseAll()

		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		log.Printf("starting REST API server on :%s", port)
		return server.NewServer(mgr).Run(":" + port)
	},
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server on stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		gen, err := advisor.New(cmd.Context(), os.Getenv("GEMINI_API_KEY"))
		if err != nil {
			return err
		}
		defer gen.Close()

		return mcp.Run(cmd.Context(), gen)
	},
}

func main() {
	rootCmd.AddCommand(chatCmd, serveCmd, mcpCmd)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
