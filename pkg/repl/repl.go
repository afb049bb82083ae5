// Package repl implements the interactive terminal surface: load one file,
// show the AI advisory, then chat about the content with live streaming
// output. Extra commands expose column statistics and report export.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hmasato/statchat/pkg/advisor"
	"github.com/hmasato/statchat/pkg/assist"
	"github.com/hmasato/statchat/pkg/tabular"
)

// Config holds configuration for the interactive session.
type Config struct {
	// GeminiAPIKey is the API key for Google Gemini.
	GeminiAPIKey string
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{}
}

// Run loads the file at path, prints the advisory, and enters the chat
// loop. The credential is validated before the file is touched.
func Run(ctx context.Context, cfg Config, path string) error {
	gen, err := advisor.New(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return err
	}
	defer gen.Close()

	ctrl := assist.New(gen)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	name := filepath.Base(path)
	fmt.Printf("「%s」の内容を読み込み中...\n", name)
	if err := ctrl.Upload(ctx, name, data); err != nil {
		return err
	}

	sess := ctrl.Session()
	fmt.Println("\n--- アップロードされたドキュメントの要約/分析提案 ---")
	fmt.Println(sess.AdvisoryText)
	if sess.Table != nil {
		fmt.Printf("\n(%d行 × %d列のデータ、チャート%d件を生成済み)\n",
			sess.Table.RowCount(), sess.Table.ColCount(), len(sess.Charts))
	}

	fmt.Println("\nファイル内容について質問してください。'stats <column>' で列の統計、'export [path]' でレポート出力、'exit' で終了。")

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "exit" || line == "quit" {
			break
		}
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "stats ") {
			runStatsCommand(sess.Table, strings.TrimSpace(strings.TrimPrefix(line, "stats ")))
			continue
		}

		if line == "export" || strings.HasPrefix(line, "export ") {
			out := strings.TrimSpace(strings.TrimPrefix(line, "export"))
			if err := runExportCommand(ctrl, out); err != nil {
				fmt.Printf("レポート出力に失敗しました: %v\n", err)
			}
			continue
		}

		if err := streamChat(ctx, ctrl, line); err != nil {
			fmt.Printf("\n応答の生成中にエラーが発生しました: %v\n", err)
		}
	}
	return nil
}

// streamChat prints fragments as they arrive; the final line is the full
// concatenation with no trailing cursor marker.
func streamChat(ctx context.Context, ctrl *assist.Controller, text string) error {
	printed := 0
	_, err := ctrl.SubmitMessage(ctx, text, func(buffer string) {
		fmt.Print(buffer[printed:])
		printed = len(buffer)
	})
	fmt.Println()
	return err
}

func runStatsCommand(t *tabular.Table, query string) {
	if t == nil {
		fmt.Println("読み込まれたファイルは表データではありません。")
		return
	}

	matches := FindColumnsBySimilarity(query, t.Header)
	if len(matches) == 0 {
		fmt.Printf("列「%s」が見つかりません。列: %s\n", query, strings.Join(t.Header, ", "))
		return
	}

	for _, c := range t.Columns {
		if c.Name != matches[0] {
			continue
		}
		switch c.Kind {
		case tabular.KindNumeric:
			fmt.Printf("%s (numeric): count=%d, mean=%.4g, std=%.4g, min=%.4g, 25%%=%.4g, 50%%=%.4g, 75%%=%.4g, max=%.4g\n",
				c.Name, c.Count, c.Mean, c.Std, c.Min, c.Q25, c.Median, c.Q75, c.Max)
		default:
			fmt.Printf("%s (categorical): count=%d, unique=%d, mode=%s (%d件)\n",
				c.Name, c.Count, c.Unique, c.Mode, c.ModeCount)
		}
	}
	if len(matches) > 1 {
		fmt.Printf("他の候補: %s\n", strings.Join(matches[1:], ", "))
	}
}

func runExportCommand(ctrl *assist.Controller, out string) error {
	name, data, err := ctrl.BuildReport(time.Now())
	if err != nil {
		return err
	}
	if out == "" {
		out = name
	} else if strings.HasSuffix(out, string(os.PathSeparator)) {
		out = filepath.Join(out, name)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("レポートを書き出しました: %s (%d bytes)\n", out, len(data))
	return nil
}
