package advisor

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/hmasato/statchat/pkg/session"
)

//go:embed prompts/persona.txt
var personaText string

//go:embed prompts/advisory.prompt
var advisoryPromptRaw string

//go:embed prompts/chat.prompt
var chatPromptRaw string

// Advisory instruction variants. The dataset variant asks for analysis
// suggestions over the structure summary; the document variant asks for a
// plain summary.
const (
	datasetInstruction  = "以下のCSVデータ構造の概要に基づき、このデータでどのような統計分析が可能か、3〜5行で簡潔に提案してください。"
	documentInstruction = "以下のドキュメントを3〜5行で簡潔に要約してください。"
)

// PromptConfig holds metadata from the YAML frontmatter.
type PromptConfig struct {
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
}

// Prompt represents a loaded prompt with config and template.
type Prompt struct {
	Config   PromptConfig
	Template *template.Template
}

// ParsePrompt parses a .prompt payload: YAML frontmatter between "---"
// delimiters, followed by a text/template body.
func ParsePrompt(raw string) (*Prompt, error) {
	parts := strings.SplitN(raw, "---", 3)
	if len(parts) < 3 {
		return nil, fmt.Errorf("invalid prompt format: missing frontmatter delimiters")
	}

	var config PromptConfig
	if err := yaml.Unmarshal([]byte(parts[1]), &config); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	tmpl, err := template.New("prompt").Parse(strings.TrimSpace(parts[2]))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template body: %w", err)
	}

	return &Prompt{Config: config, Template: tmpl}, nil
}

// Execute applies data to the template and returns the result string.
func (p *Prompt) Execute(data any) (string, error) {
	var buf bytes.Buffer
	if err := p.Template.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// The embedded prompts are static; a parse failure is a build defect, so
// panic at init rather than threading errors through every caller.
var (
	advisoryPrompt = mustParse(advisoryPromptRaw)
	chatPrompt     = mustParse(chatPromptRaw)
)

func mustParse(raw string) *Prompt {
	p, err := ParsePrompt(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// AdvisoryPrompt composes the one-shot advisory prompt: persona preamble,
// separator, the instruction variant for the content shape, then the
// extracted content.
func AdvisoryPrompt(content string, isTabular bool) string {
	instruction := documentInstruction
	if isTabular {
		instruction = datasetInstruction
	}
	out, err := advisoryPrompt.Execute(map[string]string{
		"Persona":     strings.TrimSpace(personaText),
		"Instruction": instruction,
		"Content":     content,
	})
	if err != nil {
		// Static template over a string map; cannot fail.
		panic(err)
	}
	return out
}

// ChatPrompt composes a chat-turn prompt: persona preamble, the full
// extracted content as a document block, then the entire transcript in
// arrival order, one "role: text" line per message. Nothing is summarized or
// truncated; every turn re-sends the full document and full history.
func ChatPrompt(content string, transcript []session.Message) string {
	var b strings.Builder
	for _, m := range transcript {
		b.WriteString(string(m.Role))
		b.WriteString(": ")
		b.WriteString(m.Text)
		b.WriteString("\n")
	}

	out, err := chatPrompt.Execute(map[string]string{
		"Persona":    strings.TrimSpace(personaText),
		"Content":    content,
		"Transcript": strings.TrimRight(b.String(), "\n"),
	})
	if err != nil {
		panic(err)
	}
	return out
}
