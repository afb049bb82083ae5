// Package assist orchestrates the upload/advisory/chat pipeline over one
// session. The controller processes one trigger to completion before the
// next; there is no background work and no cross-session state.
package assist

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hmasato/statchat/pkg/advisor"
	cerr "github.com/hmasato/statchat/pkg/common/errors"
	"github.com/hmasato/statchat/pkg/extract"
	"github.com/hmasato/statchat/pkg/report"
	"github.com/hmasato/statchat/pkg/session"
)

// Controller drives one session through its two triggers: Upload and
// SubmitMessage. It is re-entrant across the session lifetime and returns to
// idle after each trigger.
type Controller struct {
	gen  advisor.Generator
	sess *session.Session
}

// New creates a controller with a fresh session. The Generator must already
// hold a validated credential; construction of the Gemini client is the
// authentication gate for the whole pipeline.
func New(gen advisor.Generator) *Controller {
	return &Controller{gen: gen, sess: session.New()}
}

// Session exposes the session state for rendering.
func (c *Controller) Session() *session.Session {
	return c.sess
}

// fileIdentity derives the upload identity from name and size.
func fileIdentity(name string, data []byte) string {
	return fmt.Sprintf("%s:%d", name, len(data))
}

// Upload handles the upload trigger. A changed identity resets the session
// before anything else runs, then extracts; re-uploading the same identity
// preserves all existing state. Either way, a missing advisory is generated
// once extraction has succeeded, which also makes a failed advisory
// retryable by re-triggering.
func (c *Controller) Upload(ctx context.Context, name string, data []byte) error {
	id := fileIdentity(name, data)

	if id != c.sess.ActiveFileID {
		c.sess.Reset(id, name)

		res, err := extract.Extract(name, data)
		if err != nil {
			return err
		}
		c.sess.ExtractedText = res.Text

		if res.Table != nil {
			c.sess.Table = res.Table
			c.sess.SetCharts(res.Table.RenderCharts())
		}
	}

	if c.sess.HasContent() && c.sess.AdvisoryText == "" {
		prompt := advisor.AdvisoryPrompt(c.sess.ExtractedText, c.sess.Table != nil)
		text, err := c.gen.Generate(ctx, prompt)
		if err != nil {
			return err
		}
		c.sess.AdvisoryText = text
	}
	return nil
}

// SubmitMessage handles the chat trigger. It rejects before any external
// call when no content is loaded. The user turn is appended first, then the
// response streams; onUpdate republishes the running concatenation after
// every fragment. Only the final concatenation is persisted as the assistant
// turn. A mid-stream failure leaves the user turn in the transcript and
// appends no assistant turn.
func (c *Controller) SubmitMessage(ctx context.Context, text string, onUpdate func(string)) (string, error) {
	if !c.sess.HasContent() {
		return "", fmt.Errorf("%w: no document loaded", cerr.ErrInvalidInput)
	}

	c.sess.AppendUser(text)
	prompt := advisor.ChatPrompt(c.sess.ExtractedText, c.sess.Transcript)

	stream := c.gen.GenerateStream(ctx, prompt)
	var buf strings.Builder
	for {
		frag, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		buf.WriteString(frag)
		if onUpdate != nil {
			onUpdate(buf.String())
		}
	}

	final := buf.String()
	c.sess.AppendAssistant(final)
	return final, nil
}

// BuildReport assembles the downloadable document from the current session
// state and returns its filename and bytes.
func (c *Controller) BuildReport(now time.Time) (string, []byte, error) {
	if !c.sess.HasContent() {
		return "", nil, fmt.Errorf("%w: no document loaded", cerr.ErrInvalidInput)
	}

	data, err := report.Build(report.Params{
		FileName: c.sess.FileName,
		Content:  c.sess.ExtractedText,
		Advisory: c.sess.AdvisoryText,
		Charts:   c.sess.Charts,
		Now:      now,
	})
	if err != nil {
		return "", nil, err
	}
	return report.FileName(c.sess.FileName), data, nil
}
