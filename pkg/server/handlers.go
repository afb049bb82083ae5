package server

import (
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hmasato/statchat/pkg/common/errors"
)

const docxMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

func handleError(c *gin.Context, err error) {
	appErr := errors.MapError(err)
	log.Printf("request failed: %v", err)
	c.JSON(appErr.Code, gin.H{"error": appErr.Message, "detail": appErr.Error()})
}

// handleCreateSession registers a fresh session and returns its ID.
func (s *Server) handleCreateSession(c *gin.Context) {
	id := s.sessions.Create()
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// handleCloseSession tears the session down.
func (s *Server) handleCloseSession(c *gin.Context) {
	s.sessions.Close(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// handleUpload runs the upload trigger: one multipart file per request.
func (s *Server) handleUpload(c *gin.Context) {
	ctrl, err := s.sessions.Get(c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		handleError(c, errors.NewAppError(http.StatusBadRequest, "Missing file field", err))
		return
	}

	f, err := fh.Open()
	if err != nil {
		handleError(c, errors.NewAppError(http.StatusBadRequest, "Unreadable upload", err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		handleError(c, errors.NewAppError(http.StatusBadRequest, "Unreadable upload", err))
		return
	}

	if err := ctrl.Upload(c.Request.Context(), fh.Filename, data); err != nil {
		handleError(c, err)
		return
	}

	sess := ctrl.Session()
	titles := make([]string, 0, len(sess.Charts))
	for t := range sess.Charts {
		titles = append(titles, t)
	}
	sort.Strings(titles)

	c.JSON(http.StatusOK, gin.H{
		"file":     sess.FileName,
		"tabular":  sess.Table != nil,
		"content":  sess.ExtractedText,
		"advisory": sess.AdvisoryText,
		"charts":   titles,
	})
}

// handleChat runs the chat trigger. The response body is the assistant text
// streamed as plain-text chunks in arrival order; the final body equals the
// persisted assistant message.
func (s *Server) handleChat(c *gin.Context) {
	ctrl, err := s.sessions.Get(c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, errors.NewAppError(http.StatusBadRequest, "Invalid request body", err))
		return
	}
	if req.Message == "" {
		handleError(c, errors.NewAppError(http.StatusBadRequest, "Empty message", nil))
		return
	}
	if !ctrl.Session().HasContent() {
		handleError(c, errors.NewAppError(http.StatusBadRequest, "No document loaded", errors.ErrInvalidInput))
		return
	}

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Status(http.StatusOK)

	// Fragments are flushed as they arrive. The controller republishes the
	// whole buffer per fragment; the wire carries only the delta.
	written := 0
	_, err = ctrl.SubmitMessage(c.Request.Context(), req.Message, func(buffer string) {
		delta := buffer[written:]
		written = len(buffer)
		if delta == "" {
			return
		}
		if _, werr := c.Writer.WriteString(delta); werr != nil {
			return
		}
		c.Writer.Flush()
	})
	if err != nil {
		// Headers are already out once streaming started; the truncated body
		// plus the log line is all we can do mid-stream.
		if written == 0 {
			appErr := errors.MapError(err)
			c.Writer.WriteString(appErr.Message)
		}
		log.Printf("chat stream failed: %v", err)
	}
}

// handleReport builds the docx artifact for download.
func (s *Server) handleReport(c *gin.Context) {
	ctrl, err := s.sessions.Get(c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	name, data, err := ctrl.BuildReport(time.Now())
	if err != nil {
		handleError(c, err)
		return
	}

	// Filename carries Japanese; only the RFC 5987 form survives transport.
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(name))
	c.Data(http.StatusOK, docxMIME, data)
}
