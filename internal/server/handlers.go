package server

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/clipwise/clipscribe/internal/api"
	"github.com/clipwise/clipscribe/internal/pipeline"

	"github.com/gin-gonic/gin"
)

// handleProcess runs the full transcribe-and-summarize flow.
func (s *Server) handleProcess(c *gin.Context) {
	var req api.ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorBody{Detail: "invalid request body"})
		return
	}

	s.logger.Info("Processing video", "url", req.URL, "language", req.TargetLanguage)

	result, err := s.proc.ProcessVideo(c.Request.Context(), req.URL, req.TargetLanguage)
	if err != nil {
		s.renderPipelineError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.ProcessResult{
		Transcription: result.Transcription,
		Summary:       result.Summary,
		AudioPath:     result.AudioPath,
	})
}

// handleExtractAudio stores just the audio track, with no duration cap.
func (s *Server) handleExtractAudio(c *gin.Context) {
	var req api.ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorBody{Detail: "invalid request body"})
		return
	}

	s.logger.Info("Extracting audio", "url", req.URL)

	extract, err := s.proc.ExtractAudio(c.Request.Context(), req.URL)
	if err != nil {
		s.renderPipelineError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.ExtractResult{
		AudioPath: extract.AudioPath,
		SizeMB:    extract.SizeMB,
	})
}

// handleDownloadAudio serves a stored audio file as an attachment.
func (s *Server) handleDownloadAudio(c *gin.Context) {
	name := c.Param("name")

	entry, err := s.audio.Resolve(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.JSON(http.StatusNotFound, api.ErrorBody{Detail: "audio file not found"})
			return
		}
		s.logger.Warn("Rejected audio download", "name", name, "error", err)
		c.JSON(http.StatusBadRequest, api.ErrorBody{Detail: err.Error()})
		return
	}

	c.FileAttachment(entry.Path, entry.Name)
}

// renderPipelineError maps pipeline failures onto {"detail": ...} bodies:
// bad input and the duration cap are the caller's problem, everything else
// is ours.
func (s *Server) renderPipelineError(c *gin.Context, err error) {
	var tooLong *pipeline.TooLongError

	switch {
	case errors.Is(err, pipeline.ErrInvalidURL):
		s.logger.Warn("Rejected video URL", "error", err)
		c.JSON(http.StatusBadRequest, api.ErrorBody{Detail: err.Error()})
	case errors.As(err, &tooLong):
		s.logger.Warn("Video over duration cap", "duration", tooLong.Duration, "limit", tooLong.Limit)
		c.JSON(http.StatusBadRequest, api.ErrorBody{Detail: tooLong.Error()})
	default:
		s.logger.Error("Pipeline failure", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorBody{Detail: err.Error()})
	}
}
