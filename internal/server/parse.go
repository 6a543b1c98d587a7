package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Flume-formerly-Laika/NL2Flow/internal/flow"
	"github.com/Flume-formerly-Laika/NL2Flow/pkg/api"
	"github.com/Flume-formerly-Laika/NL2Flow/pkg/log"
)

// handleParseRequest turns a natural-language request into a validated
// flow document. Every request gets a trace ID so the extraction can be
// followed through the logs.
func (s *Server) handleParseRequest(c *gin.Context) {
	var req api.ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error:  fmt.Sprintf("invalid request: %v", err),
			Status: http.StatusBadRequest,
		})
		return
	}

	traceID := uuid.NewString()
	slog.Info("Parse request received",
		log.TraceID(traceID),
		slog.Int("input_length", len(req.UserInput)))

	intent := s.intents.ExtractIntent(c.Request.Context(), req.UserInput)

	doc, err := flow.BuildFlow(intent, s.fieldRules)
	if err == nil {
		err = flow.Validate(doc)
	}
	if err != nil {
		slog.Error("Flow generation failed",
			log.TraceID(traceID), log.Error(err))
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Error:  fmt.Sprintf("processing failed: %v", err),
			Status: http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, api.ParseResponse{
		TraceID: traceID,
		Flow:    doc,
	})
}
