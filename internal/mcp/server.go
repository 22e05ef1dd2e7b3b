package mcp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"cqb/internal/envelope"
	"cqb/internal/logging"
	"cqb/internal/query"
)

// ToolHandler handles one tool call and returns an envelope response.
type ToolHandler func(params map[string]interface{}) (*envelope.Response, error)

// Server is the MCP stdio server.
type Server struct {
	stdin   io.Reader
	stdout  io.Writer
	scanner *bufio.Scanner
	logger  *logging.Logger
	version string
	engine  *query.Engine
	tools   map[string]ToolHandler
}

// NewServer creates an MCP server over the given engine. Logs must go
// to stderr: stdout carries the protocol stream.
func NewServer(version string, engine *query.Engine, logger *logging.Logger) *Server {
	s := &Server{
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		logger:  logger,
		version: version,
		engine:  engine,
		tools:   make(map[string]ToolHandler),
	}
	s.registerTools()
	return s
}

// NewServerForCLI creates a server with no engine, for commands that
// only need the tool definitions.
func NewServerForCLI() *Server {
	return &Server{tools: make(map[string]ToolHandler)}
}

// Start runs the message loop until EOF.
func (s *Server) Start() error {
	s.logger.Info("MCP server starting", map[string]interface{}{
		"version": s.version,
		"space":   s.engine.Space(),
	})

	for {
		msg, err := s.readMessage()
		if err != nil {
			if err == io.EOF {
				s.logger.Info("MCP server shutting down (EOF)", nil)
				return nil
			}
			s.logger.Error("error reading message", map[string]interface{}{
				"error": err.Error(),
			})
			// Unparseable lines get a null-id ParseError response.
			if errors.Is(err, errMalformedMessage) {
				_ = s.writeError(nil, ParseError, fmt.Sprintf("failed to parse message: %v", err))
			}
			continue
		}

		response := s.handleMessage(msg)

		// Notifications don't generate responses.
		if response != nil {
			if err := s.writeMessage(response); err != nil {
				s.logger.Error("error writing response", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}
}

// SetStdin sets the input stream (for testing)
func (s *Server) SetStdin(r io.Reader) {
	s.stdin = r
	s.scanner = nil
}

// SetStdout sets the output stream (for testing)
func (s *Server) SetStdout(w io.Writer) {
	s.stdout = w
}
