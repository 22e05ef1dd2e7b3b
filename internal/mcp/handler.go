package mcp

import (
	"encoding/json"
	"fmt"

	"cqb/internal/envelope"
	"cqb/internal/errors"
)

// handleMessage processes an incoming MCP message and returns a
// response, or nil for notifications.
func (s *Server) handleMessage(msg *Message) *Message {
	if msg.IsRequest() {
		return s.handleRequest(msg)
	}
	if msg.IsNotification() {
		s.handleNotification(msg)
		return nil
	}
	return NewErrorMessage(msg.Id, InvalidRequest, "invalid message: not a request or notification", nil)
}

func (s *Server) handleRequest(msg *Message) *Message {
	s.logger.Debug("handling request", map[string]interface{}{
		"method": msg.Method,
		"id":     msg.Id,
	})

	switch msg.Method {
	case "initialize":
		return NewResultMessage(msg.Id, s.handleInitialize(msg.Params))
	case "tools/list":
		return NewResultMessage(msg.Id, map[string]interface{}{
			"tools": s.GetToolDefinitions(),
		})
	case "tools/call":
		return s.handleCallToolRequest(msg)
	default:
		return NewErrorMessage(msg.Id, MethodNotFound, fmt.Sprintf("method not found: %s", msg.Method), nil)
	}
}

func (s *Server) handleNotification(msg *Message) {
	switch msg.Method {
	case "notifications/initialized":
		s.logger.Info("client initialized", nil)
	default:
		s.logger.Debug("ignoring notification", map[string]interface{}{
			"method": msg.Method,
		})
	}
}

// ServerCapabilities represents the capabilities exposed by the server
type ServerCapabilities struct {
	Tools *ToolsCapability `json:"tools,omitempty"`
}

// ToolsCapability represents the tools capability
type ToolsCapability struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

// ServerInfo identifies the server to the client
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InitializeResult represents the result of the initialize request
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      ServerInfo         `json:"serverInfo"`
}

func (s *Server) handleInitialize(params interface{}) *InitializeResult {
	if p, ok := params.(map[string]interface{}); ok {
		s.logger.Info("MCP server initializing", map[string]interface{}{
			"clientInfo": p["clientInfo"],
		})
	}

	return &InitializeResult{
		ProtocolVersion: "2024-11-05",
		Capabilities: ServerCapabilities{
			Tools: &ToolsCapability{},
		},
		ServerInfo: ServerInfo{
			Name:    "cqb",
			Version: s.version,
		},
	}
}

func (s *Server) handleCallToolRequest(msg *Message) *Message {
	params, ok := msg.Params.(map[string]interface{})
	if !ok {
		return NewErrorMessage(msg.Id, InvalidParams, "invalid params: expected object", nil)
	}

	result, err := s.handleCallTool(params)
	if err != nil {
		return NewErrorMessage(msg.Id, InternalError, err.Error(), nil)
	}
	return NewResultMessage(msg.Id, result)
}

// handleCallTool executes a tool. Tool-level failures become structured
// error envelopes in the tool result; only protocol-level problems
// (unknown tool, marshal failure) surface as JSON-RPC errors.
func (s *Server) handleCallTool(params map[string]interface{}) (interface{}, error) {
	toolName, ok := params["name"].(string)
	if !ok {
		return nil, errors.NewInvalidParameterError("name", "")
	}

	toolParams, ok := params["arguments"].(map[string]interface{})
	if !ok {
		toolParams = make(map[string]interface{})
	}

	handler, exists := s.tools[toolName]
	if !exists {
		return nil, errors.New(errors.InvalidParameter, fmt.Sprintf("unknown tool %q", toolName), nil)
	}

	s.logger.Info("calling tool", map[string]interface{}{
		"tool": toolName,
	})

	resp, err := handler(toolParams)
	if err != nil {
		resp = envelope.FromError(err)
	}

	jsonBytes, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("marshal tool response: %w", err)
	}

	result := map[string]interface{}{
		"content": []map[string]interface{}{
			{
				"type": "text",
				"text": string(jsonBytes),
			},
		},
	}
	if resp.Error != nil {
		result["isError"] = true
	}
	return result, nil
}
