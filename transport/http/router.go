package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/slighter12/unity-mcp-go/logger"
	"github.com/slighter12/unity-mcp-go/mcp/jsonrpc"
	"github.com/slighter12/unity-mcp-go/transport/shared"
)

const maxJSONRPCBodyBytes = 1 << 20

const (
	headerSessionID       = "MCP-Session-Id"
	headerProtocolVersion = "MCP-Protocol-Version"
	mcpEndpoint           = "/mcp"
)

func RegisterRoutes(e *echo.Echo, s *Server) {
	e.GET("/", s.handleHTTPInfo)
	e.POST(mcpEndpoint, s.handleStreamableHTTPPost)
	e.GET(mcpEndpoint, s.handleStreamableHTTPGet)
	e.DELETE(mcpEndpoint, s.handleStreamableHTTPDelete)
	e.OPTIONS(mcpEndpoint, s.handleOptions)
	if s.gatherer != nil && s.config.Metrics.Enabled {
		e.GET(s.config.Metrics.Path, echo.WrapHandler(s.metricsHandler()))
	}
}

func invalidRequest(c echo.Context, status int, message string) error {
	return c.JSON(status, jsonrpc.NewErrorResponse(nil, jsonrpc.ErrInvalidRequest, message, nil))
}

func (s *Server) handleHTTPInfo(c echo.Context) error {
	logger.Debug("HTTP info requested", "remote_addr", c.RealIP())
	return c.JSON(http.StatusOK, map[string]any{
		"name":    s.info.Name,
		"version": s.info.Version,
		"capabilities": map[string]any{
			"stdio":           s.config.HasEnabledTransport("stdio"),
			"streamable_http": true,
		},
		"streamable_http_endpoint": mcpEndpoint,
		"resources":                s.resources.List(),
	})
}

func (s *Server) handleOptions(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func (s *Server) handleStreamableHTTPPost(c echo.Context) error {
	limitedBody := http.MaxBytesReader(c.Response(), c.Request().Body, maxJSONRPCBodyBytes)
	defer limitedBody.Close()

	body, err := io.ReadAll(limitedBody)
	if err != nil {
		if _, ok := errors.AsType[*http.MaxBytesError](err); ok {
			logger.Warn("Request body too large", "limit_bytes", maxJSONRPCBodyBytes, "remote_addr", c.RealIP())
			return invalidRequest(c, http.StatusRequestEntityTooLarge, "Request body too large")
		}
		logger.Error("Failed to read request body", "error", err)
		return c.JSON(http.StatusBadRequest, jsonrpc.NewErrorResponse(nil, jsonrpc.ErrParseError, "Parse error", nil))
	}

	frame, err := shared.ParseJSONRPCFrame(body)
	if err != nil || frame.Empty() {
		return c.JSON(http.StatusBadRequest, jsonrpc.NewErrorResponse(nil, jsonrpc.ErrParseError, "Parse error", nil))
	}
	if len(frame.Requests) == 0 && len(frame.Rejected) > 0 {
		return c.JSON(http.StatusBadRequest, frame.Rejected[0])
	}

	requestedVersion := strings.TrimSpace(c.Request().Header.Get(headerProtocolVersion))
	if requestedVersion != "" && !shared.IsSupportedProtocolVersion(requestedVersion) {
		return invalidRequest(c, http.StatusBadRequest, "Unsupported MCP-Protocol-Version header")
	}

	if frame.Reply {
		if _, status, msg := s.resolveSession(c, requestedVersion); status != 0 {
			return invalidRequest(c, status, msg)
		}
		return c.NoContent(http.StatusAccepted)
	}

	request := frame.Requests[0]
	if request.Method == "initialize" {
		version := shared.NegotiateProtocolVersion(request.Params)
		sessionID := s.sessions.CreateSession(version)
		logger.Info("MCP session created", "session_id", sessionID, "protocol_version", version)
		c.Response().Header().Set(headerSessionID, sessionID)
		return c.JSON(http.StatusOK, shared.BuildInitializeResponse(request, s.info, version))
	}

	sessionID, status, msg := s.resolveSession(c, requestedVersion)
	if status != 0 {
		return invalidRequest(c, status, msg)
	}
	c.Response().Header().Set(headerSessionID, sessionID)

	if request.Method == "notifications/initialized" {
		s.sessions.MarkInitialized(sessionID)
		return c.NoContent(http.StatusAccepted)
	}

	logger.Debug("Streamable HTTP request received", "method", request.Method, "id", request.ID, "session_id", sessionID)
	response := shared.DispatchStandardMethod(c.Request().Context(), request, s.toolManager, s.resources)
	if request.IsNotification() || response == nil {
		return c.NoContent(http.StatusAccepted)
	}
	return c.JSON(http.StatusOK, response)
}

// resolveSession checks the session and protocol headers of a non-initialize
// message. A non-zero status means the request must be rejected.
func (s *Server) resolveSession(c echo.Context, requestedVersion string) (string, int, string) {
	sessionID := strings.TrimSpace(c.Request().Header.Get(headerSessionID))
	if sessionID == "" {
		return "", http.StatusBadRequest, "Missing MCP-Session-Id header"
	}
	if !s.sessions.TouchSession(sessionID) {
		return "", http.StatusNotFound, "Unknown MCP session"
	}
	if requestedVersion != "" {
		session, _ := s.sessions.GetSession(sessionID)
		if session.ProtocolVersion != requestedVersion {
			return "", http.StatusBadRequest, "Invalid MCP-Protocol-Version header"
		}
	}
	return sessionID, 0, ""
}

// handleStreamableHTTPGet declines the optional server-to-client stream; the
// server never initiates messages.
func (s *Server) handleStreamableHTTPGet(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderAllow, strings.Join([]string{http.MethodPost, http.MethodDelete, http.MethodOptions}, ", "))
	return c.NoContent(http.StatusMethodNotAllowed)
}

func (s *Server) handleStreamableHTTPDelete(c echo.Context) error {
	sessionID := strings.TrimSpace(c.Request().Header.Get(headerSessionID))
	if sessionID == "" {
		return invalidRequest(c, http.StatusBadRequest, "Missing MCP-Session-Id header")
	}
	if !s.sessions.RemoveSession(sessionID) {
		return invalidRequest(c, http.StatusNotFound, "Unknown MCP session")
	}
	logger.Info("MCP session closed", "session_id", sessionID)
	return c.NoContent(http.StatusNoContent)
}
