package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	log "github.com/sirupsen/logrus"

	"github.com/wricardo/quoridor/game/engine"
	"github.com/wricardo/quoridor/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Quoridor",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Quoridor - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Two pawns race across a 9x9 board. Player 1 starts at (4,0) and must reach row 8.
Player 2 starts at (4,8) and must reach row 0. Players alternate turns; each turn is
one pawn move or one fence placement. Coordinates are (col,row), row 0 is the top.

AVAILABLE TOOLS:
- create_session: Create a new game session
- list_sessions: List all active sessions
- get_session: Get session details
- game_state: Get current board, turn and fences remaining
- move_pawn: Move a player's pawn to a target cell
- place_fence: Place a fence (orientation v or h) anchored at a cell
- legal_moves: List every cell a pawn can reach this turn
- fence_ledger: List the fences a player has placed
- reset_game: Reset to the initial position
- action_history: View past actions
- list_configs: List available rule sets
- game_instructions: Get the full rules
- describe_cell: Inspect one cell's occupant and fenced edges

TIP: call legal_moves before move_pawn to avoid rejected moves.`),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func playerProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
		"enum":        []int{1, 2},
	}
}

func coordProperty(axis string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": fmt.Sprintf("%s index (0-8)", axis),
		"minimum":     0,
		"maximum":     engine.BoardSize - 1,
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional rule set selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Rule set to use, e.g. classic, standard or blitz (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state with an ASCII board",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_pawn",
		Description: "Move a player's pawn to the target cell. Simple steps, straight jumps over the opponent and diagonal side-steps are allowed.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"player":     playerProperty("Player making the move"),
				"col":        coordProperty("Target column"),
				"row":        coordProperty("Target row"),
			},
			Required: []string{"session_id", "player", "col", "row"},
		},
	}, c.handleMovePawn)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "place_fence",
		Description: "Place a fence. A vertical fence blocks the anchor cell's west edge, a horizontal fence blocks its north edge.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"player":     playerProperty("Player placing the fence"),
				"orientation": map[string]interface{}{
					"type":        "string",
					"description": "Fence orientation: v (vertical) or h (horizontal)",
					"enum":        []string{"v", "h", "vertical", "horizontal"},
				},
				"col": coordProperty("Anchor column"),
				"row": coordProperty("Anchor row"),
			},
			Required: []string{"session_id", "player", "orientation", "col", "row"},
		},
	}, c.handlePlaceFence)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "legal_moves",
		Description: "List every cell a player's pawn can legally move to. Defaults to the player whose turn it is.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"player":     playerProperty("Player to inspect (optional)"),
			},
			Required: []string{"session_id"},
		},
	}, c.handleLegalMoves)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "fence_ledger",
		Description: "List the fences a player has placed and how many remain",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"player":     playerProperty("Player whose fences to list"),
			},
			Required: []string{"session_id", "player"},
		},
	}, c.handleFenceLedger)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the game to the initial position",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "action_history",
		Description: "Get the paginated history of accepted actions",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number (default 1)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Actions per page (default 20)",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"description": "asc or desc (default desc)",
					"enum":        []string{"asc", "desc"},
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleActionHistory)

	// Configuration
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available rule sets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the complete Quoridor rules as implemented by this server",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Describe one board cell: occupant, fenced edges and goal rows",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"col":        coordProperty("Column"),
				"row":        coordProperty("Row"),
			},
			Required: []string{"session_id", "col", "row"},
		},
	}, c.handleDescribeCell)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
			log.Debugf("undecodable error body from %s %s: %v", method, path, err)
		}
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	configID := request.GetString("config_id", "")

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, http.MethodPost, "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n\n%s",
		session.ID, session.ConfigName, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, http.MethodGet, "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := "unknown"
		if s.GameState != nil {
			status = string(s.GameState.Status)
		}
		result += fmt.Sprintf("- %s (Config: %s, Status: %s, Created: %s)\n",
			s.ID, s.ConfigName, status, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")
	if sessionID == "" {
		return mcp.NewToolResultError("session_id is required"), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, http.MethodGet, sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")
	if sessionID == "" {
		return mcp.NewToolResultError("session_id is required"), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, http.MethodGet, sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleMovePawn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")
	if sessionID == "" {
		return mcp.NewToolResultError("session_id is required"), nil
	}

	body := map[string]interface{}{
		"player": request.GetInt("player", 0),
		"col":    request.GetInt("col", -1),
		"row":    request.GetInt("row", -1),
	}

	var result service.ActionResult
	if err := c.apiCall(ctx, http.MethodPost, sessionPath(sessionID, "/move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActionResult(&result)), nil
}

func (c *Client) handlePlaceFence(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")
	if sessionID == "" {
		return mcp.NewToolResultError("session_id is required"), nil
	}

	body := map[string]interface{}{
		"player":      request.GetInt("player", 0),
		"orientation": request.GetString("orientation", ""),
		"col":         request.GetInt("col", -1),
		"row":         request.GetInt("row", -1),
	}

	var result service.ActionResult
	if err := c.apiCall(ctx, http.MethodPost, sessionPath(sessionID, "/fence"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActionResult(&result)), nil
}

func (c *Client) handleLegalMoves(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")
	if sessionID == "" {
		return mcp.NewToolResultError("session_id is required"), nil
	}

	path := sessionPath(sessionID, "/legal-moves")
	if player := request.GetInt("player", 0); player != 0 {
		path += fmt.Sprintf("?player=%d", player)
	}

	var resp service.LegalMovesResponse
	if err := c.apiCall(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatLegalMoves(&resp)), nil
}

func (c *Client) handleFenceLedger(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")
	if sessionID == "" {
		return mcp.NewToolResultError("session_id is required"), nil
	}
	player := request.GetInt("player", 0)

	var resp service.FenceLedgerResponse
	if err := c.apiCall(ctx, http.MethodGet, sessionPath(sessionID, fmt.Sprintf("/fences/%d", player)), nil, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatFenceLedger(&resp)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")
	if sessionID == "" {
		return mcp.NewToolResultError("session_id is required"), nil
	}

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}

	if err := c.apiCall(ctx, http.MethodPost, sessionPath(sessionID, "/reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleActionHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")
	if sessionID == "" {
		return mcp.NewToolResultError("session_id is required"), nil
	}

	params := url.Values{}
	if page := request.GetInt("page", 0); page > 0 {
		params.Set("page", fmt.Sprintf("%d", page))
	}
	if limit := request.GetInt("limit", 0); limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", limit))
	}
	if order := request.GetString("order", ""); order != "" {
		params.Set("order", order)
	}

	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, http.MethodGet, path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, http.MethodGet, "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Rule Sets:\n\n"
	for _, cfg := range configs {
		pathCheck := "off"
		if cfg.EnforcePathToGoal {
			pathCheck = "on"
		}
		result += fmt.Sprintf("• %s (config_id: %s)\n  %s\n  Fences per player: %d, Path check: %s\n\n",
			cfg.Name, cfg.ConfigID, cfg.Description, cfg.FencesPerPlayer, pathCheck)
	}

	return mcp.NewToolResultText(result), nil
}

const gameInstructions = `Quoridor - Complete Instructions

BOARD:
• 9x9 grid of cells, coordinates are (col,row) with (0,0) at the top-left
• Player 1 starts at (4,0) and wins on reaching row 8
• Player 2 starts at (4,8) and wins on reaching row 0
• Player 1 moves first; turns alternate after every accepted action

PAWN MOVES (move_pawn):
• SIMPLE: one step north, south, east or west into an empty cell with no fence in between
• COMPLICATED: a straight jump of two cells over the opponent's pawn when it stands
  directly adjacent and neither edge along the way is fenced
• DIAGONAL: when the opponent is adjacent and the cell behind it is blocked (by a fence
  or the board edge), step diagonally to either side of the opponent, provided the
  edges on that path are open
• Pawns never leave the board and never share a cell

FENCES (place_fence):
• Each player has a limited supply (10 in the classic rules)
• A fence is anchored at a cell and blocks exactly one edge of it:
  - v (vertical): the anchor's west edge
  - h (horizontal): the anchor's north edge
• A fence may not duplicate an edge that is already fenced, including the outer wall
• Some rule sets also refuse fences that would cut a player off from their goal row

ERRORS:
Rejected actions return an error code and leave the game unchanged:
not_your_turn, game_over, out_of_bounds, already_occupied_by_self,
illegal_move, no_fences_remaining, duplicate_fence, path_blocked,
invalid_orientation, illegal_fence

USEFUL TOOLS:
• legal_moves lists every target the engine would accept right now
• describe_cell shows which edges of a cell are fenced
• fence_ledger lists each player's placed fences

Good luck!`

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(gameInstructions), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")
	if sessionID == "" {
		return mcp.NewToolResultError("session_id is required"), nil
	}
	target := engine.Coord{Col: request.GetInt("col", -1), Row: request.GetInt("row", -1)}

	if !target.OnBoard() {
		return mcp.NewToolResultError(fmt.Sprintf("Coordinates %s are out of bounds. Board is %dx%d (0-%d for both col and row)",
			target, engine.BoardSize, engine.BoardSize, engine.BoardSize-1)), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, http.MethodGet, sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if state.Board == nil {
		return mcp.NewToolResultError("game state has no board"), nil
	}

	return mcp.NewToolResultText(describeCell(&state, target)), nil
}
