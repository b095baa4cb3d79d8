// Command quoridor runs the Quoridor rules engine server.
//
// Subcommands:
//  1. "serve" (default) – HTTP server exposing the REST API, WebSocket updates and an /mcp endpoint
//  2. "mcp" – MCP stdio server that spins up an internal HTTP API if none is reachable
//  3. "demo" – plays a scripted game against the engine and prints every result
//  4. "validate-configs" – checks every rule set file in the config directory
//
// Settings come from the environment (and an optional .env file); flags override them.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/quoridor/api"
	"github.com/wricardo/quoridor/game/config"
	"github.com/wricardo/quoridor/game/service"
	"github.com/wricardo/quoridor/game/session"
	"github.com/wricardo/quoridor/transport/mcp"
	"github.com/wricardo/quoridor/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Quoridor Server"
)

const (
	cleanupInterval  = time.Hour
	autosaveInterval = time.Minute
	syncInterval     = 5 * time.Second
)

func main() {
	loadDotEnv()

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// newApp builds the command tree. Running without a subcommand serves HTTP.
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "quoridor",
		Usage:   "Quoridor rules engine with REST, WebSocket and MCP interfaces",
		Version: Version,
		Flags:   globalFlags(),
		Action:  serveAction,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP server with API, WebSocket and MCP endpoint",
				Action: serveAction,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "Run an MCP stdio server backed by the HTTP API",
				Action:  mcpAction,
			},
			{
				Name:   "demo",
				Usage:  "Play a scripted game against the engine and print each result",
				Action: demoAction,
			},
			{
				Name:   "validate-configs",
				Usage:  "Validate every rule set file in the config directory",
				Action: validateConfigsAction,
			},
		},
	}
}

// prepare loads settings and configures logging for a subcommand
func prepare(cmd *cli.Command) (*Settings, error) {
	s, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}
	setupLogging(s)
	return s, nil
}

// services bundles the wired managers so background routines can reach them
type services struct {
	game        service.GameService
	sessions    *session.Manager
	configs     *config.Manager
	persistence session.SessionPersistence
}

// initializeServices wires session/config managers and the game service. Session
// persistence is enabled only when a sessions directory is configured.
func initializeServices(s *Settings) (*services, error) {
	configManager, err := config.NewManager(s.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	out := &services{configs: configManager}

	if s.SessionsDir != "" {
		persistence, err := session.NewFilePersistence(s.SessionsDir, configManager)
		if err != nil {
			return nil, fmt.Errorf("failed to create session persistence: %w", err)
		}
		out.persistence = persistence
		out.sessions = session.NewManagerWithPersistence(persistence)

		if err := out.sessions.LoadPersistedSessions(); err != nil {
			log.Warnf("failed to load persisted sessions: %v", err)
		}
	} else {
		out.sessions = session.NewManager()
	}

	out.game = service.NewGameService(out.sessions, configManager)
	return out, nil
}

// startBackground launches cleanup, autosave and filesystem sync loops that stop
// when ctx is cancelled
func (svc *services) startBackground(ctx context.Context, wg *sync.WaitGroup, ttl time.Duration) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		sessionCleanupRoutine(ctx, svc.sessions, cleanupInterval, ttl)
	}()

	if svc.persistence == nil {
		return
	}

	wg.Add(2)
	go func() {
		defer wg.Done()
		autosaveRoutine(ctx, svc.sessions, autosaveInterval)
	}()
	go func() {
		defer wg.Done()
		filesystemSyncRoutine(ctx, svc.sessions, svc.persistence, syncInterval)
	}()
}

// sessionCleanupRoutine periodically drops sessions that have not been accessed
// within ttl. Persisted copies stay on disk.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, every, ttl time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(ttl); removed > 0 {
				log.Infof("cleaned up %d expired sessions", removed)
			}
		}
	}
}

func autosaveRoutine(ctx context.Context, manager *session.Manager, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := manager.SaveAllSessions(); err != nil {
				log.Warnf("autosave: %v", err)
			}
		}
	}
}

// filesystemSyncRoutine removes sessions from memory when their files are deleted
func filesystemSyncRoutine(ctx context.Context, manager *session.Manager, persistence session.SessionPersistence, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pruneDeletedSessions(manager, persistence)
		}
	}
}

func pruneDeletedSessions(manager *session.Manager, persistence session.SessionPersistence) int {
	pruned := 0
	for _, s := range manager.List() {
		if persistence.Exists(s.ID) {
			continue
		}
		if err := manager.DeleteFromMemory(s.ID); err == nil {
			pruned++
			log.WithField("session", s.ID).Info("pruned session from memory (file deleted)")
		}
	}
	return pruned
}

// newMCPHandler serves single JSON-RPC messages over HTTP POST
func newMCPHandler(mcpServer *server.MCPServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpServer.HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

// loopbackURL is the address in-process clients use to reach the HTTP server
func loopbackURL(s *Settings) string {
	host := s.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("http://%s", net.JoinHostPort(host, fmt.Sprint(s.Port)))
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	s, err := prepare(cmd)
	if err != nil {
		return err
	}

	log.Infof("starting %s v%s", AppName, Version)

	svc, err := initializeServices(s)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup

	hub := websocket.NewHub()
	wg.Add(1)
	go func() {
		defer wg.Done()
		hub.Run(ctx)
	}()

	svc.startBackground(ctx, &wg, s.SessionTTL)

	apiServer := api.NewServer(svc.game, hub)
	mcpClient := mcp.NewClient(loopbackURL(s))

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", newMCPHandler(mcpClient.GetMCPServer()))

	addr := s.Addr()
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("HTTP server listening on %s", addr)
		log.Infof("REST API: http://%s/api", addr)
		log.Infof("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Infof("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	if s.NgrokEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, s, mainRouter)
		}()
	}

	select {
	case <-ctx.Done():
		log.Info("shutting down...")
	case err := <-serveErr:
		if err != nil {
			stop()
			wg.Wait()
			return fmt.Errorf("HTTP server failed: %w", err)
		}
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warnf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()

	if err := svc.sessions.SaveAllSessions(); err != nil {
		log.Warnf("final save: %v", err)
	}

	log.Info("server stopped")
	return nil
}

// runNgrokTunnel exposes handler through an ngrok endpoint until ctx is cancelled
func runNgrokTunnel(ctx context.Context, s *Settings, handler http.Handler) {
	if s.NgrokAuthToken == "" {
		log.Warn("ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN or NGROK_AUTH_TOKEN)")
		return
	}

	log.Info("starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if s.NgrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(s.NgrokDomain))
		log.Infof("using custom ngrok domain: %s", s.NgrokDomain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(s.NgrokAuthToken))
	if err != nil {
		log.Errorf("failed to start ngrok tunnel: %v", err)
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Debugf("failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	log.WithField("url", ngrokURL).Info("ngrok tunnel established")
	log.Infof("  REST API (ngrok): %s/api", ngrokURL)
	log.Infof("  WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
	log.Infof("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.Errorf("ngrok server error: %v", err)
	}
	log.Info("ngrok tunnel closed")
}

// externalAPIAvailable reports whether an API server already answers at baseURL
func externalAPIAvailable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// startInternalAPI serves the REST API on a random loopback port and returns its URL
func startInternalAPI(ctx context.Context, gameService service.GameService) (string, *http.Server, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("failed to get available port: %w", err)
	}

	hub := websocket.NewHub()
	go hub.Run(ctx)

	httpServer := &http.Server{
		Handler: api.NewServer(gameService, hub),
	}

	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("internal HTTP server error: %v", err)
		}
	}()

	return fmt.Sprintf("http://%s", listener.Addr().String()), httpServer, nil
}

// mcpAction runs an MCP stdio server. It reuses an API server already listening on
// the configured address; otherwise it starts an internal one on a random port.
func mcpAction(ctx context.Context, cmd *cli.Command) error {
	s, err := prepare(cmd)
	if err != nil {
		return err
	}
	// stdout carries the protocol
	log.SetOutput(os.Stderr)

	baseURL := loopbackURL(s)
	if externalAPIAvailable(ctx, baseURL) {
		log.Infof("external API server found at %s, using it for MCP", baseURL)
	} else {
		log.Info("no external API server found, starting internal HTTP server")

		svc, err := initializeServices(s)
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}

		ctx, cancel := context.WithCancel(ctx)

		var wg sync.WaitGroup
		svc.startBackground(ctx, &wg, s.SessionTTL)
		defer wg.Wait()
		defer cancel()

		var httpServer *http.Server
		baseURL, httpServer, err = startInternalAPI(ctx, svc.game)
		if err != nil {
			return err
		}
		defer httpServer.Close()
		defer func() {
			if err := svc.sessions.SaveAllSessions(); err != nil {
				log.Warnf("final save: %v", err)
			}
		}()
		log.Infof("internal HTTP server on %s", baseURL)
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Info("MCP stdio server ready")

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

func demoAction(ctx context.Context, cmd *cli.Command) error {
	s, err := prepare(cmd)
	if err != nil {
		return err
	}

	configManager, err := config.NewManager(s.ConfigDir)
	if err != nil {
		return fmt.Errorf("failed to create config manager: %w", err)
	}

	rules := configManager.GetDefault()
	if name := cmd.Args().First(); name != "" {
		if rules, err = configManager.LoadConfig(name); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.Root().Writer, "Rule set: %s\n\n", rules.Name)
	accepted, err := runDemo(cmd.Root().Writer, rules)
	if err != nil {
		return err
	}
	log.Debugf("demo finished with %d of %d actions accepted", accepted, len(demoScript))
	return nil
}

func validateConfigsAction(ctx context.Context, cmd *cli.Command) error {
	s, err := prepare(cmd)
	if err != nil {
		return err
	}

	configManager, err := config.NewManager(s.ConfigDir)
	if err != nil {
		return fmt.Errorf("failed to create config manager: %w", err)
	}

	return reportConfigValidation(cmd.Root().Writer, configManager)
}

// reportConfigValidation prints one line per rule set file and fails if any is invalid
func reportConfigValidation(w io.Writer, configManager *config.Manager) error {
	failures, checked, err := configManager.ValidateAll()
	if err != nil {
		return err
	}

	for _, name := range checked {
		if ferr, bad := failures[name]; bad {
			fmt.Fprintf(w, "✗ %s: %v\n", name, ferr)
		} else {
			fmt.Fprintf(w, "✓ %s\n", name)
		}
	}

	if len(failures) > 0 {
		names := make([]string, 0, len(failures))
		for name := range failures {
			names = append(names, name)
		}
		sort.Strings(names)
		return fmt.Errorf("%d invalid rule set file(s): %v", len(failures), names)
	}

	fmt.Fprintf(w, "%d rule set file(s) valid\n", len(checked))
	return nil
}
