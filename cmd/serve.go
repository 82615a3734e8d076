package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/canvas/internal/db"
	"github.com/ziadkadry99/canvas/internal/playground"
	"github.com/ziadkadry99/canvas/internal/server"
	"github.com/ziadkadry99/canvas/internal/session"
	"github.com/ziadkadry99/canvas/internal/snippets"
	"github.com/ziadkadry99/canvas/internal/theme"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the browser playground",
	Long:  `Starts the HTTP playground: the editor page, its WebSocket, sandboxed previews and the export, theme and snippet APIs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}

		// Open database.
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return fmt.Errorf("creating data dir: %w", err)
		}
		dbPath := filepath.Join(cfg.DataDir, "canvas.db")
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		lib, err := snippets.Open(cfg.Snippets.Dir, cfg.Snippets.Include)
		if err != nil {
			return fmt.Errorf("loading snippets: %w", err)
		}

		prefs := theme.NewStore(database)
		stats := session.NewStore(database)
		manager := session.NewManager(session.Options{
			Breakpoint:   cfg.CompactBreakpoint,
			AutoRefresh:  cfg.Preview.AutoRefresh,
			Debounce:     cfg.Debounce(),
			ExportTitle:  cfg.Export.Title,
			DefaultTheme: cfg.Theme(),
		}, prefs, stats)

		srv := server.New(server.Config{
			Port:     cfg.Port,
			AllowAll: cfg.AllowAllOrigins,
		}, database)

		pg := playground.New(manager, lib, prefs, stats)
		pg.Verbose = verbose
		pg.RegisterRoutes(srv.Router())

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Sessions are closed before the deferred database.Close runs, so
		// their close times are recorded.
		shutdownDone := make(chan struct{})
		go func() {
			defer close(shutdownDone)
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
			pg.CloseConnections()
			manager.CloseAll(shutdownCtx)
		}()

		fmt.Fprintf(os.Stderr, "canvas %s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "  Snippets: %d\n", len(lib.Names()))
		fmt.Fprintf(os.Stderr, "  Auto refresh: %t\n", cfg.Preview.AutoRefresh)

		err = srv.Start()
		stop()
		<-shutdownDone
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
