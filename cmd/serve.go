package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"ttconvert/config"
	"ttconvert/web"

	"github.com/spf13/cobra"
)

var (
	servePort   int
	serveNoOpen bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start local web UI for uploading and converting exports",
	Long: `Start a local HTTP server with an upload page, a weekly preview and
CSV/Excel downloads of the Dynamics import file.

Uploaded files are parsed once and kept in memory only; nothing is written to disk.`,
	Example: `
  # Start local server on the configured port
  ttconvert serve

  # Start on a custom port without opening a browser
  ttconvert serve --port 9090 --no-open
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		logger := newLogger(cmd.ErrOrStderr(), cfg.Log.Level, verbose)

		port, err := resolveServePort(servePort, cfg.Server.Port)
		if err != nil {
			return err
		}

		addr := fmt.Sprintf(":%d", port)
		server := &http.Server{
			Addr:              addr,
			Handler:           web.NewServer(*cfg, logger),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.ListenAndServe()
		}()

		listenURL := fmt.Sprintf("http://localhost:%d", port)
		fmt.Printf("Listening on %s\n", listenURL)
		logger.Info("server started", "addr", addr, "max_sessions", cfg.Server.MaxSessions)
		if !serveNoOpen {
			if openErr := openURLInBrowser(listenURL); openErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to open browser: %v\n", openErr)
			}
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-sigCh:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown server: %w", err)
			}
			err := <-errCh
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			logger.Info("server stopped")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP port for the local web server (default: server.port from config)")
	serveCmd.Flags().BoolVar(&serveNoOpen, "no-open", false, "Do not open browser automatically")
}

func resolveServePort(flagValue, configValue int) (int, error) {
	port := configValue
	if flagValue != 0 {
		port = flagValue
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("invalid port %d (expected 1-65535)", port)
	}
	return port, nil
}

func openURLInBrowser(rawURL string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", rawURL)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		cmd = exec.Command("xdg-open", rawURL)
	}
	return cmd.Start()
}
