// ABOUTME: Google Calendar CLI commands
// ABOUTME: Handles OAuth setup and pushing meetings into a Google Calendar
package cli

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"golang.org/x/oauth2"

	"github.com/harperreed/rigboard/config"
	"github.com/harperreed/rigboard/store"
	"github.com/harperreed/rigboard/sync"
)

// GcalInitCommand runs the OAuth flow and saves the token.
func GcalInitCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	_ = fs.Parse(args)

	oauthConfig, err := sync.OAuthConfig()
	if err != nil {
		return fmt.Errorf("failed to get OAuth config: %w", err)
	}

	// Start local server for OAuth callback
	callbackChan := make(chan *oauth2.Token, 1)
	errChan := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/callback", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			errChan <- fmt.Errorf("no authorization code received")
			return
		}

		token, err := oauthConfig.Exchange(ctx, code)
		if err != nil {
			errChan <- fmt.Errorf("failed to exchange code: %w", err)
			return
		}

		callbackChan <- token
		_, _ = fmt.Fprintf(w, "Authorization successful! You can close this window.")
	})

	server := &http.Server{Addr: "localhost:8085", Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	authURL := oauthConfig.AuthCodeURL("state", oauth2.AccessTypeOffline)

	_, _ = fmt.Fprintln(stdout, "Opening browser for Google OAuth...")
	_, _ = fmt.Fprintf(stdout, "\nIf browser doesn't open, visit this URL:\n%s\n\n", authURL)

	_ = openBrowser(authURL)

	select {
	case token := <-callbackChan:
		_ = server.Shutdown(context.Background())

		path := sync.TokenPath()
		if err := sync.SaveToken(path, token); err != nil {
			return fmt.Errorf("failed to save token: %w", err)
		}

		_, _ = fmt.Fprintf(stdout, "\n✓ Authenticated successfully\n")
		_, _ = fmt.Fprintf(stdout, "✓ Tokens saved to %s\n\n", path)
		_, _ = fmt.Fprintln(stdout, "Ready to mirror! Run 'rigboard gcal push' to copy meetings into Google Calendar.")
		return nil

	case err := <-errChan:
		_ = server.Shutdown(context.Background())
		return fmt.Errorf("OAuth flow failed: %w", err)

	case <-ctx.Done():
		_ = server.Shutdown(context.Background())
		return ctx.Err()
	}
}

// GcalPushCommand mirrors meetings into the configured Google Calendar.
func GcalPushCommand(ctx context.Context, st *store.Store, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("push", flag.ExitOnError)
	client := fs.String("client", "", "Only push meetings for this client ID")
	calendarID := fs.String("calendar", cfg.GoogleCalendarID, "Target calendar ID")
	_ = fs.Parse(args)

	token, err := sync.LoadToken(sync.TokenPath())
	if err != nil {
		return fmt.Errorf("no authentication token found. Run 'rigboard gcal init' first: %w", err)
	}
	oauthConfig, err := sync.OAuthConfig()
	if err != nil {
		return err
	}

	service, err := sync.NewCalendarClient(ctx, oauthConfig, token)
	if err != nil {
		return err
	}

	return pushMeetings(ctx, st, sync.NewMirror(service, *calendarID, time.Local), *client)
}

// pushMeetings loads every page and mirrors it.
func pushMeetings(ctx context.Context, st *store.Store, mirror *sync.Mirror, clientID string) error {
	if err := loadAll(ctx, st, clientID); err != nil {
		return err
	}

	items := st.Visible()
	_, _ = fmt.Fprintf(stdout, "Mirroring %d meetings...\n", len(items))

	result, err := mirror.Push(ctx, items)
	if err != nil {
		return fmt.Errorf("calendar push failed: %w", err)
	}

	_, _ = fmt.Fprintf(stdout, "✓ Calendar updated: %d created, %d updated, %d removed, %d skipped\n",
		result.Created, result.Updated, result.Deleted, result.Skipped)
	return nil
}

// openBrowser attempts to open URL in default browser
func openBrowser(url string) error {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{url}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	default:
		cmd = "xdg-open"
		args = []string{url}
	}

	command := exec.Command(cmd, args...)
	return command.Start()
}
