package cli

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/videogen/outputs-preview/internal/config"
)

// promptProxyPassword asks for the proxy password on an interactive terminal
// when a proxy user is configured but PREVIEW_PROXY_PASSWORD is unset.
// Non-interactive runs keep the empty password and the proxy layer warns.
func promptProxyPassword(p *config.Proxy) error {
	if p.User == "" || p.Password != "" {
		return nil
	}
	if p.Mode != "basic" && p.Mode != "ntlm" {
		return nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil
	}

	fmt.Fprintf(os.Stderr, "Proxy password for %s@%s: ", p.User, p.Host)
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("read proxy password: %w", err)
	}
	p.Password = strings.TrimSpace(string(pw))
	return nil
}
