// SPDX-License-Identifier: MPL-2.0

package install

import (
	"errors"
	"fmt"
	"strings"

	"github.com/modctl/modctl/internal/config"
	"github.com/modctl/modctl/pkg/serverconfig"
	"github.com/modctl/modctl/pkg/steamcmd"
	"github.com/modctl/modctl/pkg/types"
)

var (
	// ErrServerNotFound is the sentinel error wrapped by ServerNotFoundError.
	ErrServerNotFound = errors.New("server not found")
	// ErrInvalidRequest is the sentinel error wrapped by InvalidRequestError.
	ErrInvalidRequest = errors.New("invalid install request")
)

type (
	// Request describes one install or shell session. NewRequest fills it
	// from configuration; callers override fields from flags.
	Request struct {
		// Server names the configured server whose mods are installed.
		Server string
		// InstallDir is passed to +force_install_dir when set.
		InstallDir types.FilesystemPath
		// User is passed to +login when HasUser is set.
		User string
		// HasUser marks User as set; an empty User then still renders +login.
		HasUser bool
		// App is the dedicated server app; zero skips the app update.
		App steamcmd.App
		// WorkshopApp owns the workshop items; zero means App.
		WorkshopApp steamcmd.App
		// Validate appends "validate" to the app update.
		Validate bool
		// SkipApp omits the app update.
		SkipApp bool
		// SkipMods omits the workshop downloads.
		SkipMods bool
	}

	// ServerNotFoundError is returned when a request names a server that is
	// not configured.
	ServerNotFoundError struct {
		Name  string
		Known []string
	}

	// InvalidRequestError collects field-level errors of a Request.
	InvalidRequestError struct {
		FieldErrors []error
	}
)

// Error implements the error interface.
func (e *ServerNotFoundError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("server %q not found (no servers configured)", e.Name)
	}
	return fmt.Sprintf("server %q not found (configured: %s)", e.Name, strings.Join(e.Known, ", "))
}

// Unwrap returns ErrServerNotFound for errors.Is() compatibility.
func (e *ServerNotFoundError) Unwrap() error { return ErrServerNotFound }

// Error implements the error interface.
func (e *InvalidRequestError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid install request: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidRequest followed by the field errors.
func (e *InvalidRequestError) Unwrap() []error {
	return append([]error{ErrInvalidRequest}, e.FieldErrors...)
}

// NewRequest returns a request for server using the steamcmd and game
// settings of cfg.
func NewRequest(cfg *config.Config, server string) Request {
	return Request{
		Server:      server,
		InstallDir:  cfg.SteamCmd.InstallDir,
		User:        cfg.SteamCmd.User,
		HasUser:     cfg.SteamCmd.User != "",
		App:         cfg.Game.App,
		WorkshopApp: cfg.Game.EffectiveWorkshopApp(),
		Validate:    cfg.Game.Validate,
	}
}

// EffectiveWorkshopApp returns WorkshopApp, or App when WorkshopApp is zero.
func (r Request) EffectiveWorkshopApp() steamcmd.App {
	if r.WorkshopApp != 0 {
		return r.WorkshopApp
	}
	return r.App
}

// Resolve returns a copy with a leading "~" in InstallDir expanded.
func (r Request) Resolve() (Request, error) {
	if r.InstallDir.IsZero() {
		return r, nil
	}
	dir, err := r.InstallDir.Expand()
	if err != nil {
		return r, err
	}
	r.InstallDir = dir
	return r, nil
}

// Plan renders the steamcmd arguments that install req.Server:
// install directory and login when set, the app update unless skipped or
// zero, then one download per distinct mod in configuration order, then
// +quit.
func Plan(servers serverconfig.Config, req Request) (steamcmd.Args, error) {
	server, ok := servers.Get(req.Server)
	if !ok {
		return nil, &ServerNotFoundError{Name: req.Server, Known: servers.Names()}
	}

	mods := server.UniqueMods()
	if req.SkipMods {
		mods = nil
	}
	if len(mods) > 0 && req.EffectiveWorkshopApp() == 0 {
		return nil, &InvalidRequestError{FieldErrors: []error{
			fmt.Errorf("server %q has %d mods but no workshop app is set (game.workshop_app or game.app)", req.Server, len(mods)),
		}}
	}

	inv := session(req)
	if req.App != 0 && !req.SkipApp {
		inv.AppUpdate(req.App, req.Validate)
	}
	app := req.EffectiveWorkshopApp()
	for _, m := range mods {
		inv.WorkshopDownloadItem(app, steamcmd.WorkshopItem(m.ID()))
	}
	return inv.Quit(), nil
}

// ShellArgs renders the install directory and login of req without +quit,
// leaving steamcmd at its prompt.
func ShellArgs(req Request) steamcmd.Args {
	return session(req).Build()
}

func session(req Request) *steamcmd.Invocation {
	inv := steamcmd.NewInvocation()
	if !req.InstallDir.IsZero() {
		inv.ForceInstallDir(req.InstallDir.String())
	}
	if req.HasUser {
		inv.Login(req.User)
	}
	return inv
}
