// SPDX-License-Identifier: MPL-2.0

package steamcmd

import (
	"errors"
	"fmt"
)

// steamcmd command tokens.
const (
	TokenForceInstallDir      = "+force_install_dir"
	TokenLogin                = "+login"
	TokenAppUpdate            = "+app_update"
	TokenValidate             = "validate"
	TokenWorkshopDownloadItem = "+workshop_download_item"
	TokenQuit                 = "+quit"
)

const (
	// StateAccumulating means directives may still be recorded.
	StateAccumulating State = iota
	// StateRendered means the invocation was rendered by Build or Quit and
	// accepts no further calls.
	StateRendered
)

const (
	actionAppUpdate actionKind = iota + 1
	actionWorkshopDownload
)

// ErrInvocationConsumed is the panic value (wrapped) raised when an Invocation
// is used after Build or Quit.
var ErrInvocationConsumed = errors.New("steamcmd invocation already rendered")

type (
	// State is the lifecycle state of an Invocation.
	State uint8

	actionKind uint8

	// action is one recorded +app_update or +workshop_download_item.
	action struct {
		kind     actionKind
		app      App
		item     WorkshopItem
		validate bool
	}

	// Invocation accumulates steamcmd directives and renders them once.
	//
	// The install directory and login are singletons: repeated calls replace
	// the previous value, and they always render first, directory before login,
	// whatever order they were set in. App updates and workshop downloads render
	// in exactly the order they were recorded.
	//
	// An Invocation is not safe for concurrent use. The zero value is an
	// empty accumulating Invocation.
	Invocation struct {
		installDir    string
		hasInstallDir bool
		user          string
		hasUser       bool
		actions       []action
		state         State
	}
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateAccumulating:
		return "accumulating"
	case StateRendered:
		return "rendered"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// NewInvocation returns an empty Invocation in the accumulating state.
func NewInvocation() *Invocation {
	return &Invocation{}
}

// ForceInstallDir sets the directory steamcmd installs apps into.
func (inv *Invocation) ForceInstallDir(path string) *Invocation {
	inv.mustAccumulate("ForceInstallDir")
	inv.installDir = path
	inv.hasInstallDir = true
	return inv
}

// Login sets the Steam account to log in as ("anonymous" for public content).
func (inv *Invocation) Login(user string) *Invocation {
	inv.mustAccumulate("Login")
	inv.user = user
	inv.hasUser = true
	return inv
}

// AppUpdate records an install or update of app. When validate is set, the
// "validate" token is rendered right after this update's app id.
func (inv *Invocation) AppUpdate(app App, validate bool) *Invocation {
	inv.mustAccumulate("AppUpdate")
	inv.actions = append(inv.actions, action{kind: actionAppUpdate, app: app, validate: validate})
	return inv
}

// WorkshopDownloadItem records a download of item, owned by app.
func (inv *Invocation) WorkshopDownloadItem(app App, item WorkshopItem) *Invocation {
	inv.mustAccumulate("WorkshopDownloadItem")
	inv.actions = append(inv.actions, action{kind: actionWorkshopDownload, app: app, item: item})
	return inv
}

// Download is WorkshopDownloadItem for a WorkshopRef.
func (inv *Invocation) Download(ref WorkshopRef) *Invocation {
	return inv.WorkshopDownloadItem(ref.App, ref.Item)
}

// Len returns the number of recorded app updates and workshop downloads.
func (inv *Invocation) Len() int { return len(inv.actions) }

// State returns the current lifecycle state.
func (inv *Invocation) State() State { return inv.state }

// Build renders the recorded directives without a trailing +quit, leaving
// the steamcmd session open for interactive use. The Invocation is consumed.
func (inv *Invocation) Build() Args {
	inv.mustAccumulate("Build")
	return inv.render(false)
}

// Quit renders the recorded directives followed by +quit. The Invocation is
// consumed.
func (inv *Invocation) Quit() Args {
	inv.mustAccumulate("Quit")
	return inv.render(true)
}

func (inv *Invocation) render(quit bool) Args {
	inv.state = StateRendered

	size := len(inv.actions) * 3
	if inv.hasInstallDir {
		size += 2
	}
	if inv.hasUser {
		size += 2
	}
	if quit {
		size++
	}

	args := make(Args, 0, size)
	if inv.hasInstallDir {
		args = append(args, TokenForceInstallDir, inv.installDir)
	}
	if inv.hasUser {
		args = append(args, TokenLogin, inv.user)
	}
	for _, a := range inv.actions {
		switch a.kind {
		case actionAppUpdate:
			args = append(args, TokenAppUpdate, a.app.String())
			if a.validate {
				args = append(args, TokenValidate)
			}
		case actionWorkshopDownload:
			args = append(args, TokenWorkshopDownloadItem, a.app.String(), a.item.String())
		}
	}
	if quit {
		args = append(args, TokenQuit)
	}

	return args
}

// mustAccumulate panics if the invocation can no longer record or render.
func (inv *Invocation) mustAccumulate(method string) {
	if inv.state == StateRendered {
		panic(fmt.Errorf("steamcmd: %s: %w", method, ErrInvocationConsumed))
	}
}
