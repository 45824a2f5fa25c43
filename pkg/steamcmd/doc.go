// SPDX-License-Identifier: MPL-2.0

// Package steamcmd builds command lines for the steamcmd tool.
//
// steamcmd reads its work from "+command arg..." tokens and executes them in
// order, so the order of the rendered tokens matters: the install directory
// must be forced before login, login must precede any app or workshop action,
// "validate" qualifies the +app_update immediately before it, and +quit ends
// the session.
//
// An Invocation records directives through chained calls and renders them
// exactly once:
//
//	args := steamcmd.NewInvocation().
//		ForceInstallDir("/srv/game").
//		Login("anonymous").
//		AppUpdate(233780, true).
//		WorkshopDownloadItem(107410, 450814997).
//		Quit()
//
// The package also resolves the steamcmd executable, honoring the STEAMCMD
// environment variable.
package steamcmd
