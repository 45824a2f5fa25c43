// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
	xslices "golang.org/x/exp/slices"
)

const (
	ConfigLoadFailedId Id = iota + 1
	ConfigNotFoundId
	ServerNotFoundId
	SteamCmdNotFoundId
	SteamCmdFailedId
	DownloadFailedId
	PermissionDeniedId
	InteractiveUnavailableId
)

type (
	Id int

	MarkdownMsg string

	HttpLink string

	Renderer interface {
		Render(in string, stylePath string) (string, error)
	}

	Issue struct {
		id       Id          // ID used to lookup the issue
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		docLinks []HttpLink
		extLinks []HttpLink // external links that might be useful for the user
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return xslices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return xslices.Clone(i.extLinks)
}

// Render renders the issue as terminal markdown using the glamour style at
// stylePath ("dark", "light", "notty", or a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
		for _, link := range i.extLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load the configuration!

The configuration file exists but could not be read, parsed or validated.

## Things you can try:
- Check the error message above for the failing field path
- Compare your file with the generated defaults:
~~~
$ modctl config show
~~~

- Print the file modctl actually loaded:
~~~
$ modctl config path
~~~

## Example configuration:
~~~cue
steamcmd: {
	install_dir: "/srv/arma3"
	user:        "anonymous"
}
game: {
	app:          233780
	workshop_app: 107410
}
servers: {
	main: {
		mods: [450814997, {id: 463939057, name: "ace"}]
	}
}
~~~`,
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	configNotFoundIssue = &Issue{
		id: ConfigNotFoundId,
		mdMsg: `
# Configuration file not found!

The file passed with ` + "`--config`" + ` does not exist.

## Things you can try:
- Verify the path and try again
- Create a default configuration in the standard location:
~~~
$ modctl config init
~~~`,
	}

	serverNotFoundIssue = &Issue{
		id: ServerNotFoundId,
		mdMsg: `
# Server not found!

No server with that name is defined in the ` + "`servers`" + ` section of your configuration.
Server names are case-sensitive.

## Things you can try:
- List the configured servers:
~~~
$ modctl servers
~~~

- Add the server to your configuration:
~~~cue
servers: {
	main: {
		mods: [450814997]
	}
}
~~~`,
	}

	steamCmdNotFoundIssue = &Issue{
		id: SteamCmdNotFoundId,
		mdMsg: `
# steamcmd not found!

modctl could not find the steamcmd executable.

## Things you can try:
- Install steamcmd from your distribution or from Valve
- Point modctl at an existing installation:
~~~
$ export STEAMCMD=/opt/steamcmd/steamcmd.sh
~~~

- Or set it in the configuration file:
~~~cue
steamcmd: binary_path: "/opt/steamcmd/steamcmd.sh"
~~~`,
		extLinks: []HttpLink{"https://developer.valvesoftware.com/wiki/SteamCMD"},
	}

	steamCmdFailedIssue = &Issue{
		id: SteamCmdFailedId,
		mdMsg: `
# steamcmd exited with an error!

The steamcmd process ran but returned a non-zero exit code.

## Things you can try:
- Inspect the arguments modctl passed:
~~~
$ modctl plan <server> --quoted
~~~

- Re-run with retries, steamcmd often fails transiently on large downloads:
~~~
$ MODCTL_STEAMCMD_RETRIES=3 modctl install <server>
~~~

- Check the free disk space in the install directory`,
	}

	downloadFailedIssue = &Issue{
		id: DownloadFailedId,
		mdMsg: `
# Some workshop items failed to download!

steamcmd finished, but reported errors for one or more items.

## Things you can try:
- Verify the item ids on the Steam Workshop
- Items that require ownership of the game need a real account instead of anonymous:
~~~
$ modctl install <server> --user <steam-user>
~~~

- Retry, timeouts on large items are common`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

modctl or steamcmd could not access a file or directory.

## Things you can try:
- Check the ownership of the install directory
- Make sure the steamcmd executable has the execute bit set:
~~~
$ chmod +x /opt/steamcmd/steamcmd.sh
~~~`,
	}

	interactiveUnavailableIssue = &Issue{
		id: InteractiveUnavailableId,
		mdMsg: `
# Interactive session unavailable!

An interactive steamcmd session needs a terminal on standard input.

## Things you can try:
- Run the command from an interactive terminal
- Use a non-interactive install instead:
~~~
$ modctl install <server>
~~~`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():       configLoadFailedIssue,
		configNotFoundIssue.Id():         configNotFoundIssue,
		serverNotFoundIssue.Id():         serverNotFoundIssue,
		steamCmdNotFoundIssue.Id():       steamCmdNotFoundIssue,
		steamCmdFailedIssue.Id():         steamCmdFailedIssue,
		downloadFailedIssue.Id():         downloadFailedIssue,
		permissionDeniedIssue.Id():       permissionDeniedIssue,
		interactiveUnavailableIssue.Id(): interactiveUnavailableIssue,
	}
)

// Values returns every catalog issue ordered by id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return int(a.id) - int(b.id)
	})
}

func Get(id Id) *Issue {
	return issues[id]
}
