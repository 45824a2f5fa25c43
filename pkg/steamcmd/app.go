// SPDX-License-Identifier: MPL-2.0

package steamcmd

import "strconv"

type (
	// App is a Steam application id, e.g. 233780 for the Arma 3 dedicated server.
	// It is a distinct type so an app id cannot be passed where a workshop
	// item id is expected.
	App uint32

	// WorkshopRef pairs a workshop item with the app that owns it, which is
	// the pair +workshop_download_item expects.
	WorkshopRef struct {
		App  App
		Item WorkshopItem
	}
)

// String returns the decimal app id.
func (a App) String() string { return strconv.FormatUint(uint64(a), 10) }

// Item returns a reference to a workshop item owned by this app.
func (a App) Item(id uint32) WorkshopRef {
	return WorkshopRef{App: a, Item: WorkshopItem(id)}
}

// String returns "<app>/<item>".
func (r WorkshopRef) String() string {
	return r.App.String() + "/" + r.Item.String()
}
