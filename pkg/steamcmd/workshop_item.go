// SPDX-License-Identifier: MPL-2.0

package steamcmd

import "strconv"

// WorkshopItemURL is the Steam Community page prefix for workshop items.
const WorkshopItemURL = "https://steamcommunity.com/sharedfiles/filedetails/?id="

// WorkshopItem is a Steam Workshop published file id.
type WorkshopItem uint32

// String returns the decimal item id.
func (w WorkshopItem) String() string { return strconv.FormatUint(uint64(w), 10) }

// URL returns the Steam Community page of the item. No request is made.
func (w WorkshopItem) URL() string { return WorkshopItemURL + w.String() }
