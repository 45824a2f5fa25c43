// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/modctl/modctl/pkg/steamcmd"
)

var (
	downloadedRe   = regexp.MustCompile(`^Success\. Downloaded item (\d+)`)
	appInstalledRe = regexp.MustCompile(`^Success! App '(\d+)' (?:fully installed|already up to date)`)
	failedItemRe   = regexp.MustCompile(`^ERROR! Download item (\d+) failed(?: \((.*)\))?`)
)

// errorPrefix starts every steamcmd failure line.
const errorPrefix = "ERROR!"

type (
	// Failure is one ERROR! line printed by steamcmd.
	Failure struct {
		// Item is the workshop item the line names, valid when HasItem is set.
		Item    steamcmd.WorkshopItem
		HasItem bool
		// Reason is the parenthesized cause, e.g. "Timeout", when present.
		Reason string
		// Line is the full output line.
		Line string
	}

	// Classifier is an io.Writer that scans steamcmd stdout line by line and
	// records downloaded items, installed apps and failures. It is safe for
	// concurrent use.
	Classifier struct {
		mu         sync.Mutex
		partial    []byte
		downloaded []steamcmd.WorkshopItem
		apps       []steamcmd.App
		failures   []Failure
	}
)

// String returns the item and reason, or the raw line for failures that do
// not name an item.
func (f Failure) String() string {
	if !f.HasItem {
		return f.Line
	}
	if f.Reason == "" {
		return fmt.Sprintf("item %s", f.Item)
	}
	return fmt.Sprintf("item %s (%s)", f.Item, f.Reason)
}

// NewClassifier returns an empty Classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Write consumes p, classifying every complete line. A trailing partial line
// is held until more data or Flush.
func (c *Classifier) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data := append(c.partial, p...)
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		c.classify(string(data[:i]))
		data = data[i+1:]
	}
	c.partial = bytes.Clone(data)
	return len(p), nil
}

// Flush classifies a pending partial line.
func (c *Classifier) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.partial) > 0 {
		c.classify(string(c.partial))
		c.partial = nil
	}
}

// Downloaded returns the items reported as downloaded, in output order.
func (c *Classifier) Downloaded() []steamcmd.WorkshopItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]steamcmd.WorkshopItem(nil), c.downloaded...)
}

// Apps returns the apps reported as installed or up to date.
func (c *Classifier) Apps() []steamcmd.App {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]steamcmd.App(nil), c.apps...)
}

// Failures returns the ERROR! lines seen so far.
func (c *Classifier) Failures() []Failure {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Failure(nil), c.failures...)
}

func (c *Classifier) classify(line string) {
	// steamcmd redraws progress with carriage returns.
	if i := strings.LastIndexByte(strings.TrimRight(line, "\r"), '\r'); i >= 0 {
		line = line[i+1:]
	}
	line = strings.TrimSpace(line)

	if m := downloadedRe.FindStringSubmatch(line); m != nil {
		if id, ok := parseID(m[1]); ok {
			c.downloaded = append(c.downloaded, steamcmd.WorkshopItem(id))
		}
		return
	}
	if m := appInstalledRe.FindStringSubmatch(line); m != nil {
		if id, ok := parseID(m[1]); ok {
			c.apps = append(c.apps, steamcmd.App(id))
		}
		return
	}
	if !strings.HasPrefix(line, errorPrefix) {
		return
	}

	f := Failure{Line: line}
	if m := failedItemRe.FindStringSubmatch(line); m != nil {
		if id, ok := parseID(m[1]); ok {
			f.Item = steamcmd.WorkshopItem(id)
			f.HasItem = true
		}
		f.Reason = m[2]
	}
	c.failures = append(c.failures, f)
}

func parseID(s string) (uint32, bool) {
	n, err := strconv.ParseUint(s, 10, 32)
	return uint32(n), err == nil
}
