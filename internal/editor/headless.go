package editor

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Headless is an in-process Bridge. It keeps the document as an ordered
// list of HTML fragments with a flat stylesheet, which is all the
// publishing workflow needs.
type Headless struct {
	mu   sync.Mutex
	live map[string]*document
}

// NewHeadless creates a headless editor bridge.
func NewHeadless() *Headless {
	return &Headless{live: make(map[string]*document)}
}

// Initialize creates a live instance for the container. It fails with
// ErrAlreadyInitialized while a previous instance is live.
func (h *Headless) Initialize(container string) (Instance, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.live[container]; ok {
		return nil, ErrAlreadyInitialized
	}

	doc := &document{
		owner:     h,
		container: container,
		commands:  make(map[string]CommandFunc),
	}
	h.live[container] = doc
	return doc, nil
}

// release is called by a document on Destroy.
func (h *Headless) release(container string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.live, container)
}

type node struct {
	id   NodeID
	html string
}

type document struct {
	owner     *Headless
	container string

	mu        sync.Mutex
	nodes     []node
	css       string
	selection NodeID
	commands  map[string]CommandFunc
	destroyed bool
}

var styleBlockRe = regexp.MustCompile(`(?is)<style[^>]*>(.*?)</style>`)

// splitStyles separates inline <style> blocks from markup.
func splitStyles(html string) (markup, css string) {
	var styles []string
	for _, m := range styleBlockRe.FindAllStringSubmatch(html, -1) {
		styles = append(styles, strings.TrimSpace(m[1]))
	}
	markup = strings.TrimSpace(styleBlockRe.ReplaceAllString(html, ""))
	return markup, strings.Join(styles, "\n")
}

func (d *document) LoadContent(html string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.destroyed {
		return ErrDestroyed
	}

	markup, css := splitStyles(html)
	d.nodes = []node{{id: NodeID(uuid.NewString()), html: markup}}
	d.css = css
	d.selection = ""
	return nil
}

func (d *document) HTML() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.destroyed {
		return "", ErrDestroyed
	}

	parts := make([]string, 0, len(d.nodes))
	for _, n := range d.nodes {
		parts = append(parts, n.html)
	}
	return strings.Join(parts, "\n"), nil
}

func (d *document) CSS() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.destroyed {
		return "", ErrDestroyed
	}
	return d.css, nil
}

func (d *document) AppendComponent(html string) (NodeID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.destroyed {
		return "", ErrDestroyed
	}

	markup, css := splitStyles(html)
	if css != "" {
		if d.css != "" {
			d.css += "\n"
		}
		d.css += css
	}

	// Into the selected node when one exists, otherwise at the root.
	if d.selection != "" {
		for i := range d.nodes {
			if d.nodes[i].id == d.selection {
				d.nodes[i].html += "\n" + markup
				return d.nodes[i].id, nil
			}
		}
	}

	n := node{id: NodeID(uuid.NewString()), html: markup}
	d.nodes = append(d.nodes, n)
	return n.id, nil
}

func (d *document) Selection() (NodeID, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.selection, d.selection != ""
}

func (d *document) Select(id NodeID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.destroyed {
		return ErrDestroyed
	}
	for _, n := range d.nodes {
		if n.id == id {
			d.selection = id
			return nil
		}
	}
	return ErrNoSelection
}

func (d *document) ClearSelection() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.selection = ""
}

func (d *document) SelectedHTML() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.destroyed {
		return "", ErrDestroyed
	}
	for _, n := range d.nodes {
		if n.id == d.selection {
			return n.html, nil
		}
	}
	return "", ErrNoSelection
}

func (d *document) ReplaceSelection(html string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.destroyed {
		return ErrDestroyed
	}

	markup, css := splitStyles(html)
	if css != "" {
		if d.css != "" {
			d.css += "\n"
		}
		d.css += css
	}

	for i := range d.nodes {
		if d.nodes[i].id == d.selection {
			d.nodes[i].html = markup
			return nil
		}
	}
	return ErrNoSelection
}

func (d *document) Nodes() []NodeID {
	d.mu.Lock()
	defer d.mu.Unlock()

	ids := make([]NodeID, len(d.nodes))
	for i, n := range d.nodes {
		ids[i] = n.id
	}
	return ids
}

func (d *document) RegisterCommand(name string, fn CommandFunc) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.destroyed {
		return ErrDestroyed
	}
	d.commands[name] = fn
	return nil
}

func (d *document) RunCommand(ctx context.Context, name, arg string) error {
	d.mu.Lock()
	if d.destroyed {
		d.mu.Unlock()
		return ErrDestroyed
	}
	fn, ok := d.commands[name]
	d.mu.Unlock()

	if !ok {
		return ErrUnknownCommand
	}
	// Run outside the lock so commands may call back into the instance.
	return fn(ctx, d, arg)
}

func (d *document) Destroy() {
	d.mu.Lock()
	if d.destroyed {
		d.mu.Unlock()
		return
	}
	d.destroyed = true
	d.mu.Unlock()

	d.owner.release(d.container)
}
