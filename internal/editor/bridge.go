// Package editor defines the narrow capability interface the workflow
// needs from a visual page-building widget, and a headless in-memory
// implementation of it. The widget's internal document model, undo
// stack and rendering are deliberately not modelled: any widget that
// satisfies Bridge and Instance is interchangeable.
package editor

import (
	"context"
	"errors"
)

var (
	// ErrAlreadyInitialized is returned when Initialize is called while a
	// previous instance for the same container is still live. Callers must
	// destroy the old instance first.
	ErrAlreadyInitialized = errors.New("editor already initialized")

	// ErrDestroyed is returned by operations on a destroyed instance.
	ErrDestroyed = errors.New("editor instance destroyed")

	// ErrNoSelection is returned by selection-targeted operations when no
	// node is selected.
	ErrNoSelection = errors.New("no node selected")

	// ErrUnknownCommand is returned by RunCommand for unregistered names.
	ErrUnknownCommand = errors.New("unknown editor command")
)

// NodeID identifies a node inside a live editor document.
type NodeID string

// CommandFunc is a side-channel command registered on an instance, such
// as generate-or-modify. It receives the instance it was registered on
// and an opaque argument.
type CommandFunc func(ctx context.Context, inst Instance, arg string) error

// Instance is a live editor for one topic session.
type Instance interface {
	// LoadContent replaces the whole document. Inline <style> blocks are
	// absorbed into the stylesheet.
	LoadContent(html string) error

	// HTML returns the current document body markup.
	HTML() (string, error)

	// CSS returns the current stylesheet.
	CSS() (string, error)

	// AppendComponent inserts a fragment into the currently selected node
	// if one exists, otherwise at the document root. Returns the id of
	// the new node.
	AppendComponent(html string) (NodeID, error)

	// Selection returns the currently selected node, if any.
	Selection() (NodeID, bool)

	// Select marks a node as selected. ClearSelection deselects.
	Select(id NodeID) error
	ClearSelection()

	// SelectedHTML returns the markup of the selected node.
	SelectedHTML() (string, error)

	// ReplaceSelection swaps the selected node's markup for the given
	// fragment, keeping it selected.
	ReplaceSelection(html string) error

	// Nodes lists the document's top-level nodes in order.
	Nodes() []NodeID

	// RegisterCommand and RunCommand expose the widget's command
	// side-channel.
	RegisterCommand(name string, fn CommandFunc) error
	RunCommand(ctx context.Context, name, arg string) error

	// Destroy releases the instance so its container may be initialized
	// again.
	Destroy()
}

// Bridge creates editor instances. Initialize must be called exactly
// once per topic session; initializing a container whose instance is
// still live is a programming error.
type Bridge interface {
	Initialize(container string) (Instance, error)
}
