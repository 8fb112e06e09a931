// Package host implements the Graph Host (spec component C7): a thin
// lifecycle wrapper around a NodeTree and an Executor, adding the
// allow_ui_execution gate that lets a UI-driven front-end suppress
// execution thrash while a user is still dragging a control.
package host
