/*
Package tui implements the terminal interface.

# Overview

The interface is a bubbletea program layered over the coordination core.
Key presses never mutate panels directly: mode keys write the target mode
to the store, the coordinator reacts through its store subscription, and
the update loop learns about the completed transition from the event bus.

# Components

Regions (regions.go):
  - Named visual areas with hidden/display/opacity/interactive flags
  - Registry table looked up by id on every use

Animator (animator.go):
  - Opacity fade between panel regions
  - Blocking SwitchPanel consumed by the coordinator

Model (model.go, keys.go, render.go):
  - Bubbletea state machine
  - Keybinding dispatch through the keybinds registry
  - Lipgloss rendering of sidebar, panel, metadata strip and status bar

# Event Flow

	key press -> store.Set(uiMode)
	          -> coordinator.SwitchTo (own goroutine)
	          -> bus "panel:shown"
	          -> update loop re-renders

The workspace watcher publishes "content:reloaded" on external edits; the
update loop reloads every initialized panel in response.
*/
package tui
