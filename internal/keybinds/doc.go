/*
Package keybinds provides customizable keyboard binding management.

# Overview

The keybinds package implements a context-aware keyboard binding system.
Each panel has its own context; keys unresolved in the panel context fall
back to the global context.

# Key Concepts

Context Hierarchy:
  - Global: Bindings available everywhere
  - Panel contexts: script, property, note, projectile, quest
  - TextInput/Confirm: active while an input or prompt is focused

Action System:
  - Actions are constants (ActionQuit, ActionOpenScript, etc.)
  - Keys map to actions within contexts
  - Same action can have different keys in different contexts

# Configuration File Format

Keybindings are stored in JSON format, mapping actions to comma-separated
key lists:

	{
	  "global": {
	    "quit": "q",
	    "toggle_sidebar": "b"
	  },
	  "script": {
	    "open_script": "enter",
	    "open_filter": "/"
	  },
	  "quest": {
	    "next_stage": "l,right"
	  }
	}

# Reserved Keys

ctrl+c is reserved for force quit; rebinding it generates a warning.

# Multi-Key Sequences

The registry supports the 'gg' go-to-top sequence. A lone 'g' reports a
partial match and the next key completes or discards the sequence.

# Validation

The validator checks for:
  - Invalid key formats
  - Reserved key rebindings (warnings)
  - Shadowing of global bindings (warnings)
*/
package keybinds
