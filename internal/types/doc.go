/*
Package types defines core data structures shared across lorebench.

# Overview

The types package provides shared type definitions for:
  - Editing modes and the empty-state sentinel
  - The shared application state record and its settings slice
  - Workspace content documents (quests, projectiles, properties, notes)
  - Catalog edit history entries

# Modes

Mode:
  - One of script, property, note, projectile, quest
  - ModeNone is the empty state (no panel visible)
  - Indexes the coordinator's panel configuration table

# State

AppState:
  - Single record owned by the store
  - Fixed, statically-known field set
  - Settings held by pointer; a structurally-equal clone still counts
    as a change (identity comparison, not deep equality)

Settings:
  - The durable configuration slice
  - Persisted to the catalog on every change, loaded once at startup
*/
package types
