// Package undo provides a named undo/redo history.
//
// Each entry pairs a "do" closure with an "undo" closure. [Stack.Record]
// stores a pair for a change the caller has already made; [Stack.Do] makes
// the change and records it. [Stack.Begin] and [Stack.Commit] fold several
// records into one entry, which is how a whole drag gesture becomes a
// single "Move" in the history.
//
// Recording a new entry clears the redo list.
package undo
