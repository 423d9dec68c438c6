package profiler

import (
	"fmt"
	"strings"
)

// FuncID is an opaque handle identifying one function value in the host.
// Two ids compare equal exactly when they denote the same underlying
// function. The engine never dereferences an id; it is only a map key.
type FuncID uint64

// Domain classifies where a profiled function comes from.
type Domain uint8

const (
	// DomainChunk is the top-level chunk of a loaded source.
	DomainChunk Domain = iota + 1
	// DomainScript is a function defined in script source.
	DomainScript
	// DomainNative is a function implemented by the host runtime.
	DomainNative
)

// String returns the string representation of Domain.
func (d Domain) String() string {
	switch d {
	case DomainChunk:
		return "main"
	case DomainScript:
		return "script"
	case DomainNative:
		return "native"
	default:
		return "unknown"
	}
}

// FuncName is the resolved, human-readable description of a function.
// It is derived once, the first time an identity is observed, and never
// recomputed, so a later anonymous-looking sighting of the same function
// cannot overwrite a correctly resolved name.
type FuncName struct {
	Name   string // declared name, empty if anonymous
	Kind   string // how the function is reachable ("global", "local", "method"), empty if unknown
	Source string // descriptor of the defining source
	Line   int    // defining line, 0 if unknown
	Domain Domain
}

// NameResolver produces the description of a function. Resolution costs a
// host round-trip, so the engine invokes it at most once per identity.
// A nil result is not an error; the entry simply stays unnamed.
type NameResolver func() *FuncName

// Render formats the name for display.
//
// The top-level chunk renders as "main chunk of <source> (<source>[:<line>])".
// Everything else renders as
// ["anonymous "][<kind> ]<domain> function [<name> ](<source>[:<line>]);
// optional parts that are missing are simply absent.
func (n FuncName) Render() string {
	loc := n.Source
	if n.Line > 0 {
		loc = fmt.Sprintf("%s:%d", n.Source, n.Line)
	}
	if n.Domain == DomainChunk {
		return fmt.Sprintf("main chunk of %s (%s)", n.Source, loc)
	}

	var sb strings.Builder
	if n.Name == "" {
		sb.WriteString("anonymous ")
	}
	if n.Kind != "" {
		sb.WriteString(n.Kind)
		sb.WriteByte(' ')
	}
	sb.WriteString(n.Domain.String())
	sb.WriteString(" function ")
	if n.Name != "" {
		sb.WriteString(n.Name)
		sb.WriteByte(' ')
	}
	sb.WriteString("(" + loc + ")")
	return sb.String()
}
