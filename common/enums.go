// Package common holds enums shared by configuration and command actions.
package common

// Asset store backend.
// ENUM(memory, sqlite)
type StoreBackend string

// Specification of requested output type.
// ENUM(yaml, json, html)
type OutputFmt string

func (o OutputFmt) Ext() string {
	switch o {
	case OutputFmtYaml:
		return ".yaml"
	case OutputFmtJson:
		return ".json"
	case OutputFmtHtml:
		return ".html"
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}
