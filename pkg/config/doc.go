// Package config turns a parsed KDL document into a resolved Config.
//
// Resolution walks the document once, in order. `env` nodes update the
// variable store, every string value is expanded against the store as it
// stands at that point, and each bundle gets its own child store when it
// declares variables. The first error stops resolution and is returned as a
// *diagnostics.Diagnostic pointing at the offending span. Problems that do
// not prevent installation are collected in Config.Warnings.
package config
