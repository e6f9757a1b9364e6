// Package jobgrab pulls a block of job description text out of arbitrary web
// pages using small declarative rules. A rule is normalized into a canonical
// form, compiled into a plain-data plan, and evaluated against every frame of
// a page, retrying until text appears or a deadline passes.
//
// This package contains domain types, interfaces and the pure parts of the
// engine. Implementations live in subdirectories named after their primary
// dependency (e.g., goquery/, rod/, sqlite/).
package jobgrab
