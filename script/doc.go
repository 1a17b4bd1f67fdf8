// Package script models script documents: INI-like files divided into
// named sections.
//
// [Load] reads one document; [LoadProject] discovers and loads a project
// tree in parallel. Section bodies are classified by name when the file is
// read, then settled using the document's own manifests. Bodies of encoded
// attachments are never kept in memory. Every [Section] moves through the
// states Unloaded, Loaded and Converted under its own lock, caching the
// commands or controls parsed from it.
//
// A [Cache] such as [cache.Store] can persist the raw read of each file
// across runs as an encoded [Snapshot].
package script
