// Package api defines the wire-level types shared by the extractor, the
// snapshot store, the diff engine, and the HTTP surface: endpoint records,
// schema trees, diff entries, snapshots, scan reports, and flow documents.
package api
