// Package loaders provides DocumentLoader implementations for each
// supported file type and a Registry that loads whole directories.
//
// Every loader returns documents in file order with 0-based pages.
// Formats without pages (docx, markdown, csv) use page 0.
package loaders
