// Package connectors groups adapters that discover documents at their
// source. The filesystem connector walks and watches the data directory.
package connectors
