// Package connectors holds the source workspace clients. Each connector
// implements the driven ContentRepository and ContentConverter ports for
// one source system.
package connectors
