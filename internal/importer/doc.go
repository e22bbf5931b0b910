// Package importer parses watch-list titles from plain-text and JSON input.
package importer
