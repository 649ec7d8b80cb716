// Package models provides the data structures used throughout the application:
// the price change record read from a report, its classification, the effective
// date of a report and the rendered summary document.
package models
