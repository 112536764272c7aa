// Package writer holds the output side of generation: Buffer collects the
// lines of one file with indentation tracking, WriteAll puts a complete file
// set on disk.
package writer
