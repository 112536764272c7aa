// Package config loads the optional project file tbgen.yaml.
//
// The file is decoded with yaml.v3 and then checked against an embedded CUE
// schema. Values given on the command line take precedence; see Merge.
package config
