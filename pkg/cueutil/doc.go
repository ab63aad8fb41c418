// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides the CUE helpers shared by the document parser, the
// strict schema checks and the config loader.
//
// Validation follows the usual three steps:
//
//  1. Compile the embedded schema
//  2. Compile the data and unify it with the schema definition
//  3. Validate the unified value
//
// # Usage
//
//	//go:embed pipeline_schema.cue
//	var schema []byte
//
//	err := cueutil.Validate(schema, data, "#Pipeline",
//	    cueutil.WithFilename("build.gopipeline.json"),
//	)
//	if err != nil {
//	    return err // includes the JSON path of the offending value
//	}
package cueutil
