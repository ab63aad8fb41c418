// SPDX-License-Identifier: MPL-2.0

// Package configrepo loads a configuration repository directory: it scans for
// environment and pipeline definition files, parses each one, rejects empty
// or malformed files with a per-file PluginError, normalizes pipelines and
// gathers everything into a Collection.
//
// A file that cannot be parsed, is empty, or holds an empty object does not
// stop the run. A pipeline that parses but does not have the shape the
// normalizer expects does: ParseDirectory returns the error and no
// Collection.
package configrepo
