// Package jsonpath evaluates JSONPath-like expressions against in-memory
// JSON values. It favors interactive, best-effort behavior over strict
// RFC 9535 compliance: mid-path misses contribute nothing instead of
// failing, and unrecognized filter expressions never exclude a candidate.
//
// Supported segments:
//   - Child `.name` and descendant `..name`
//   - Wildcard `.*` / `[*]`
//   - Array index `[n]` and slice `[start:end]` (half-open, clipped)
//   - Quoted or bare bracket keys `['name']`
//   - Scalar filters `[?(@.name <op> <literal>)]` where
//     <op> → ==  !=  <  <=  >  >=
//
// Errors are reported only at the top level: a failed bare-identifier
// lookup on the root value, or an unexpected internal failure. Everything
// else degrades to an empty result.
package jsonpath
