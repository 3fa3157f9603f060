// Package catalog describes the API functions a generated script can call.
//
// The catalog is advisory: the generator emits whatever function name a node
// carries, while the validator and the editor surfaces use the catalog to
// report unknown functions and missing required parameters.
package catalog
