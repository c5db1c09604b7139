// Package manifest decodes YAML wiring manifests into engine inputs.
//
// A manifest is the seat of the external collaborators the engine
// depends on: declaration discovery (the declarations list), scope
// configuration, and the type-compatibility oracle (the types and
// assignable fact tables). Decoding validates shape and converts
// everything to binding/graph values; the engine itself never sees
// YAML.
package manifest
