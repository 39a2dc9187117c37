// Package directive turns raw feature flag occurrences into directives.
//
// The normalizer is the first stage of feature resolution:
//
//	occurrences (from the argument parser)
//	    -> Normalize -> []Directive (ordinal order)
//	    -> resolve.Resolve
//
// Each occurrence's flag decides the directive's action and namespace; its
// value is split into a feature name and an optional modifier:
//
//	name            no modifier
//	name:undef      Undef modifier
//	name:adoption   Adoption modifier
//	name=value      NamedValue modifier carrying "value"
//
// The normalizer performs no eligibility checks and keeps unknown feature
// names so the resolver can report them. Ordinals are positions in the
// combined flag list, shared by all four feature flags.
package directive
