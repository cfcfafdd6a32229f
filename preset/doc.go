// Package preset merges named configuration bundles through an extends
// tree.
//
// A preset names routes, guards, and providers, and may extend other
// presets. Resolve flattens the tree: parent entries land before the
// extending preset's own, depth first, without deduplication. Presets are
// plain configuration data and never touch the layer build path; wiring a
// resolved preset into layer definitions is the application's business.
//
//	presets:
//	  base:
//	    routes: [home, login]
//	    guards: [session]
//	  admin:
//	    extends: [base]
//	    routes: [admin-panel]
//	    guards: [role-admin]
package preset
