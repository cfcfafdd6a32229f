// Package topology partitions layer definitions into sequential dependency
// levels ahead of any build work.
//
// The planner repeatedly collects every unscheduled layer whose declared
// dependencies all sit in earlier levels; each pass becomes the next level.
// The resulting Plan guarantees:
//
//   - every dependency of a layer lives in a strictly earlier level
//   - layers within a level are mutually independent and may build in
//     parallel
//   - input order is preserved within a level
//
// A pass that collects nothing while layers remain means the graph cannot
// be scheduled, either because of a dependency cycle or a dependency on a
// name that was never submitted. Planning then fails with an
// errors.CycleError naming the stuck layers, and no build work starts.
//
// Plan.Metrics reports the level count and the size of the largest level,
// which is the peak concurrency a build of the plan can reach. Plan.Graph
// exports the dependency structure as DOT or Mermaid text for debugging.
package topology
