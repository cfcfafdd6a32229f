// Package trace defines the instrumentation hooks the build engine fires
// around level and layer spans. Callers hand a Hooks value to the runtime
// to observe startup progress; Merge composes hook sets from multiple
// observers. Hook failures cannot exist by construction (callbacks return
// nothing), and the engine never lets hooks alter control flow.
package trace
