// Package network assembles the directed graph a steady solve runs on:
// nodes, two-port components, per-node incidence lists, and the
// boundary-condition table.
//
// What:
//
//   - Builder: collects nodes and components, validates references, and
//     freezes them into an immutable Network.
//   - Network: the frozen graph. Exposes component endpoints and per-node
//     incidence (which components enter/leave each node). Never mutated
//     after Build; schedules override component models at the problem
//     level instead.
//   - BCTable: per-node boundary pressure, enthalpy and temperature
//     entries. Temperature is mutually exclusive with enthalpy and must
//     be resolved to enthalpy (ConvertAllTemperatureBCs) before solving.
//     Free nodes (neither a pressure nor an enthalpy or temperature
//     entry) contribute two unknowns each to the solve
//     vector (NumFreeVars).
//
// Lifecycle: the Network is built once per system definition; the BCTable
// is rebuilt (or mutated by the owning caller) once per solve call from
// project settings and schedule overrides.
package network
