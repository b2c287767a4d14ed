// Package workflow defines the Temporal workflow for each weather pipeline.
// Workflows are thin, deterministic task chains: every piece of real work
// (HTTP fetches, transformations, SQL generation, database writes, email)
// happens in activities, and the workflow only sequences them and wires
// run-outcome notifications. All workflow code must use workflow-safe APIs only.
package workflow
