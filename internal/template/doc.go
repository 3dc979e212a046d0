// Package template renders deploy.json skeletons for new lineages.
//
// Each deploy target ships one embedded fragment holding its section with
// placeholder values; Skeleton assembles the selected fragments into a
// complete deploy.json the operator edits before the first renewal fires.
package template
