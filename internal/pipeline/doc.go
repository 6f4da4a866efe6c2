// Package pipeline runs the stages of a spider run in sequence.
//
// A run is crawl, then download, then record history. Each stage is a Step
// that receives the shared model.RunReport and fills in its part, so the
// stages stay independent of each other and of the command line.
//
// Cancellation is checked between steps. A cancelled context marks the
// report as cancelled and stops the pipeline; the steps already finished
// leave their partial results in the report.
package pipeline
