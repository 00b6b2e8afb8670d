// Package orchestration drives the six-stage customer analysis pipeline.
//
// Each stage pairs a domain specialist prompt with one policy topic:
// evidence is retrieved from that topic, the reasoning model produces a
// structured contribution, and the contribution is appended to the
// run's shared state. Stages run sequentially because each builds on
// prior contributions. A final synthesis step merges all contributions
// with a deterministic risk assessment into one report.
//
// Failure handling is graded: transient model errors are retried with
// backoff, unparseable model output degrades the stage but not the run,
// a total failure of the first stage aborts the run, and an overall
// timeout yields a partial report alongside ErrPipelineTimeout.
package orchestration
