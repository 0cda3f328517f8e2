// Package bridge connects the tracking receiver, the rule repository,
// and the avatar reconciler into one running pipeline.
//
// The Engine owns the evaluation step: it binds the latest tracking
// values into every compiled rule and produces the desired parameter
// list. On a fixed interval it pushes live values to the endpoint; on
// rule-file changes and on a cron schedule it runs a full
// reconciliation pass, recording each pass in the journal.
package bridge
