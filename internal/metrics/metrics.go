// Package metrics provides application-level counters using stdlib expvar.
// Counters are automatically exported on the /debug/vars HTTP endpoint
// when the API server is running.
package metrics

import "expvar"

// Command counters.
var (
	CommandsTotal   = expvar.NewInt("desk_commands_total")
	CommandsBusy    = expvar.NewInt("desk_commands_busy_rejected_total")
	IntentMatches   = expvar.NewMap("desk_intent_matches")
	EffectFailures  = expvar.NewInt("desk_effect_failures_total")
	AgentCalls      = expvar.NewInt("desk_agent_calls_total")
	AgentFailures   = expvar.NewInt("desk_agent_failures_total")
	BatchesStaged   = expvar.NewInt("desk_batches_staged_total")
	BatchesCanceled = expvar.NewInt("desk_batches_canceled_total")
)

// Action counters.
var (
	ActionsNormalized = expvar.NewInt("desk_actions_normalized_total")
	ActionsDropped    = expvar.NewInt("desk_actions_dropped_total")
	ActionsExecuted   = expvar.NewInt("desk_actions_executed_total")
	ActionFailures    = expvar.NewInt("desk_action_failures_total")
	OrderCacheReloads = expvar.NewInt("desk_order_cache_reloads_total")
)

// Inc increments the given counter by 1.
func Inc(counter *expvar.Int) { counter.Add(1) }

// Add increments the given counter by n.
func Add(counter *expvar.Int, n int) { counter.Add(int64(n)) }

// IncIntent counts one match of the named intent.
func IncIntent(intent string) { IntentMatches.Add(intent, 1) }
