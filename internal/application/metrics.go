package application

import "expvar"

// Exposed on /api/debug/vars.
var (
	ordersCreated        = expvar.NewInt("orders_created")
	stockDecrementFailed = expvar.NewInt("stock_decrement_failed")
	objectDeleteFailed   = expvar.NewInt("object_delete_failed")
	jobsDispatched       = expvar.NewInt("jobs_dispatched")
)
