// Package bridge provides synchronous request-reply calls on top of
// broadcast dispatch.
//
// A Requester pairs a request carrying a replyTo tag with the reply a
// handler dispatches back under that tag. Dispatch is synchronous, so the
// whole exchange completes within a single Request call.
//
// Key features:
//   - Request-reply over the message bus without extra goroutines
//   - Correlation ID stamping and matching for each request
//   - One-shot reply handlers, registered only for the call's duration
//   - Error replies and handler failures surfaced to the caller
//
// Basic usage:
//
//	requester, err := bridge.NewRequester(bus)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	query := &FindUserQuery{BaseQuery: contracts.BaseQuery{
//	    BaseMessage: contracts.NewBaseMessage("FindUserQuery"),
//	    ReplyTo:     "FindUserReply",
//	}}
//
//	reply, err := requester.Request(ctx, query)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The query handler answers by dispatching its reply under the query's
// replyTo tag with the query's correlation ID; messaging.QueryHandlerAdapter
// does both automatically.
package bridge
