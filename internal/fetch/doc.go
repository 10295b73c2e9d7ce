package fetch

// Package fetch runs the asynchronous requests issued by views and the
// session validator. Every request returns a Handle; cancelling the handle
// guarantees the completion callback is never invoked afterwards, even if the
// response arrives later. Task lifecycle is tracked as model.FetchTask and
// propagated through an update callback.
