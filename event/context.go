package event

// Context is passed to handlers of cancellable events.
type Context struct {
	cancel bool
}

// C returns a new event context.
func C() *Context {
	return &Context{}
}

// Cancelled returns true if a handler cancelled the event.
func (ctx *Context) Cancelled() bool {
	return ctx.cancel
}

// Cancel cancels the event. The action that fired it is not carried out.
func (ctx *Context) Cancel() {
	ctx.cancel = true
}
