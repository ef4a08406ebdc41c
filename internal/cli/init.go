package cli

type InitCmd struct{}

// Run creates the database file and schema. The store is opened lazily, so
// this only makes the first use explicit and reports where the data lives.
func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.Store.Initialize(); err != nil {
		return err
	}
	ctx.Reschedule()
	ctx.printf("Database ready at %s\n", ctx.Store.Path())
	return nil
}
