/*
Package dsl provides a Go DSL for programmatically constructing flow graphs.

It mirrors what a user does on the editor canvas: drop nodes, wire their
handles, and fill in their properties. It is handy for tests, for generating
scripts from code, and for seeding new projects.

Example usage:

	b := dsl.New()
	b.Start("start").Go("loop")
	b.Loop("loop", "API.Read_LoopyLoop()").Body("check")
	b.If("check", "API.InvFull_()").Then("bank").Else("gather")
	b.Call("bank", "BankOpen2")
	b.Call("gather", "DoAction_Object", "0x29", "0", "{1, 2}", "50")

	script := flowgen.Generate(b.Build())
*/
package dsl
