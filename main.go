package main

import (
	"github.com/chintans1/mint-lunchmoney/cmd/accountmapping"
	"github.com/chintans1/mint-lunchmoney/cmd/categorymapping"
	"github.com/chintans1/mint-lunchmoney/cmd/createaccount"
	"github.com/chintans1/mint-lunchmoney/cmd/root"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(accountmapping.Cmd)
	root.Cmd.AddCommand(categorymapping.Cmd)
	root.Cmd.AddCommand(createaccount.Cmd)
}

func main() {
	root.Execute()
}
