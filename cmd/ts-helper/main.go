package main

import (
	"os"

	"github.com/flarebyte/ngc-helper/cmd/ts-helper/root"
	"github.com/flarebyte/ngc-helper/internal/extract"
)

func main() {
	if err := root.Execute(os.Args[1:]); err != nil {
		// The driver always expects a scan result, even on fatal failures.
		res := extract.NewResult()
		res.Errors = append(res.Errors, err.Error())
		_ = extract.WriteJSON(os.Stderr, res)
		os.Exit(1)
	}
}
