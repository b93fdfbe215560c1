package main

import (
	"os"

	"github.com/flarebyte/ngc-helper/cmd/js-runtime/root"
	"github.com/flarebyte/ngc-helper/internal/funcs"
)

type exitCoder interface {
	ExitCode() int
}

func main() {
	if err := root.Execute(os.Args[1:]); err != nil {
		_ = funcs.WriteError(os.Stderr, err)
		code := 1
		if ec, ok := err.(exitCoder); ok {
			if c := ec.ExitCode(); c != 0 {
				code = c
			}
		}
		os.Exit(code)
	}
}
