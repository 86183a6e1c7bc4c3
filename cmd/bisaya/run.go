package main

import (
	"fmt"
	"os"

	"github.com/gosuda/bisaya"
	bruntime "github.com/gosuda/bisaya/runtime"
)

func runPlain(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}
	it, err := bisaya.Compile(string(src))
	if err != nil {
		return err
	}

	it.SetOutputHook(func(out bruntime.Output) {
		fmt.Print(out.Text)
	})
	it.SetInputProvider(bruntime.ScanProvider(os.Stdin))

	_, err = it.Run()
	return err
}
