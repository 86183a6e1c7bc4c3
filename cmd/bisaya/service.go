package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gosuda/bisaya"
	bruntime "github.com/gosuda/bisaya/runtime"
)

// runVM executes the program on its own goroutine. Output and input
// prompts cross to the frontend as messages; the provider blocks on a
// response channel until the user answers.
func runVM(path string, events chan<- tea.Msg) {
	defer close(events)
	src, err := os.ReadFile(path)
	if err != nil {
		events <- vmDoneMsg{err: fmt.Errorf("read source: %w", err)}
		return
	}
	it, err := bisaya.Compile(string(src))
	if err != nil {
		events <- vmDoneMsg{err: err}
		return
	}

	it.SetOutputHook(func(out bruntime.Output) {
		events <- vmOutputMsg{out: out}
	})
	it.SetInputProvider(func() (string, error) {
		resp := make(chan vmInputResp, 1)
		events <- vmPromptMsg{resp: resp}
		r := <-resp
		return r.value, nil
	})

	_, err = it.Run()
	events <- vmDoneMsg{err: err}
}
