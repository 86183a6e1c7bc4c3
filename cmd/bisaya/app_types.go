package main

import (
	tea "github.com/charmbracelet/bubbletea"
	bruntime "github.com/gosuda/bisaya/runtime"
)

type vmStartedMsg struct {
	events <-chan tea.Msg
}

type vmOutputMsg struct {
	out bruntime.Output
}

type vmDoneMsg struct {
	err error
}

type vmInputResp struct {
	value string
}

type vmPromptMsg struct {
	resp chan vmInputResp
}

type vmPollMsg struct{}

type pendingInput struct {
	resp chan vmInputResp
}
