package tui

type state int

const (
	kindsState state = iota
	bindingState
	searchState
	errorState
)
