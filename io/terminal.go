package io

import (
	"path/filepath"

	"github.com/chzyer/readline"
	"github.com/shibukawa/configdir"
)

// Terminal is an interactive console with line editing, and input
// history saved in the per-user cache directory.
type Terminal struct {
	rl *readline.Instance
}

var _ Channel = (*Terminal)(nil)

// HistoryPath returns the location of the input history file, or "" if
// the cache directory can not be created.
func HistoryPath() (path string) {
	configDirs := configdir.New("ezrec", "xe")
	cacheDir := configDirs.QueryCacheFolder()
	if err := cacheDir.MkdirAll(); err == nil {
		path = filepath.Join(cacheDir.Path, "history")
	}
	return
}

// NewTerminal opens the interactive terminal.
func NewTerminal(prompt string) (term *Terminal, err error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		InterruptPrompt: "\n",
		HistoryFile:     HistoryPath(),
	})
	if err != nil {
		return
	}

	term = &Terminal{rl: rl}
	return
}

// ReadLine reads one edited line from the terminal.
func (term *Terminal) ReadLine() (line string, err error) {
	return term.rl.Readline()
}

// Write writes to the terminal, keeping any pending prompt intact.
func (term *Terminal) Write(data []byte) (n int, err error) {
	return term.rl.Stdout().Write(data)
}

// Close releases the terminal.
func (term *Terminal) Close() (err error) {
	return term.rl.Close()
}
