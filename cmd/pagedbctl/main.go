// Command pagedbctl is a readline-driven REPL over a pagedb database
// directory: parse a statement with internal/sql, execute it with
// internal/engine, print the result. Grounded on the teacher's main.go
// REPL loop (prompt, read line, dispatch), generalised from its two
// hard-coded statement kinds to the full parser/executor pair.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/go-logr/stdr"
	"github.com/spf13/viper"

	"pagedb/internal/engine"
)

type config struct {
	Dir     string
	Prompt  string
	Verbose int
}

func loadConfig() config {
	v := viper.New()
	v.SetConfigName("pagedbctl")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/pagedbctl")
	v.SetDefault("dir", ".")
	v.SetDefault("prompt", "pagedb > ")
	v.SetDefault("verbose", 0)

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			fmt.Fprintf(os.Stderr, "pagedbctl: config: %v\n", err)
		}
	}

	return config{
		Dir:     v.GetString("dir"),
		Prompt:  v.GetString("prompt"),
		Verbose: v.GetInt("verbose"),
	}
}

func main() {
	cfg := loadConfig()

	stdr.SetVerbosity(cfg.Verbose)
	log := stdr.New(nil)

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "pagedbctl: %v\n", err)
		os.Exit(1)
	}
	db, err := engine.Open(cfg.Dir, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pagedbctl: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          cfg.Prompt,
		HistoryFile:     "",
		InterruptPrompt: "^C",
		EOFPrompt:       ".exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "pagedbctl: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	repl := &repl{db: db, rl: rl}
	repl.run()
}

type repl struct {
	db *engine.DB
	rl *readline.Instance
}

func (r *repl) run() {
	for {
		line, err := r.rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "pagedbctl: %v\n", err)
			return
		}

		switch result := r.handleMetaCommand(line); result {
		case metaCommandExit:
			return
		case metaCommandHandled:
			continue
		}

		if err := r.execute(line); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
}
