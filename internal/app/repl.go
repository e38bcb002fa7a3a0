package app

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/statevault/internal/engine/version"
)

const replUsage = `Commands:
  show                 print the current state
  initial              print the initial state
  at <i>               print the state at version index i
  commit <json>        shallow-merge a JSON delta onto the current state
  set <path> <value>   set a (possibly nested) path and commit the change
  get <path>           query the current state by path
  undo                 step back one version
  redo                 step forward one version
  rewind <n>           step back n versions (clamped at the first)
  reset [--hard]       return to the initial state; --hard discards history
  log                  list all versions
  info                 show cursor position and history size
  eval <file.lua>      run a Lua script against the state
  lua <chunk>          run an inline Lua chunk
  help                 show this help
  quit                 exit`

// Run reads commands from the input until EOF or quit.
func (a *App) Run() error {
	fmt.Fprintln(a.out, "statevault interactive shell. Type 'help' for commands.")

	scanner := bufio.NewScanner(a.in)
	for {
		fmt.Fprint(a.out, "sv> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if err := a.Execute(line); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			fmt.Fprintf(a.out, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

// Execute runs a single command line.
func (a *App) Execute(line string) error {
	cmd, rest := splitCommand(line)

	switch cmd {
	case "help":
		fmt.Fprintln(a.out, replUsage)
		return nil
	case "quit", "exit":
		return ErrQuit
	case "show":
		return a.printJSON(a.state.CurrentState())
	case "initial":
		return a.printJSON(a.state.InitialState())
	case "at":
		return a.cmdAt(rest)
	case "commit":
		return a.cmdCommit(rest)
	case "set":
		path, value := splitCommand(rest)
		return a.cmdSet(path, value)
	case "get":
		return a.cmdGet(rest)
	case "undo":
		return a.printJSON(a.state.Undo())
	case "redo":
		return a.printJSON(a.state.Redo())
	case "rewind":
		return a.cmdRewind(rest)
	case "reset":
		return a.cmdReset(rest)
	case "log":
		return a.cmdLog()
	case "info":
		return a.cmdInfo()
	case "eval":
		return a.cmdEval(rest)
	case "lua":
		return a.cmdLua(rest)
	default:
		return fmt.Errorf("unknown command %q (try 'help')", cmd)
	}
}

// splitCommand splits a line into its first word and the remainder.
func splitCommand(line string) (string, string) {
	parts := strings.SplitN(strings.TrimSpace(line), " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.TrimSpace(parts[1])
}

func (a *App) cmdReset(arg string) error {
	switch arg {
	case "":
		return a.printJSON(a.state.Reset(false))
	case "--hard":
		return a.printJSON(a.state.Reset(true))
	default:
		return errors.New("usage: reset [--hard]")
	}
}

func (a *App) cmdAt(arg string) error {
	index, err := strconv.Atoi(arg)
	if err != nil {
		return errors.New("usage: at <index>")
	}

	state, err := a.state.StateAt(index)
	if err != nil {
		return err
	}
	return a.printJSON(state)
}

func (a *App) cmdCommit(raw string) error {
	if raw == "" {
		return errors.New("usage: commit <json>")
	}

	var delta map[string]any
	if err := json.Unmarshal([]byte(raw), &delta); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	state, err := a.state.Commit(version.Value(delta))
	if err != nil {
		return err
	}

	a.logger.Debug("committed version %d", a.state.CurrentIndex())
	return a.printJSON(state)
}

// cmdSet sets a possibly nested path on the JSON image of the current
// state and commits the changed top-level key as a shallow delta.
func (a *App) cmdSet(path, raw string) error {
	if path == "" || raw == "" {
		return errors.New("usage: set <path> <value>")
	}

	// Bare words become strings; anything valid as JSON is taken as JSON.
	var val any
	if err := json.Unmarshal([]byte(raw), &val); err != nil {
		val = raw
	}

	doc, err := json.Marshal(a.state.CurrentState())
	if err != nil {
		return err
	}

	updated, err := sjson.Set(string(doc), path, val)
	if err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}

	top := path
	if i := strings.IndexByte(path, '.'); i >= 0 {
		top = path[:i]
	}

	state, err := a.state.CommitLabeled(fmt.Sprintf("set %q", path), version.Value{
		top: gjson.Get(updated, top).Value(),
	})
	if err != nil {
		return err
	}
	return a.printJSON(state)
}

func (a *App) cmdGet(path string) error {
	if path == "" {
		return errors.New("usage: get <path>")
	}

	doc, err := json.Marshal(a.state.CurrentState())
	if err != nil {
		return err
	}

	res := gjson.GetBytes(doc, path)
	if !res.Exists() {
		fmt.Fprintln(a.out, "(not found)")
		return nil
	}
	fmt.Fprintln(a.out, res.Raw)
	return nil
}

func (a *App) cmdRewind(arg string) error {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return errors.New("usage: rewind <n>")
	}
	return a.printJSON(a.state.Rewind(n))
}

func (a *App) cmdLog() error {
	for _, info := range a.state.Log() {
		marker := " "
		if info.Index == a.state.CurrentIndex() {
			marker = "*"
		}
		fmt.Fprintf(a.out, "%s %3d  %s  %s  %s\n",
			marker, info.Index, info.ID.String()[:8],
			info.Time.Format("15:04:05"), info.Label)
	}
	return nil
}

func (a *App) cmdInfo() error {
	fmt.Fprintf(a.out, "version %d of %d  undo:%v redo:%v\n",
		a.state.CurrentIndex(), a.state.VersionCount(),
		a.state.CanUndo(), a.state.CanRedo())
	return nil
}

func (a *App) cmdEval(name string) error {
	if name == "" {
		return errors.New("usage: eval <file.lua>")
	}

	path := name
	if !filepath.IsAbs(path) && a.cfg.Script.Dir != "" {
		path = filepath.Join(a.cfg.Script.Dir, name)
	}

	if err := a.engine.DoFile(path); err != nil {
		return fmt.Errorf("eval %s: %w", name, err)
	}
	return nil
}

func (a *App) cmdLua(chunk string) error {
	if chunk == "" {
		return errors.New("usage: lua <chunk>")
	}
	return a.engine.DoString(chunk)
}

// printJSON writes a state as indented JSON.
func (a *App) printJSON(state map[string]any) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, string(data))
	return nil
}
