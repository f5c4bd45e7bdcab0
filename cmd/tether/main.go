// Tether CLI - an interactive shell over the handle layer
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tliron/commonlog"

	"github.com/chazu/tether/handle"
	"github.com/chazu/tether/rt"
	"github.com/chazu/tether/store"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("tether")

// shellConfig is the optional ~/.tetherrc file.
type shellConfig struct {
	Database string `toml:"database"`
	Verbose  bool   `toml:"verbose"`
}

func loadRC(path string) (*shellConfig, error) {
	cfg := &shellConfig{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return cfg, nil
}

func main() {
	verbose := flag.Bool("v", false, "Verbose output")
	dbPath := flag.String("db", "", "Snapshot database path (default from ~/.tetherrc)")
	noRC := flag.Bool("no-rc", false, "Skip loading ~/.tetherrc")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tether [options]\n\n")
		fmt.Fprintf(os.Stderr, "Starts an interactive shell over a fresh runtime. Values are bound to\n")
		fmt.Fprintf(os.Stderr, "names and manipulated through handles.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  tether                 # Start the shell\n")
		fmt.Fprintf(os.Stderr, "  tether -db vals.db     # Persist snapshots to vals.db\n")
		fmt.Fprintf(os.Stderr, "  tether -no-rc          # Ignore ~/.tetherrc\n")
	}
	flag.Parse()

	cfg := &shellConfig{}
	if !*noRC {
		home, err := os.UserHomeDir()
		if err == nil {
			cfg, err = loadRC(filepath.Join(home, ".tetherrc"))
			if err != nil {
				fmt.Fprintf(os.Stderr, "tether: %v\n", err)
				os.Exit(1)
			}
		}
	}
	if *verbose || cfg.Verbose {
		commonlog.Configure(1, nil)
	} else {
		commonlog.Configure(0, nil)
	}
	if *dbPath == "" {
		*dbPath = cfg.Database
	}

	sh := &shell{
		runtime: rt.New(),
		names:   make(map[string]handle.Handle),
	}
	if *dbPath != "" {
		st, err := store.Open(*dbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tether: %v\n", err)
			os.Exit(1)
		}
		defer st.Close()
		sh.store = st
		log.Infof("snapshot database: %s", *dbPath)
	}

	sh.run(os.Stdin)
}

// shell holds the interactive session state: one runtime and a table of
// name -> handle bindings.
type shell struct {
	runtime *rt.Runtime
	names   map[string]handle.Handle
	store   *store.Store
}

func (sh *shell) run(in *os.File) {
	fmt.Println("tether shell - 'help' lists commands")
	scanner := bufio.NewScanner(in)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if fields[0] == "quit" || fields[0] == "exit" {
			return
		}
		if err := sh.dispatch(fields[0], fields[1:]); err != nil {
			fmt.Printf("error: %v\n", err)
		}
	}
}

// bind replaces a name binding, closing whatever was bound before.
func (sh *shell) bind(name string, h handle.Handle) {
	if old, ok := sh.names[name]; ok {
		old.Close()
	}
	sh.names[name] = h
}

// resolve parses an operand: a bound name, or a literal (integer, float,
// quoted string, true/false/none). The result is an owning handle the
// caller closes.
func (sh *shell) resolve(tok string) (handle.Handle, error) {
	if h, ok := sh.names[tok]; ok {
		return h.Clone(), nil
	}
	switch tok {
	case "true":
		return handle.FromBool(sh.runtime, true), nil
	case "false":
		return handle.FromBool(sh.runtime, false), nil
	case "none":
		return handle.None(sh.runtime), nil
	}
	if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return handle.FromInt(sh.runtime, n), nil
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return handle.FromFloat(sh.runtime, f), nil
	}
	if s, err := strconv.Unquote(tok); err == nil {
		return handle.FromString(sh.runtime, s), nil
	}
	return handle.Handle{}, fmt.Errorf("unknown name or literal %q", tok)
}

func need(args []string, n int, usage string) error {
	if len(args) < n {
		return fmt.Errorf("usage: %s", usage)
	}
	return nil
}

func (sh *shell) dispatch(cmd string, args []string) error {
	switch cmd {
	case "help":
		fmt.Print(helpText)
		return nil

	case "bind": // bind NAME VALUE
		if err := need(args, 2, "bind NAME VALUE"); err != nil {
			return err
		}
		h, err := sh.resolve(args[1])
		if err != nil {
			return err
		}
		sh.bind(args[0], h)
		return nil

	case "list", "tuple": // list NAME [VALUE...]
		if err := need(args, 1, cmd+" NAME [VALUE...]"); err != nil {
			return err
		}
		elems := make([]rt.Value, 0, len(args)-1)
		defer func() {
			for _, e := range elems {
				sh.runtime.DecRef(e)
			}
		}()
		for _, tok := range args[1:] {
			h, err := sh.resolve(tok)
			if err != nil {
				return err
			}
			elems = append(elems, h.Disown())
		}
		var v rt.Value
		if cmd == "tuple" {
			v = sh.runtime.NewTuple(elems)
		} else {
			v = sh.runtime.NewList(elems)
		}
		sh.bind(args[0], handle.Steal(sh.runtime, v))
		return nil

	case "dict": // dict NAME
		if err := need(args, 1, "dict NAME"); err != nil {
			return err
		}
		sh.bind(args[0], handle.Steal(sh.runtime, sh.runtime.NewDict()))
		return nil

	case "obj": // obj NAME TYPENAME
		if err := need(args, 2, "obj NAME TYPENAME"); err != nil {
			return err
		}
		t := handle.Steal(sh.runtime, sh.runtime.NewType(args[1]))
		defer t.Close()
		inst, err := t.Call()
		if err != nil {
			return err
		}
		sh.bind(args[0], inst)
		return nil

	case "set": // set CONTAINER KEY VALUE
		if err := need(args, 3, "set CONTAINER KEY VALUE"); err != nil {
			return err
		}
		c, ok := sh.names[args[0]]
		if !ok {
			return fmt.Errorf("unknown name %q", args[0])
		}
		key, err := sh.resolve(args[1])
		if err != nil {
			return err
		}
		defer key.Close()
		val, err := sh.resolve(args[2])
		if err != nil {
			return err
		}
		defer val.Close()
		ref, err := c.Index(key)
		if err != nil {
			return err
		}
		defer ref.Close()
		return ref.Set(val)

	case "get": // get CONTAINER KEY [NAME]
		if err := need(args, 2, "get CONTAINER KEY [NAME]"); err != nil {
			return err
		}
		c, ok := sh.names[args[0]]
		if !ok {
			return fmt.Errorf("unknown name %q", args[0])
		}
		key, err := sh.resolve(args[1])
		if err != nil {
			return err
		}
		v, err := c.GetItem(key)
		key.Close()
		if err != nil {
			return err
		}
		if len(args) > 2 {
			sh.bind(args[2], v)
			return nil
		}
		defer v.Close()
		return sh.show(v)

	case "attr": // attr OBJ NAME [BIND]
		if err := need(args, 2, "attr OBJ NAME [BIND]"); err != nil {
			return err
		}
		o, ok := sh.names[args[0]]
		if !ok {
			return fmt.Errorf("unknown name %q", args[0])
		}
		v, err := o.Attr(args[1])
		if err != nil {
			return err
		}
		if len(args) > 2 {
			sh.bind(args[2], v)
			return nil
		}
		defer v.Close()
		return sh.show(v)

	case "setattr": // setattr OBJ NAME VALUE
		if err := need(args, 3, "setattr OBJ NAME VALUE"); err != nil {
			return err
		}
		o, ok := sh.names[args[0]]
		if !ok {
			return fmt.Errorf("unknown name %q", args[0])
		}
		val, err := sh.resolve(args[2])
		if err != nil {
			return err
		}
		defer val.Close()
		return o.SetAttr(args[1], val)

	case "delattr": // delattr OBJ NAME
		if err := need(args, 2, "delattr OBJ NAME"); err != nil {
			return err
		}
		o, ok := sh.names[args[0]]
		if !ok {
			return fmt.Errorf("unknown name %q", args[0])
		}
		return o.Del(args[1])

	case "mcall": // mcall OBJ METHOD [ARG...]
		if err := need(args, 2, "mcall OBJ METHOD [ARG...]"); err != nil {
			return err
		}
		o, ok := sh.names[args[0]]
		if !ok {
			return fmt.Errorf("unknown name %q", args[0])
		}
		callArgs := make([]interface{}, 0, len(args)-2)
		for _, tok := range args[2:] {
			h, err := sh.resolve(tok)
			if err != nil {
				return err
			}
			defer h.Close()
			callArgs = append(callArgs, h)
		}
		v, err := o.MCall(args[1], callArgs...)
		if err != nil {
			return err
		}
		defer v.Close()
		return sh.show(v)

	case "repr", "print": // repr NAME
		if err := need(args, 1, cmd+" NAME"); err != nil {
			return err
		}
		h, err := sh.resolve(args[0])
		if err != nil {
			return err
		}
		defer h.Close()
		return sh.show(h)

	case "refs": // refs NAME
		if err := need(args, 1, "refs NAME"); err != nil {
			return err
		}
		h, ok := sh.names[args[0]]
		if !ok {
			return fmt.Errorf("unknown name %q", args[0])
		}
		fmt.Println(h.RefCount())
		return nil

	case "len": // len NAME
		if err := need(args, 1, "len NAME"); err != nil {
			return err
		}
		h, ok := sh.names[args[0]]
		if !ok {
			return fmt.Errorf("unknown name %q", args[0])
		}
		n, err := h.Len()
		if err != nil {
			return err
		}
		fmt.Println(n)
		return nil

	case "type": // type NAME
		if err := need(args, 1, "type NAME"); err != nil {
			return err
		}
		h, ok := sh.names[args[0]]
		if !ok {
			return fmt.Errorf("unknown name %q", args[0])
		}
		t, err := h.Type()
		if err != nil {
			return err
		}
		defer t.Close()
		return sh.show(t)

	case "cmp": // cmp A B
		if err := need(args, 2, "cmp A B"); err != nil {
			return err
		}
		a, err := sh.resolve(args[0])
		if err != nil {
			return err
		}
		defer a.Close()
		b, err := sh.resolve(args[1])
		if err != nil {
			return err
		}
		defer b.Close()
		n, err := a.Cmp(b)
		if err != nil {
			return err
		}
		fmt.Println(n)
		return nil

	case "drop": // drop NAME
		if err := need(args, 1, "drop NAME"); err != nil {
			return err
		}
		h, ok := sh.names[args[0]]
		if !ok {
			return fmt.Errorf("unknown name %q", args[0])
		}
		h.Close()
		delete(sh.names, args[0])
		return nil

	case "names":
		for name := range sh.names {
			fmt.Println(name)
		}
		return nil

	case "live":
		fmt.Println(sh.runtime.Live())
		return nil

	case "save": // save SNAPSHOT NAME
		if err := need(args, 2, "save SNAPSHOT NAME"); err != nil {
			return err
		}
		if sh.store == nil {
			return fmt.Errorf("no snapshot database (start with -db)")
		}
		h, ok := sh.names[args[1]]
		if !ok {
			return fmt.Errorf("unknown name %q", args[1])
		}
		return sh.store.SaveValue(sh.runtime, args[0], h.Ref())

	case "load": // load SNAPSHOT NAME
		if err := need(args, 2, "load SNAPSHOT NAME"); err != nil {
			return err
		}
		if sh.store == nil {
			return fmt.Errorf("no snapshot database (start with -db)")
		}
		v, err := sh.store.LoadValue(sh.runtime, args[0])
		if err != nil {
			return err
		}
		sh.bind(args[1], handle.Steal(sh.runtime, v))
		return nil

	case "snapshots":
		if sh.store == nil {
			return fmt.Errorf("no snapshot database (start with -db)")
		}
		names, err := sh.store.List()
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	}
	return fmt.Errorf("unknown command %q ('help' lists commands)", cmd)
}

// show prints a handle's canonical form.
func (sh *shell) show(h handle.Handle) error {
	s, err := h.Repr()
	if err != nil {
		return err
	}
	fmt.Println(s)
	return nil
}

const helpText = `Bindings:
  bind NAME VALUE          bind a literal or copy a binding
  list NAME [VALUE...]     bind a new list
  tuple NAME [VALUE...]    bind a new tuple
  dict NAME                bind a new empty dict
  obj NAME TYPENAME        bind a new instance of a fresh type
  drop NAME                release a binding
  names                    list bindings

Access:
  set CONTAINER KEY VALUE  assign through an indexed reference
  get CONTAINER KEY [NAME] read an item, print or bind it
  attr OBJ NAME [BIND]     read an attribute
  setattr OBJ NAME VALUE   write an attribute
  delattr OBJ NAME         delete an attribute
  mcall OBJ METHOD [ARG..] call a method

Queries:
  repr NAME | print NAME   canonical form
  len NAME                 size
  type NAME                type object
  cmp A B                  tri-state ordering
  refs NAME                reference count
  live                     live heap objects

Snapshots (with -db):
  save SNAPSHOT NAME       persist a value graph
  load SNAPSHOT NAME       rebuild a value graph
  snapshots                list stored snapshots

  quit | exit
`
