//go:build linux

// Package xroot sets the X root window name, which minimalist window
// managers such as dwm render as their status bar.
package xroot

import (
	"fmt"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// RootWindow writes status lines to the X root window name.
// It caches the X11 connection and atoms for efficiency.
type RootWindow struct {
	mu    sync.Mutex
	conn  *xgb.Conn
	root  xproto.Window
	atoms map[string]xproto.Atom
}

// Connect opens an X11 connection and resolves the root window of the
// default screen. The DISPLAY environment variable selects the server.
func Connect() (*RootWindow, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connecting to X server: %w", err)
	}

	setup := xproto.Setup(conn)
	if len(setup.Roots) == 0 {
		conn.Close()
		return nil, fmt.Errorf("X server reports no screens")
	}

	return &RootWindow{
		conn:  conn,
		root:  setup.Roots[0].Root,
		atoms: make(map[string]xproto.Atom),
	}, nil
}

// Set replaces the root window name with line. Both WM_NAME and
// _NET_WM_NAME are updated so legacy and EWMH status bar readers observe
// the same text. The requests are checked, so the new name is visible on
// the server once Set returns.
func (w *RootWindow) Set(line string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.conn == nil {
		return fmt.Errorf("X connection is closed")
	}

	data := []byte(line)

	// WM_NAME as STRING for legacy readers
	err := xproto.ChangePropertyChecked(w.conn, xproto.PropModeReplace, w.root,
		xproto.AtomWmName, xproto.AtomString, 8, uint32(len(data)), data).Check()
	if err != nil {
		return fmt.Errorf("setting WM_NAME: %w", err)
	}

	// _NET_WM_NAME as UTF8_STRING for EWMH readers
	nameAtom, err := w.getAtom("_NET_WM_NAME")
	if err != nil {
		return fmt.Errorf("interning _NET_WM_NAME: %w", err)
	}
	utf8Atom, err := w.getAtom("UTF8_STRING")
	if err != nil {
		return fmt.Errorf("interning UTF8_STRING: %w", err)
	}

	err = xproto.ChangePropertyChecked(w.conn, xproto.PropModeReplace, w.root,
		nameAtom, utf8Atom, 8, uint32(len(data)), data).Check()
	if err != nil {
		return fmt.Errorf("setting _NET_WM_NAME: %w", err)
	}

	return nil
}

// getAtom retrieves or interns an X11 atom by name.
func (w *RootWindow) getAtom(name string) (xproto.Atom, error) {
	if atom, ok := w.atoms[name]; ok {
		return atom, nil
	}

	reply, err := xproto.InternAtom(w.conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, err
	}

	if w.atoms == nil {
		w.atoms = make(map[string]xproto.Atom)
	}
	w.atoms[name] = reply.Atom
	return reply.Atom, nil
}

// Close releases the X11 connection. Subsequent Set calls return an error.
func (w *RootWindow) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.conn != nil {
		w.conn.Close()
		w.conn = nil
	}
	w.atoms = make(map[string]xproto.Atom)
	return nil
}
