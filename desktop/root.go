// Package desktop queries the X11 root window for wallpaper mode.
package desktop

import (
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// Display is a connection to the X server's default screen.
type Display struct {
	conn *xgb.Conn
	root xproto.Window

	width, height int
	wasPressed    bool
}

// Open connects to the X server named by $DISPLAY.
func Open() (*Display, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connecting to X server: %w", err)
	}
	screen := xproto.Setup(conn).DefaultScreen(conn)
	return &Display{
		conn:   conn,
		root:   screen.Root,
		width:  int(screen.WidthInPixels),
		height: int(screen.HeightInPixels),
	}, nil
}

// Size returns the root window size in pixels.
func (d *Display) Size() (int, int) { return d.width, d.height }

// Refresh re-reads the root window geometry, picking up monitor changes.
func (d *Display) Refresh() error {
	geom, err := xproto.GetGeometry(d.conn, xproto.Drawable(d.root)).Reply()
	if err != nil {
		return fmt.Errorf("querying root geometry: %w", err)
	}
	d.width, d.height = int(geom.Width), int(geom.Height)
	return nil
}

// Clicked reports a primary button press anywhere on the desktop since the last call.
// Wallpaper windows sit below every other window and never receive input events,
// so the pointer is polled instead.
func (d *Display) Clicked() (bool, error) {
	reply, err := xproto.QueryPointer(d.conn, d.root).Reply()
	if err != nil {
		return false, fmt.Errorf("querying pointer: %w", err)
	}
	pressed := reply.Mask&xproto.KeyButMaskButton1 != 0
	clicked := pressed && !d.wasPressed
	d.wasPressed = pressed
	return clicked, nil
}

// Close releases the X connection. Safe to call on nil.
func (d *Display) Close() {
	if d == nil || d.conn == nil {
		return
	}
	d.conn.Close()
	d.conn = nil
}
