// Package console is the line-oriented operator surface: each input line is
// one button press or keystroke on the device page.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"facecam/remote/internal/domain"
	"facecam/remote/internal/viewer"
)

// ErrUnknownCommand is returned for input that is not a console command.
var ErrUnknownCommand = errors.New("unknown command")

// Actions is what the console can ask of the viewer.
type Actions interface {
	RequestMode(mode domain.Mode) error
	SetName(text string)
	Capture() error
	CaptureAs(name string) error
	Remove(name string) error
	DeleteAll() error
	Roster() []domain.FaceEntry
	Snapshot() viewer.Snapshot
}

const usage = `commands:
  stream | detect | recognise   switch device mode
  name <text>                   type into the name field
  capture [name]                capture the current face
  remove <name>                 delete a stored face
  delete_all                    delete every stored face
  list                          show captured faces
  status                        show connection and device status
  quit                          exit
`

// Console reads commands from in and writes replies to out.
type Console struct {
	in      io.Reader
	out     io.Writer
	actions Actions
}

// New creates a Console.
func New(in io.Reader, out io.Writer, actions Actions) *Console {
	return &Console{in: in, out: out, actions: actions}
}

// Run processes lines until quit, end of input or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	fmt.Fprint(c.out, "type 'help' for commands\n")
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			quit, err := c.Execute(line)
			if err != nil {
				fmt.Fprintf(c.out, "error: %v\n", err)
			}
			if quit {
				return nil
			}
		}
	}
}

// Execute runs one command line. It reports whether the operator asked to
// quit.
func (c *Console) Execute(line string) (bool, error) {
	line = strings.TrimLeft(line, " \t")
	if line == "" {
		return false, nil
	}
	verb, arg, _ := strings.Cut(line, " ")

	switch strings.ToLower(verb) {
	case "stream", "detect", "recognise", "recognize":
		mode, err := domain.ParseMode(verb)
		if err != nil {
			return false, err
		}
		return false, c.sent(c.actions.RequestMode(mode))

	case "name":
		c.actions.SetName(arg)
		return false, nil

	case "capture":
		if arg != "" {
			return false, c.sent(c.actions.CaptureAs(arg))
		}
		return false, c.sent(c.actions.Capture())

	case "remove":
		if arg == "" {
			return false, fmt.Errorf("remove needs a name: %w", domain.ErrInvalidArgument)
		}
		return false, c.sent(c.actions.Remove(arg))

	case "delete_all", "clear":
		return false, c.sent(c.actions.DeleteAll())

	case "list":
		c.printRoster()
		return false, nil

	case "status":
		c.printStatus()
		return false, nil

	case "help", "?":
		fmt.Fprint(c.out, usage)
		return false, nil

	case "quit", "exit":
		return true, nil

	default:
		return false, fmt.Errorf("%q: %w (try 'help')", verb, ErrUnknownCommand)
	}
}

func (c *Console) sent(err error) error {
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, "sent")
	return nil
}

func (c *Console) printRoster() {
	entries := c.actions.Roster()
	if len(entries) == 0 {
		fmt.Fprintln(c.out, "no faces captured")
		return
	}
	for i, e := range entries {
		fmt.Fprintf(c.out, "%d. %s\n", i+1, e.Name)
	}
}

func (c *Console) printStatus() {
	s := c.actions.Snapshot()
	fmt.Fprintf(c.out, "connection: %s\n", s.Connection)
	fmt.Fprintf(c.out, "mode:       %s (requested)\n", s.Mode)
	fmt.Fprintf(c.out, "status:     %s [%s]\n", s.Status, s.Indicator)
	fmt.Fprintf(c.out, "name:       %q (%s)\n", s.PendingName, s.UIState)
	fmt.Fprintf(c.out, "faces:      %d\n", s.RosterSize)
	fmt.Fprintf(c.out, "frames:     %d\n", s.Frames)
}
