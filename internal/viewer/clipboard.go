package viewer

import (
	"github.com/atotto/clipboard"

	"github.com/mcncl/jsonfmt/internal/errors"
)

// Clipboard receives copied text.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes to the operating system clipboard.
type SystemClipboard struct{}

// WriteAll copies text to the system clipboard.
func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return errors.NewClipboardError("no clipboard utility available", nil)
	}
	if err := clipboard.WriteAll(text); err != nil {
		return errors.NewClipboardError("failed to write to clipboard", err)
	}
	return nil
}
