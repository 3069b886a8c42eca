package notify

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/rl1809/cart-manager/internal/core/domain"
)

// LogNotifier records notifications on a structured logger, for headless use.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(ctx context.Context, note domain.Notification) {
	event := n.log.Info()
	if note.Level == domain.NotificationError {
		event = n.log.Error()
	}
	event.Int64("product_id", note.ProductID).Str("notification", string(note.Level)).Msg(note.Message)
}

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	successColor = color.New(color.FgGreen)
)

// TerminalNotifier prints notifications as colored toast lines.
type TerminalNotifier struct {
	out io.Writer
}

func NewTerminalNotifier(out io.Writer) *TerminalNotifier {
	return &TerminalNotifier{out: out}
}

func (n *TerminalNotifier) Notify(ctx context.Context, note domain.Notification) {
	c := successColor
	if note.Level == domain.NotificationError {
		c = errorColor
	}
	_, _ = fmt.Fprintln(n.out, c.Sprint(note.Message))
}
