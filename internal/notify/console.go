package notify

import (
	"delivery-tracker/internal/ports"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// Console prints notifications for the driver and mirrors them to the log.
type Console struct {
	mu  sync.Mutex
	out io.Writer
	log logrus.FieldLogger
}

var _ ports.Notifier = (*Console)(nil)

func NewConsole(out io.Writer, log logrus.FieldLogger) *Console {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Console{out: out, log: log}
}

var toastPrefix = map[ports.Severity]string{
	ports.SeveritySuccess: "[ok]",
	ports.SeverityWarning: "[!]",
	ports.SeverityError:   "[x]",
}

func (c *Console) Toast(severity ports.Severity, message string) {
	c.print("%s %s\n", toastPrefix[severity], message)

	entry := c.log.WithField("severity", string(severity))
	switch severity {
	case ports.SeverityError:
		entry.Warn(message)
	default:
		entry.Info(message)
	}
}

func (c *Console) Alert(title, message string) {
	c.print("== %s ==\n%s\n", title, message)
	c.log.WithField("title", title).Info(message)
}

func (c *Console) Block(message string) {
	c.print("\n*** %s ***\n\n", message)
	c.log.WithField("blocking", true).Warn(message)
}

func (c *Console) print(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}
