package telemetry

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/robinvdvleuten/accounts/output"
	"go.uber.org/zap"
)

// TimingCollector builds a tree of phase timings. Finished phases are also
// logged at debug level when a logger is set.
type TimingCollector struct {
	mu      sync.Mutex
	root    *node
	current *node
	logger  *zap.Logger
	now     func() time.Time
}

type node struct {
	name     string
	start    time.Time
	end      time.Time
	parent   *node
	children []*node
}

func (n *node) duration() time.Duration { return n.end.Sub(n.start) }

func NewTimingCollector() *TimingCollector {
	return &TimingCollector{logger: zap.NewNop(), now: time.Now}
}

// WithLogger logs each phase as it ends.
func (c *TimingCollector) WithLogger(logger *zap.Logger) *TimingCollector {
	c.logger = logger
	return c
}

// Start opens a phase under the most recently started open phase.
func (c *TimingCollector) Start(name string) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := &node{name: name, start: c.now()}
	if c.root == nil {
		c.root = n
	} else {
		n.parent = c.current
		c.current.children = append(c.current.children, n)
	}
	c.current = n
	return &timer{collector: c, node: n}
}

type timer struct {
	collector *TimingCollector
	node      *node
}

func (t *timer) End() {
	c := t.collector
	c.mu.Lock()
	defer c.mu.Unlock()

	t.node.end = c.now()
	if c.current == t.node && t.node.parent != nil {
		c.current = t.node.parent
	}
	c.logger.Debug("phase finished", zap.String("phase", t.node.name), zap.Duration("duration", t.node.duration()))
}

func (t *timer) Child(name string) Timer {
	c := t.collector
	c.mu.Lock()
	defer c.mu.Unlock()

	n := &node{name: name, start: c.now(), parent: t.node}
	t.node.children = append(t.node.children, n)
	return &timer{collector: c, node: n}
}

// Report prints the tree:
//
//	close-month: 125ms
//	├─ read month: 5ms
//	└─ commit: 40ms
func (c *TimingCollector) Report(w io.Writer, styles *output.Styles) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.root == nil {
		return
	}

	name := c.root.name
	if styles != nil {
		name = styles.Keyword(name)
	}
	_, _ = fmt.Fprintf(w, "%s: %s\n", name, formatDuration(c.root.duration()))
	for i, child := range c.root.children {
		writeNode(w, child, "", i == len(c.root.children)-1, styles)
	}
}

func writeNode(w io.Writer, n *node, prefix string, last bool, styles *output.Styles) {
	branch, extension := "├─ ", "│  "
	if last {
		branch, extension = "└─ ", "   "
	}

	tree, timing := prefix+branch, formatDuration(n.duration())
	if styles != nil {
		tree = styles.Dim(tree)
		timing = styles.Timing(timing, n.duration() >= slowPhase)
	}
	_, _ = fmt.Fprintf(w, "%s%s: %s\n", tree, n.name, timing)

	for i, child := range n.children {
		writeNode(w, child, prefix+extension, i == len(n.children)-1, styles)
	}
}

// formatDuration prints milliseconds below a second, seconds otherwise.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
