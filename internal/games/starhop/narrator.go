package starhop

// Narrator shows short flavour lines one at a time.
type Narrator struct {
	queue   []string
	current string
	left    float64
	hold    float64
	maxLen  int
	said    []string // Lines said since the last Drain
}

// NewNarrator creates a narrator that holds each line for hold seconds.
func NewNarrator(hold float64) *Narrator {
	if hold <= 0 {
		hold = 2.5
	}
	return &Narrator{hold: hold, maxLen: 8}
}

// Say queues a line. When the queue is full the oldest pending line is dropped.
func (n *Narrator) Say(text string) {
	if text == "" {
		return
	}
	n.said = append(n.said, text)
	if n.current == "" {
		n.current = text
		n.left = n.hold
		return
	}
	if len(n.queue) >= n.maxLen {
		n.queue = n.queue[1:]
	}
	n.queue = append(n.queue, text)
}

// Interrupt replaces whatever is showing and drops pending lines.
func (n *Narrator) Interrupt(text string) {
	if text == "" {
		return
	}
	n.queue = n.queue[:0]
	n.current = ""
	n.Say(text)
}

// Update advances the display timer.
func (n *Narrator) Update(dt float64) {
	if n.current == "" {
		return
	}
	n.left -= dt
	if n.left > 0 {
		return
	}
	if len(n.queue) == 0 {
		n.current = ""
		return
	}
	n.current = n.queue[0]
	n.queue = n.queue[1:]
	n.left = n.hold
}

// Current returns the line on screen, or "".
func (n *Narrator) Current() string { return n.current }

// Pending returns how many lines are waiting.
func (n *Narrator) Pending() int { return len(n.queue) }

// Drain returns the lines said since the previous call.
func (n *Narrator) Drain() []string {
	if len(n.said) == 0 {
		return nil
	}
	out := n.said
	n.said = nil
	return out
}
