package entities

import "strings"

// Document is a parsed annotated-text input.
type Document struct {
	Variables VariableMap    `json:"variables" yaml:"variables"`
	Blocks    []ContentBlock `json:"blocks" yaml:"blocks"`
	Warnings  []Warning      `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	// Legacy is set when the input had no variable markers at all.
	Legacy bool `json:"legacy,omitempty" yaml:"legacy,omitempty"`
}

// Serialize writes the content blocks back out separated by blank lines.
// Parsing the result yields the same blocks.
func (d *Document) Serialize() string {
	parts := make([]string, 0, len(d.Blocks))
	for _, b := range d.Blocks {
		parts = append(parts, b.Text())
	}
	return strings.Join(parts, "\n\n")
}

// BlockQueue is the FIFO of content blocks consumed by AUTOCONTENT. It is
// shared across every AUTOCONTENT directive of one run.
type BlockQueue struct {
	blocks []ContentBlock
	next   int
}

// NewBlockQueue queues blocks in source order.
func NewBlockQueue(blocks []ContentBlock) *BlockQueue {
	return &BlockQueue{blocks: blocks}
}

// Next dequeues the next block.
func (q *BlockQueue) Next() (ContentBlock, bool) {
	if q.next >= len(q.blocks) {
		return ContentBlock{}, false
	}
	b := q.blocks[q.next]
	q.next++
	return b, true
}

// Remaining returns the number of blocks not yet consumed.
func (q *BlockQueue) Remaining() int {
	return len(q.blocks) - q.next
}
