package msg

import (
	"fmt"
	"sync/atomic"
)

// Progress numbers the steps of a fixed-size batch of work. Step is safe to
// call from concurrent build jobs.
type Progress struct {
	total   int64
	current atomic.Int64
}

func NewProgress(total int) *Progress {
	return &Progress{total: int64(total)}
}

// Step claims the next step and returns its "[ n/total]" prefix, padded so
// consecutive lines stay aligned.
func (p *Progress) Step() string {
	n := p.current.Add(1)
	width := len(fmt.Sprint(p.total))
	return fmt.Sprintf("[%*d/%d]", width, n, p.total)
}
