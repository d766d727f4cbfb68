package browse

import (
	"sync"
	"time"
)

// BannerTTL is how long a notice stays visible.
const BannerTTL = 3 * time.Second

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeFailure NoticeKind = "failure"
)

type Notice struct {
	Kind NoticeKind
	Text string
}

// Banner shows one transient notice at a time instead of a blocking dialog.
type Banner struct {
	mu     sync.Mutex
	notice Notice
	until  time.Time
	now    func() time.Time
}

func NewBanner() *Banner {
	return &Banner{now: time.Now}
}

// Show replaces the current notice.
func (b *Banner) Show(kind NoticeKind, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notice = Notice{Kind: kind, Text: text}
	b.until = b.now().Add(BannerTTL)
}

func (b *Banner) Success(text string) { b.Show(NoticeSuccess, text) }

func (b *Banner) Failure(err error) { b.Show(NoticeFailure, err.Error()) }

// Current returns the visible notice, if it has not expired.
func (b *Banner) Current() (Notice, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.notice.Text == "" || !b.now().Before(b.until) {
		return Notice{}, false
	}
	return b.notice, true
}
