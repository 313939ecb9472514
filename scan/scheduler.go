package scan

import (
	"sync"
	"time"
)

// Timer adalah handle timer yang bisa dibatalkan. Stop boleh dipanggil berkali-kali.
type Timer interface {
	Stop()
}

// Scheduler menggerakkan polling dan delay konfirmasi.
// Produksi memakai RealScheduler, test memakai ManualScheduler.
type Scheduler interface {
	Now() time.Time
	// Every memanggil fn setiap d. Callback satu timer tidak pernah tumpang tindih.
	Every(d time.Duration, fn func()) Timer
	// After memanggil fn sekali setelah d.
	After(d time.Duration, fn func()) Timer
}

type RealScheduler struct{}

func (RealScheduler) Now() time.Time {
	return time.Now()
}

func (RealScheduler) After(d time.Duration, fn func()) Timer {
	return afterTimer{time.AfterFunc(d, fn)}
}

// Every menjalankan fn secara sinkron di goroutine ticker, jadi tick berikutnya
// baru diproses setelah fn selesai. Tick yang lewat saat fn masih jalan dibuang.
func (RealScheduler) Every(d time.Duration, fn func()) Timer {
	t := &tickerTimer{ticker: time.NewTicker(d), done: make(chan struct{})}
	go func() {
		for {
			select {
			case <-t.done:
				return
			case <-t.ticker.C:
				select {
				case <-t.done:
					return
				default:
				}
				fn()
			}
		}
	}()
	return t
}

type afterTimer struct {
	t *time.Timer
}

func (a afterTimer) Stop() {
	a.t.Stop()
}

type tickerTimer struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *tickerTimer) Stop() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
	})
}
