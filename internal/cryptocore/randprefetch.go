package cryptocore

import (
	"bytes"
	"log"
	"sync"
)

// Number of bytes to prefetch. Batch mode draws one 12-byte nonce per file,
// so one refill covers about 40 files.
const prefetchN = 512

func init() {
	randPrefetcher.refill = make(chan []byte)
	go randPrefetcher.refillWorker()
}

// randPrefetcherT hands out random bytes from a buffer that a background
// goroutine keeps refilling in prefetchN-sized chunks.
type randPrefetcherT struct {
	sync.Mutex
	buf    bytes.Buffer
	refill chan []byte
}

func (r *randPrefetcherT) read(want int) (out []byte) {
	if want > prefetchN {
		return RandBytes(want)
	}
	out = make([]byte, want)
	r.Lock()
	// Note: don't use defer, it slows us down!
	have, err := r.buf.Read(out)
	if have == want && err == nil {
		r.Unlock()
		return out
	}
	// Not enough left -> drop the rest and re-fill
	fresh := <-r.refill
	if len(fresh) != prefetchN {
		log.Panicf("randPrefetcher: refill: got %d bytes instead of %d", len(fresh), prefetchN)
	}
	r.buf.Reset()
	r.buf.Write(fresh)
	have, err = r.buf.Read(out)
	if have != want || err != nil {
		log.Panicf("randPrefetcher could not satisfy read: have=%d want=%d err=%v", have, want, err)
	}
	r.Unlock()
	return out
}

func (r *randPrefetcherT) refillWorker() {
	for {
		r.refill <- RandBytes(prefetchN)
	}
}

var randPrefetcher randPrefetcherT
