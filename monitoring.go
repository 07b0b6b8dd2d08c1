package eatery

import (
	"net/http"
	"os"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"logur.dev/logur"
)

// requests slower than this from client send to server receipt are logged
const latencyWarning = 2 * time.Second

var msgNum int64
var msgTotal uint64

type Monitoring struct {
	Status       string `json:"status"`
	HostName     string `json:"hostName"`
	Subject      string `json:"subject"`
	Alloc        uint64 `json:"alloc"`      // currently allocated number of bytes on the heap
	TotalAlloc   uint64 `json:"totalAlloc"` // cumulative bytes allocated on the heap
	Sys          uint64 `json:"sys"`        // total memory obtained from the OS
	Mallocs      uint64 `json:"mallocs"`
	Frees        uint64 `json:"frees"`
	LiveObjects  uint64 `json:"liveObjects"` // mallocs - frees
	PauseTotalNs uint64 `json:"pauseTotalNs"`
	NumGC        uint32 `json:"numGC"`
	NumGoroutine int    `json:"numGoroutine"`
	Pid          int    `json:"pid"`
	MsgNum       int64  `json:"msgNum"`   // requests in flight
	MsgTotal     uint64 `json:"msgTotal"` // requests served since start
	Language     string `json:"language"`
}

func DoMonitoringCheck(subject string) *Monitoring {
	var rtm runtime.MemStats
	runtime.ReadMemStats(&rtm)

	return &Monitoring{
		Status:       UP,
		HostName:     hostname,
		Subject:      subject,
		Alloc:        rtm.Alloc,
		TotalAlloc:   rtm.TotalAlloc,
		Sys:          rtm.Sys,
		Mallocs:      rtm.Mallocs,
		Frees:        rtm.Frees,
		LiveObjects:  rtm.Mallocs - rtm.Frees,
		PauseTotalNs: rtm.PauseTotalNs,
		NumGC:        rtm.NumGC,
		NumGoroutine: runtime.NumGoroutine(),
		Pid:          os.Getpid(),
		MsgNum:       atomic.LoadInt64(&msgNum),
		MsgTotal:     atomic.LoadUint64(&msgTotal),
		Language:     "Go",
	}
}

// BeginRequest counts a request in and warns when the client stamped it
// with a send time too long ago.
func BeginRequest(logger logur.Logger, header http.Header) {
	atomic.AddInt64(&msgNum, 1)
	atomic.AddUint64(&msgTotal, 1)

	requestTimeStr := header.Get(XRequestTime)
	if requestTimeStr == "" {
		return
	}
	requestTime, err := strconv.ParseInt(requestTimeStr, 10, 64)
	if err != nil {
		return
	}
	if latency := time.Since(time.Unix(0, requestTime)); latency > latencyWarning {
		logger.Warn("request latency is too high", map[string]interface{}{"latency_ms": latency.Milliseconds()})
	}
}

func EndRequest() {
	atomic.AddInt64(&msgNum, -1)
}

func MsgCountLoad() int64 {
	return atomic.LoadInt64(&msgNum)
}
