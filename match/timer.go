// Graduated countdown timer
//
// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

package match

import (
	"sync"
	"time"
)

// Seats get alerted as the deadline approaches, with alert intervals
// doubling away from the deadline so that short stages stay quiet and
// long stages get a handful of reminders.
const minAlertSec = 10

type timerTask struct {
	sec uint64
	fn  func() // nil is a plain delay
}

// timer runs a task list sequentially on its own goroutine until done
// or stopped.
type timer struct {
	stop chan struct{}
	once sync.Once
}

func newTimer(tasks []timerTask) *timer {
	t := &timer{stop: make(chan struct{})}
	go func() {
		for _, task := range tasks {
			select {
			case <-time.After(time.Duration(task.sec) * time.Second):
				if task.fn != nil {
					task.fn()
				}
			case <-t.stop:
				return
			}
		}
	}()
	return t
}

func (t *timer) Stop() {
	t.once.Do(func() { close(t.stop) })
}

// timerTasks lays out the alert schedule for a stage of sec seconds.
// Alerts fire when 10, 20, 40, ... seconds remain, never eating more
// than half the total time; stages shorter than twice the minimum
// alert get no alert at all.  Each alert task's own duration equals
// the remaining time announced by the previous one.
func timerTasks(sec uint64, alert func(remainSec uint64), timeout func()) []timerTask {
	if minAlertSec > sec/2 {
		return []timerTask{{sec, timeout}}
	}
	tasks := []timerTask{{minAlertSec, timeout}}
	sum := uint64(minAlertSec)
	for alertSec := uint64(minAlertSec); sum < sec/2; alertSec *= 2 {
		remain := alertSec
		tasks = append([]timerTask{{alertSec, func() { alert(remain) }}}, tasks...)
		sum += alertSec
	}
	return append([]timerTask{{sec - sum, nil}}, tasks...)
}
