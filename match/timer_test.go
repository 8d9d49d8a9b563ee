// Copyright (c) 2024-present, the lgtbot authors.
//
// This file is part of lgtbot.  lgtbot is free software, distributed
// under the GNU Lesser General Public License, version 2.

package match

import (
	"testing"
	"time"
)

func collectSchedule(t *testing.T, sec uint64) (durs []uint64, alerts []uint64, timeoutAt int) {
	t.Helper()
	var fired []uint64
	tasks := timerTasks(sec,
		func(remain uint64) { fired = append(fired, remain) },
		func() { timeoutAt = len(fired) })
	timeoutAt = -1
	for _, task := range tasks {
		durs = append(durs, task.sec)
		if task.fn != nil {
			task.fn()
		}
	}
	return durs, fired, timeoutAt
}

func TestShortStageHasNoAlerts(t *testing.T) {
	for _, sec := range []uint64{1, 5, 19} {
		durs, alerts, _ := collectSchedule(t, sec)
		if len(durs) != 1 || durs[0] != sec {
			t.Errorf("timerTasks(%d) durations = %v", sec, durs)
		}
		if len(alerts) != 0 {
			t.Errorf("timerTasks(%d) alerts = %v", sec, alerts)
		}
	}
}

func TestAlertScheduleDoubles(t *testing.T) {
	durs, alerts, _ := collectSchedule(t, 60)
	// Head delay, alert at 20 remaining, alert at 10 remaining, timeout.
	want := []uint64{20, 20, 10, 10}
	if len(durs) != len(want) {
		t.Fatalf("durations = %v, want %v", durs, want)
	}
	for i := range want {
		if durs[i] != want[i] {
			t.Fatalf("durations = %v, want %v", durs, want)
		}
	}
	if len(alerts) != 2 || alerts[0] != 20 || alerts[1] != 10 {
		t.Fatalf("alerts = %v", alerts)
	}
}

func TestScheduleSumsToTotal(t *testing.T) {
	for _, sec := range []uint64{20, 30, 60, 120, 300, 600} {
		durs, alerts, timeoutAt := collectSchedule(t, sec)
		var sum uint64
		for _, d := range durs {
			sum += d
		}
		if sum != sec {
			t.Errorf("timerTasks(%d) durations sum to %d", sec, sum)
		}
		// The timeout must fire after every alert.
		if timeoutAt != len(alerts) {
			t.Errorf("timerTasks(%d): timeout fired before alert %d", sec, timeoutAt)
		}
	}
}

func TestAlertsDescend(t *testing.T) {
	_, alerts, _ := collectSchedule(t, 600)
	for i := 1; i < len(alerts); i++ {
		if alerts[i-1] <= alerts[i] {
			t.Fatalf("alerts not descending: %v", alerts)
		}
	}
	if alerts[len(alerts)-1] != minAlertSec {
		t.Fatalf("final alert = %d, want %d", alerts[len(alerts)-1], minAlertSec)
	}
}

func TestTimerStop(t *testing.T) {
	done := make(chan struct{})
	tm := newTimer([]timerTask{{sec: 3600, fn: func() { close(done) }}})
	tm.Stop()
	tm.Stop() // idempotent
	select {
	case <-done:
		t.Fatal("stopped timer fired")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTimerRunsTasksInOrder(t *testing.T) {
	var got []int
	done := make(chan struct{})
	newTimer([]timerTask{
		{sec: 0, fn: func() { got = append(got, 1) }},
		{sec: 0, fn: nil},
		{sec: 0, fn: func() { got = append(got, 2); close(done) }},
	})
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timer did not run")
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("got = %v", got)
	}
}
