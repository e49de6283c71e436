/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package fw

import (
	"github.com/named-data/ndnfw/core"
	"github.com/named-data/ndnfw/face"
	"github.com/named-data/ndnfw/ndn"
)

type pendingInterest struct {
	inFace   face.Face
	interest *ndn.Interest
}

type pendingData struct {
	inFace face.Face
	data   *ndn.Data
}

type pendingNack struct {
	inFace face.Face
	nack   *ndn.Nack
}

// TellToQuit tells the forwarding thread to quit.
func (f *Forwarder) TellToQuit() {
	core.LogInfo(f, "Told to quit")
	f.shouldQuit <- true
}

// Run runs the forwarding thread until told to quit. All pipelines and strategy hooks are invoked
// from this goroutine.
func (f *Forwarder) Run() {
	ticker := f.clock.Ticker(expiryCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case pending := <-f.pendingInterests:
			f.OnIncomingInterest(pending.inFace, pending.interest)
		case pending := <-f.pendingDatas:
			f.OnIncomingData(pending.inFace, pending.data)
		case pending := <-f.pendingNacks:
			f.OnIncomingNack(pending.inFace, pending.nack)
		case task := <-f.pendingTasks:
			task()
		case <-ticker.C:
			now := f.clock.Now()
			f.ExpirePendingInterests(now)
			f.deadNonceList.RemoveExpiredEntries(now)
			f.measurements.Cleanup(now)
		case <-f.shouldQuit:
			core.LogInfo(f, "Stopping thread")
			f.HasQuit <- true
			return
		}
	}
}

// QueueInterest queues an Interest received on inFace for processing by the forwarding thread.
func (f *Forwarder) QueueInterest(inFace face.Face, interest *ndn.Interest) {
	f.pendingInterests <- &pendingInterest{inFace: inFace, interest: interest}
}

// QueueData queues a Data packet received on inFace for processing by the forwarding thread.
func (f *Forwarder) QueueData(inFace face.Face, data *ndn.Data) {
	f.pendingDatas <- &pendingData{inFace: inFace, data: data}
}

// QueueNack queues a Nack received on inFace for processing by the forwarding thread.
func (f *Forwarder) QueueNack(inFace face.Face, nack *ndn.Nack) {
	f.pendingNacks <- &pendingNack{inFace: inFace, nack: nack}
}

// Post schedules task to run on the forwarding thread. It never blocks, so it may be called from
// inside a pipeline; the task is dropped if the queue is full.
func (f *Forwarder) Post(task func()) bool {
	select {
	case f.pendingTasks <- task:
		return true
	default:
		core.LogWarn(f, "Task queue full - DROP")
		return false
	}
}
